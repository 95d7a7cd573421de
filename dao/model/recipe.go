package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScriptFile is one file of the script bundle copied into the image working
// directory. Content is opaque payload bytes, stored verbatim.
type ScriptFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Recipe describes a reproducible training runtime environment: a base image,
// an ordered package set and a script bundle with a designated entry script.
// Package order is part of the contract, the JSON columns keep it.
type Recipe struct {
	gorm.Model
	UserID      uint
	User        User
	Name        string                              `gorm:"uniqueIndex;type:varchar(128);not null;comment:recipe name"`
	Description *string                             `gorm:"type:varchar(512);comment:description"`
	BaseImage   string                              `gorm:"type:varchar(256);not null;comment:base image reference"`
	WorkDir     string                              `gorm:"type:varchar(128);not null;default:/workspace;comment:working directory in the image"`
	EntryScript string                              `gorm:"type:varchar(128);not null;comment:script run as the default command"`
	AptPackages datatypes.JSONSlice[string]         `gorm:"comment:ordered apt package list"`
	PipPackages datatypes.JSONSlice[string]         `gorm:"comment:ordered pip package list with pins"`
	Scripts     datatypes.JSONType[[]ScriptFile]    `gorm:"comment:script bundle"`
	Builds      []Build
}
