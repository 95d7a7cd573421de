package model

import (
	"gorm.io/gorm"
)

type BuildStatus string

const (
	BuildJobPending  BuildStatus = "Pending"
	BuildJobRunning  BuildStatus = "Running"
	BuildJobFinished BuildStatus = "Finished"
	BuildJobFailed   BuildStatus = "Failed"
	BuildJobCanceled BuildStatus = "Canceled"
)

// Build is one submission of a recipe to BuildKit. The rendered Dockerfile is
// snapshotted on the row so later recipe edits cannot rewrite build history.
type Build struct {
	gorm.Model
	UserID      uint
	User        User
	RecipeID    uint
	Recipe      Recipe
	JobName     string      `gorm:"uniqueIndex;type:varchar(128);not null;comment:build job name"`
	ImageLink   string      `gorm:"type:varchar(256);not null;comment:pushed image reference"`
	NameSpace   string      `gorm:"type:varchar(128);not null;comment:namespace of the build job"`
	Status      BuildStatus `gorm:"not null;comment:build status"`
	Dockerfile  *string     `gorm:"type:text;comment:rendered Dockerfile"`
	Description *string     `gorm:"type:varchar(512);comment:description"`
	Size        int64       `gorm:"type:bigint;default:0;comment:image size in bytes"`
}

// Image is a successfully built and pushed environment image, available as a
// runtime for training jobs.
type Image struct {
	gorm.Model
	UserID      uint
	User        User
	ImageLink   string  `gorm:"type:varchar(256);not null;comment:image reference"`
	JobName     *string `gorm:"uniqueIndex;type:varchar(128);comment:build job that produced the image"`
	Description *string `gorm:"type:varchar(512);comment:description"`
	IsPublic    bool    `gorm:"type:boolean;default:false;comment:visible to all users"`
	Size        int64   `gorm:"type:bigint;default:0;comment:image size in bytes"`
}
