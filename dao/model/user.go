package model

import (
	"gorm.io/gorm"
)

// User is the basic entity of the system
type User struct {
	gorm.Model
	Name     string  `gorm:"uniqueIndex;type:varchar(32);not null;comment:username"`
	Nickname *string `gorm:"type:varchar(32);comment:display name"`
	Email    *string `gorm:"type:varchar(128);comment:mail address for build alerts"`
	Password *string `gorm:"type:varchar(128);comment:bcrypt hash"`
	Role     Role    `gorm:"not null;default:2;comment:platform role"`
	Status   Status  `gorm:"not null;default:2;comment:user status"`
}

// UserInfo is the subset of User embedded in list responses.
type UserInfo struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}
