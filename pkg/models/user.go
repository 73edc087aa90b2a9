package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Mobile       string    `gorm:"type:varchar(15);uniqueIndex;not null" json:"mobile"`
	Email        *string   `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
	Location     string    `gorm:"type:varchar(200)" json:"location"`
	ProfilePic   string    `gorm:"type:varchar(500)" json:"profile_pic"`
	Password     string    `gorm:"type:varchar(200);not null" json:"-"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
}

func (User) TableName() string {
	return "users"
}
