package entity

import (
	"time"

	"gorm.io/gorm"
)

type Like struct {
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"primaryKey"`
	Post   Post   `gorm:"foreignKey:PostID"`
}

type Bookmark struct {
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	PostID string `gorm:"primaryKey"`
	Post   Post   `gorm:"foreignKey:PostID"`
}
