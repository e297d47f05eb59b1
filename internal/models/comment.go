package models

import (
	"time"
)

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"not null"`
	PostID    uint      `gorm:"not null;index"`
	Post      Post      `gorm:"foreignKey:PostID"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
