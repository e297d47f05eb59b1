package models

import (
	"time"
)

type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"not null" json:"content"`
	ViewCount  int64     `gorm:"not null;default:0" json:"viewCount"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	AuthorID   uint      `gorm:"not null;index" json:"authorId"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
