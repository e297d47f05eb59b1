package models

import (
	"time"
)

// User represents the users table in database.
// Favorites and History are the user's favorite and opened posts.
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Username             string         `gorm:"uniqueIndex;not null" json:"username"`
	Email                string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string         `gorm:"not null" json:"-"`
	RoleID               uint           `gorm:"not null" json:"roleId"`
	Role                 Role           `gorm:"foreignKey:RoleID" json:"role"`
	ReceiveNotifications bool           `gorm:"not null;default:true" json:"receiveNotifications"`
	Favorites            []Favorite     `gorm:"foreignKey:UserID" json:"-"`
	History              []HistoryEntry `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// Favorite links a user to a post they marked as favorite.
type Favorite struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	PostID    uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

func (Favorite) TableName() string { return "user_favorites" }

// HistoryEntry records that a user opened a post. ID gives the order.
type HistoryEntry struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_history_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_history_user_post"`
	CreatedAt time.Time
}

func (HistoryEntry) TableName() string { return "user_history" }
