package models

import (
	"time"
)

type AuditAction string

const (
	AuditRegistration AuditAction = "registration"
	AuditLogin        AuditAction = "login"
	AuditPostCreated  AuditAction = "post-created"
	AuditPostEdited   AuditAction = "post-edited"
	AuditPostDeleted  AuditAction = "post-deleted"
)

// AuditLog is an append-only record of a sensitive action.
type AuditLog struct {
	ID          uint        `gorm:"primaryKey"`
	EventID     string      `gorm:"type:varchar(36);not null;uniqueIndex"`
	Action      AuditAction `gorm:"type:varchar(64);not null;index"`
	Description string
	UserID      uint      `gorm:"not null;index"`
	User        User      `gorm:"foreignKey:UserID"`
	Timestamp   time.Time `gorm:"not null;index"`
}
