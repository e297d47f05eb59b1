package stores

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/surafel-47/blog-mmcy/internal/models"

	"gorm.io/gorm"
)

// AuditFilter narrows AuditStore.ListAuditLogs. From and To bound the
// timestamp as [From, To) when non-zero.
type AuditFilter struct {
	ActionContains string
	From           time.Time
	To             time.Time
}

// AuditStore is append-only; it has no update or delete.
type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	// ListAuditLogs returns matching entries newest first with users loaded.
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error)
}

type GormAuditStore struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewGormAuditStore(db *gorm.DB, logger *slog.Logger) *GormAuditStore {
	return &GormAuditStore{DB: db, Logger: resolveLogger(logger)}
}

func (s *GormAuditStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := s.DB.WithContext(ctx).Omit("User").Create(entry).Error; err != nil {
		return logError(s.Logger, "audit_store_create_failed", err,
			"action", string(entry.Action),
			"user_id", entry.UserID,
		)
	}
	return nil
}

func (s *GormAuditStore) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	tx := s.DB.WithContext(ctx).Model(&models.AuditLog{}).Preload("User")

	if action := strings.TrimSpace(filter.ActionContains); action != "" {
		tx = tx.Where("LOWER(audit_logs.action) LIKE ?", "%"+strings.ToLower(action)+"%")
	}
	if !filter.From.IsZero() {
		tx = tx.Where("audit_logs.timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		tx = tx.Where("audit_logs.timestamp < ?", filter.To)
	}

	var entries []models.AuditLog
	if err := tx.Order("audit_logs.timestamp DESC").Order("audit_logs.id DESC").Find(&entries).Error; err != nil {
		return nil, logError(s.Logger, "audit_store_list_failed", err, "action", filter.ActionContains)
	}
	return entries, nil
}

var _ AuditStore = (*GormAuditStore)(nil)
