// Package audit appends audit log entries after sensitive actions.
// Recording is best effort: failures are logged and never reach the caller.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surafel-47/blog-mmcy/internal/models"
)

const writeTimeout = 5 * time.Second

// Store is the subset of stores.AuditStore the recorder needs.
type Store interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record stamps the entry now and writes it on a detached goroutine.
// Call it only after the triggering mutation has been applied.
func (r *Recorder) Record(action models.AuditAction, userID uint, description string) {
	entry := &models.AuditLog{
		EventID:     uuid.NewString(),
		Action:      action,
		Description: description,
		UserID:      userID,
		Timestamp:   r.now().UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.store.CreateAuditLog(ctx, entry); err != nil {
			r.logger.Error("audit record failed",
				"event", "audit_record_failed",
				"action", string(action),
				"user_id", userID,
				"event_id", entry.EventID,
				"error", err.Error(),
			)
		}
	}()
}

// Wait blocks until every pending write has finished.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
