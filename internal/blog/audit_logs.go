package blog

import (
	"context"
	"strings"
	"time"

	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/stores"
)

const auditDateLayout = "2006-01-02"

// AuditQuery filters audit logs. Date is a single UTC day as YYYY-MM-DD.
type AuditQuery struct {
	Action string
	Date   string
}

type AuditLogReader struct {
	Deps
}

func NewAuditLogReader(d Deps) *AuditLogReader {
	return &AuditLogReader{Deps: d.withDefaults()}
}

// List is restricted to callers whose stored role is editor.
func (m *AuditLogReader) List(ctx context.Context, id policy.Identity, q AuditQuery) ([]AuditLogView, error) {
	_, id, err := m.actor(ctx, id, policy.ActionViewAuditLogs)
	if err != nil {
		return nil, err
	}
	if d := m.Policy.Authorize(id, policy.ActionViewAuditLogs, policy.Resource{}); !d.Allowed {
		e := denied(d).(*Error)
		if d.Reason == policy.ReasonWrongRole {
			e.Kind = KindForbidden
		}
		return nil, e
	}

	filter := stores.AuditFilter{ActionContains: strings.TrimSpace(q.Action)}
	if date := strings.TrimSpace(q.Date); date != "" {
		day, err := time.ParseInLocation(auditDateLayout, date, time.UTC)
		if err != nil {
			return nil, validation("Invalid date, expected YYYY-MM-DD")
		}
		filter.From = day
		filter.To = day.Add(24 * time.Hour)
	}

	entries, err := m.AuditLogs.ListAuditLogs(ctx, filter)
	if err != nil {
		return nil, m.fail("list_audit_logs", err)
	}
	views := make([]AuditLogView, 0, len(entries))
	for i := range entries {
		views = append(views, NewAuditLogView(&entries[i]))
	}
	return views, nil
}
