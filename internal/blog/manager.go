// Package blog holds the resource managers. Each mutating operation
// resolves the caller, loads the addressed resource, asks the policy,
// validates and sanitizes input, applies the change and then records an
// audit entry when the action is recordable.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/sanitize"
	"github.com/surafel-47/blog-mmcy/internal/stores"
	"github.com/surafel-47/blog-mmcy/internal/token"
	"github.com/surafel-47/blog-mmcy/internal/user"
)

const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AuditRecorder is satisfied by *audit.Recorder.
type AuditRecorder interface {
	Record(action models.AuditAction, userID uint, description string)
}

// Deps carries every collaborator a manager may need. Managers use the
// subset relevant to them.
type Deps struct {
	Policy        *policy.Policy
	Users         stores.UserStore
	RefreshTokens stores.RefreshTokenStore
	Posts         stores.PostStore
	Comments      stores.CommentStore
	AuditLogs     stores.AuditStore
	Catalog       stores.CatalogStore

	Hasher    user.PasswordHasher
	Tokens    token.TokenService
	Recorder  AuditRecorder
	Sanitizer *sanitize.Sanitizer

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Logger *slog.Logger
	Now    func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Policy == nil {
		d.Policy = policy.New(models.RoleViewer, models.RoleEditor)
	}
	if d.Sanitizer == nil {
		d.Sanitizer = sanitize.New()
	}
	if d.AccessTokenTTL <= 0 {
		d.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if d.RefreshTokenTTL <= 0 {
		d.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// actor resolves the caller for action. Anonymous callers get the policy's
// not-authenticated denial; otherwise the user is loaded so role checks see
// the role stored now rather than the one in the token.
func (d Deps) actor(ctx context.Context, id policy.Identity, action policy.Action) (*models.User, policy.Identity, error) {
	if id.IsAnonymous() {
		return nil, id, denied(d.Policy.Authorize(id, action, policy.Resource{}))
	}
	u, err := d.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, id, notFound("User does not exist")
		}
		return nil, id, d.fail("load_actor", err, "user_id", id.UserID)
	}
	return u, policy.Identity{UserID: u.ID, Role: u.Role.Name}, nil
}

// fail logs an unexpected failure and wraps it for the caller.
func (d Deps) fail(op string, err error, attrs ...any) error {
	fields := append([]any{"event", "blog_" + op + "_failed", "error", err.Error()}, attrs...)
	d.Logger.Error("blog operation failed", fields...)
	return unexpected(err)
}
