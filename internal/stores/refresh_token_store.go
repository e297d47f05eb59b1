package stores

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/token"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RotateResult struct {
	UserID   uint
	RoleName string
	NewRaw   string
}

type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error
	Rotate(ctx context.Context, hash []byte, now time.Time, ttl time.Duration) (RotateResult, error)
	RevokeRefreshToken(ctx context.Context, tokenHash []byte) error
}

// GormRefreshTokenStore implements RefreshTokenStore using GORM.
type GormRefreshTokenStore struct {
	DB           *gorm.DB
	TokenService token.TokenService
	Logger       *slog.Logger
}

func NewGormRefreshTokenStore(db *gorm.DB, tokenService token.TokenService, logger *slog.Logger) *GormRefreshTokenStore {
	return &GormRefreshTokenStore{DB: db, TokenService: tokenService, Logger: resolveLogger(logger)}
}

func (s *GormRefreshTokenStore) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	if err := s.DB.WithContext(ctx).Create(rt).Error; err != nil {
		return logError(s.Logger, "refresh_token_store_create_failed", err, "user_id", rt.UserID)
	}
	return nil
}

func (s *GormRefreshTokenStore) Rotate(
	ctx context.Context,
	hash []byte,
	now time.Time,
	ttl time.Duration,
) (RotateResult, error) {
	var out RotateResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt models.RefreshToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("User.Role").
			Where("token_hash = ? AND expires_at > ? AND revoked = ?", hash, now, false).
			First(&rt).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		// Set existing token is revoked
		if err := tx.Model(&rt).Update("revoked", true).Error; err != nil {
			return err
		}

		raw, newHash, err := s.TokenService.GenerateRandomRefreshToken(32)
		if err != nil {
			return err
		}

		newRT := models.RefreshToken{
			TokenHash: newHash,
			UserID:    rt.UserID,
			ExpiresAt: now.Add(ttl),
		}
		if err := tx.Create(&newRT).Error; err != nil {
			return err
		}

		out = RotateResult{
			UserID:   rt.User.ID,
			RoleName: rt.User.Role.Name,
			NewRaw:   raw,
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrInvalidRefresh) {
		return RotateResult{}, logError(s.Logger, "refresh_token_store_rotate_failed", err)
	}
	return out, err
}

func (s *GormRefreshTokenStore) RevokeRefreshToken(ctx context.Context, tokenHash []byte) error {
	if err := s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error; err != nil {
		return logError(s.Logger, "refresh_token_store_revoke_failed", err)
	}
	return nil
}

var _ RefreshTokenStore = (*GormRefreshTokenStore)(nil)
