package stores

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore abstracts user persistence.
type UserStore interface {
	// FindByUsernameOrEmail returns a user if it exists, or ErrNotFound.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	// CreateUser persists a new user. A taken username or email yields ErrConflict.
	CreateUser(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetProfile is GetByID with favorites and history loaded.
	GetProfile(ctx context.Context, id uint) (*models.User, error)
	SetReceiveNotifications(ctx context.Context, id uint, receive bool) error

	IsFavorite(ctx context.Context, userID, postID uint) (bool, error)
	AddFavorite(ctx context.Context, userID, postID uint) error
	RemoveFavorite(ctx context.Context, userID, postID uint) error
	// AddHistory appends postID to the user's history unless already present.
	AddHistory(ctx context.Context, userID, postID uint) error
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewGormUserStore(db *gorm.DB, logger *slog.Logger) *GormUserStore {
	return &GormUserStore{DB: db, Logger: resolveLogger(logger)}
}

func (s *GormUserStore) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	var u models.User
	if err := s.DB.WithContext(ctx).Preload("Role").
		Where("username = ? OR email = ?", identifier, identifier).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "user_store_find_failed", err, "identifier", identifier)
	}
	return &u, nil
}

func (s *GormUserStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return logError(s.Logger, "user_store_create_failed", err, "username", u.Username)
	}
	return nil
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Preload("Role").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "user_store_get_failed", err, "user_id", id)
	}
	return &u, nil
}

func (s *GormUserStore) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).
		Preload("Role").
		Preload("Favorites", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "user_store_get_profile_failed", err, "user_id", id)
	}
	return &u, nil
}

func (s *GormUserStore) SetReceiveNotifications(ctx context.Context, id uint, receive bool) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("receive_notifications", receive)
	if res.Error != nil {
		return logError(s.Logger, "user_store_set_notifications_failed", res.Error, "user_id", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormUserStore) IsFavorite(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, logError(s.Logger, "user_store_is_favorite_failed", err, "user_id", userID, "post_id", postID)
	}
	return count > 0, nil
}

func (s *GormUserStore) AddFavorite(ctx context.Context, userID, postID uint) error {
	fav := models.Favorite{UserID: userID, PostID: postID}
	if err := s.DB.WithContext(ctx).Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return logError(s.Logger, "user_store_add_favorite_failed", err, "user_id", userID, "post_id", postID)
	}
	return nil
}

func (s *GormUserStore) RemoveFavorite(ctx context.Context, userID, postID uint) error {
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Favorite{}).Error; err != nil {
		return logError(s.Logger, "user_store_remove_favorite_failed", err, "user_id", userID, "post_id", postID)
	}
	return nil
}

func (s *GormUserStore) AddHistory(ctx context.Context, userID, postID uint) error {
	entry := models.HistoryEntry{UserID: userID, PostID: postID}
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error; err != nil {
		return logError(s.Logger, "user_store_add_history_failed", err, "user_id", userID, "post_id", postID)
	}
	return nil
}

var _ UserStore = (*GormUserStore)(nil)
