package stores

import (
	"context"
	"errors"
	"log/slog"

	"github.com/surafel-47/blog-mmcy/internal/models"

	"gorm.io/gorm"
)

type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	// GetComment loads the comment with its parent post and author.
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	UpdateCommentContent(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	// ListComments returns the post's comments newest first with authors loaded.
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	CountComments(ctx context.Context, postID uint) (int64, error)
}

type GormCommentStore struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewGormCommentStore(db *gorm.DB, logger *slog.Logger) *GormCommentStore {
	return &GormCommentStore{DB: db, Logger: resolveLogger(logger)}
}

func (s *GormCommentStore) CreateComment(ctx context.Context, c *models.Comment) error {
	if err := s.DB.WithContext(ctx).Omit("Post", "User").Create(c).Error; err != nil {
		return logError(s.Logger, "comment_store_create_failed", err, "post_id", c.PostID, "user_id", c.UserID)
	}
	return nil
}

func (s *GormCommentStore) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.DB.WithContext(ctx).Preload("Post").Preload("User").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "comment_store_get_failed", err, "comment_id", id)
	}
	return &c, nil
}

func (s *GormCommentStore) UpdateCommentContent(ctx context.Context, c *models.Comment) error {
	res := s.DB.WithContext(ctx).Model(&models.Comment{ID: c.ID}).
		Select("content", "updated_at").
		Updates(c)
	if res.Error != nil {
		return logError(s.Logger, "comment_store_update_failed", res.Error, "comment_id", c.ID)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormCommentStore) DeleteComment(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return logError(s.Logger, "comment_store_delete_failed", res.Error, "comment_id", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormCommentStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.DB.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, logError(s.Logger, "comment_store_list_failed", err, "post_id", postID)
	}
	return comments, nil
}

func (s *GormCommentStore) CountComments(ctx context.Context, postID uint) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&n).Error; err != nil {
		return 0, logError(s.Logger, "comment_store_count_failed", err, "post_id", postID)
	}
	return n, nil
}

var _ CommentStore = (*GormCommentStore)(nil)
