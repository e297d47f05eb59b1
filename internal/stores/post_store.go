package stores

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/models"

	"gorm.io/gorm"
)

// Sort orders accepted by PostStore.List.
const (
	SortByCreatedAt = "createdAt"
	SortByViewCount = "viewCount"
	SortByCategory  = "category"
)

// PostFilter narrows PostStore.List. Zero values mean no filter.
type PostFilter struct {
	SortBy         string
	TitleContains  string
	CategoryID     uint
	AuthorUsername string
}

type PostStore interface {
	CreatePost(ctx context.Context, p *models.Post) error
	// GetPost loads the post with its author and category.
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, p *models.Post) error
	// DeletePostWithComments removes the post, every comment on it and any
	// favorite or history row pointing at it, in one transaction.
	DeletePostWithComments(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
}

type GormPostStore struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewGormPostStore(db *gorm.DB, logger *slog.Logger) *GormPostStore {
	return &GormPostStore{DB: db, Logger: resolveLogger(logger)}
}

func (s *GormPostStore) CreatePost(ctx context.Context, p *models.Post) error {
	if err := s.DB.WithContext(ctx).Omit("Author", "Category").Create(p).Error; err != nil {
		return logError(s.Logger, "post_store_create_failed", err, "author_id", p.AuthorID)
	}
	return nil
}

func (s *GormPostStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	if err := s.DB.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "post_store_get_failed", err, "post_id", id)
	}
	return &p, nil
}

func (s *GormPostStore) UpdatePost(ctx context.Context, p *models.Post) error {
	res := s.DB.WithContext(ctx).Model(&models.Post{ID: p.ID}).
		Select("title", "content", "category_id", "updated_at").
		Updates(p)
	if res.Error != nil {
		return logError(s.Logger, "post_store_update_failed", res.Error, "post_id", p.ID)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormPostStore) DeletePostWithComments(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&models.Comment{}, &models.Favorite{}, &models.HistoryEntry{}} {
			if err := tx.Where("post_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return logError(s.Logger, "post_store_delete_failed", err, "post_id", id)
	}
	return err
}

func (s *GormPostStore) IncrementViewCount(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return logError(s.Logger, "post_store_increment_views_failed", res.Error, "post_id", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormPostStore) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	tx := s.DB.WithContext(ctx).Model(&models.Post{}).
		Preload("Author").
		Preload("Category")

	if search := strings.TrimSpace(filter.TitleContains); search != "" {
		tx = tx.Where("LOWER(posts.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.CategoryID != 0 {
		tx = tx.Where("posts.category_id = ?", filter.CategoryID)
	}
	if author := strings.TrimSpace(filter.AuthorUsername); author != "" {
		tx = tx.Joins("JOIN users ON users.id = posts.author_id").
			Where("LOWER(users.username) = ?", strings.ToLower(author))
	}

	switch filter.SortBy {
	case SortByViewCount:
		tx = tx.Order("posts.view_count DESC")
	case SortByCategory:
		tx = tx.Order("posts.category_id ASC")
	default:
		tx = tx.Order("posts.created_at DESC")
	}
	tx = tx.Order("posts.id DESC")

	var posts []models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, logError(s.Logger, "post_store_list_failed", err, "sort_by", filter.SortBy)
	}
	return posts, nil
}

var _ PostStore = (*GormPostStore)(nil)
