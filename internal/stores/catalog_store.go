package stores

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/models"

	"gorm.io/gorm"
)

// CatalogStore serves the fixed lookup tables: roles and categories.
type CatalogStore interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	// FindRoleByName matches case-insensitively.
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
}

type GormCatalogStore struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewGormCatalogStore(db *gorm.DB, logger *slog.Logger) *GormCatalogStore {
	return &GormCatalogStore{DB: db, Logger: resolveLogger(logger)}
}

func (s *GormCatalogStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, logError(s.Logger, "catalog_store_list_roles_failed", err)
	}
	return roles, nil
}

func (s *GormCatalogStore) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var role models.Role
	if err := s.DB.WithContext(ctx).Where("LOWER(name) = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "catalog_store_find_role_failed", err, "role", name)
	}
	return &role, nil
}

func (s *GormCatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, logError(s.Logger, "catalog_store_list_categories_failed", err)
	}
	return categories, nil
}

func (s *GormCatalogStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logError(s.Logger, "catalog_store_get_category_failed", err, "category_id", id)
	}
	return &c, nil
}

var _ CatalogStore = (*GormCatalogStore)(nil)
