package blog

import (
	"context"

	"github.com/surafel-47/blog-mmcy/internal/models"
)

// Catalog serves the public lookup lists.
type Catalog struct {
	Deps
}

func NewCatalog(d Deps) *Catalog {
	return &Catalog{Deps: d.withDefaults()}
}

func (m *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := m.Deps.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, m.fail("list_categories", err)
	}
	return categories, nil
}

func (m *Catalog) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := m.Deps.Catalog.ListRoles(ctx)
	if err != nil {
		return nil, m.fail("list_roles", err)
	}
	return roles, nil
}
