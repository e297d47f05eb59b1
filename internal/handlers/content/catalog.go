package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
)

type CatalogHandler struct {
	Catalog *blog.Catalog
}

func NewCatalogHandler(catalog *blog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

// GetCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]any
// @Router /getCategories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Categories fetched successfully", gin.H{"data": categories})
}

// GetRoles godoc
// @Summary List roles
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]any
// @Router /getRoles [get]
func (h *CatalogHandler) GetRoles(c *gin.Context) {
	roles, err := h.Catalog.Roles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Roles fetched successfully", gin.H{"data": roles})
}
