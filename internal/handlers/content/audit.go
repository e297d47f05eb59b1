package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
	"github.com/surafel-47/blog-mmcy/internal/middleware"
)

type AuditHandler struct {
	Logs *blog.AuditLogReader
}

func NewAuditHandler(logs *blog.AuditLogReader) *AuditHandler {
	return &AuditHandler{Logs: logs}
}

// GetAuditLogs godoc
// @Summary List audit logs
// @Description Editors only. Newest first.
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param action query string false "Case-insensitive action substring"
// @Param date query string false "UTC day, YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /getAuditLogs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.Logs.List(c.Request.Context(), middleware.IdentityFrom(c), blog.AuditQuery{
		Action: c.Query("action"),
		Date:   c.Query("date"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Audit logs fetched successfully", gin.H{"auditLogs": logs})
}
