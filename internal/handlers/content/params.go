// Package content serves posts, comments, audit logs and the lookup lists.
package content

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
)

// pathID parses a positive numeric path parameter. On failure it writes a
// 400 and returns false.
func pathID(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}
