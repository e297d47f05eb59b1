// Package response writes the JSON envelope shared by every endpoint:
// {"success": bool, "message": string, ...payload}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
)

const serverError = "Server Error"

// OK writes a success envelope with payload merged in.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes a failure envelope and aborts the chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind blog.Kind) int {
	switch kind {
	case blog.KindValidation,
		blog.KindAuthenticationRequired,
		blog.KindDenied,
		blog.KindNotFound,
		blog.KindConflict:
		return http.StatusBadRequest
	case blog.KindForbidden:
		return http.StatusForbidden
	case blog.KindCredentialRejected:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a failure envelope. Errors that are not *blog.Error
// are treated as unexpected.
func Error(c *gin.Context, err error) {
	e, ok := blog.AsError(err)
	if !ok {
		e = &blog.Error{Kind: blog.KindUnexpected, Message: serverError, Err: err}
	}

	status := StatusFor(e.Kind)
	if status != http.StatusInternalServerError {
		Fail(c, status, e.Message)
		return
	}

	_ = c.Error(err)
	body := gin.H{"success": false, "message": serverError}
	if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
