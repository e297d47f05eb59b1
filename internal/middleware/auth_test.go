package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafel-47/blog-mmcy/internal/middleware"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/token"
)

func newRouter(svc *token.JWTService, seen *policy.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.JWTAuthMiddleware(svc))
	r.GET("/whoami", func(c *gin.Context) {
		*seen = middleware.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestMissingTokenIsAnonymous(t *testing.T) {
	var seen policy.Identity
	r := newRouter(&token.JWTService{Secret: []byte("s")}, &seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, seen.IsAnonymous())
}

func TestValidTokenAttachesIdentity(t *testing.T) {
	svc := &token.JWTService{Secret: []byte("s")}
	raw, err := svc.GenerateAccessToken(9, "editor", time.Hour)
	require.NoError(t, err)

	var seen policy.Identity
	r := newRouter(svc, &seen)

	for _, header := range []string{"Bearer " + raw, "bearer " + raw, raw} {
		seen = policy.Anonymous
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, policy.Identity{UserID: 9, Role: "editor"}, seen)
	}
}

func TestRejectedTokens(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	svc := &token.JWTService{Secret: []byte("s"), Now: func() time.Time { return issued }}
	expired, err := svc.GenerateAccessToken(9, "editor", time.Hour)
	require.NoError(t, err)
	svc.Now = nil

	cases := map[string]struct {
		header  string
		message string
	}{
		"expired":   {"Bearer " + expired, "Token has expired"},
		"malformed": {"Bearer abc.def", "Invalid token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var seen policy.Identity
			r := newRouter(svc, &seen)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", tc.header)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusGone, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestVerifyBareBearerIsAnonymous(t *testing.T) {
	identity, err := middleware.Verify(&token.JWTService{Secret: []byte("s")}, "Bearer ")
	require.NoError(t, err)
	assert.True(t, identity.IsAnonymous())
}
