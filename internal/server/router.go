// Package server assembles the gin engine.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/surafel-47/blog-mmcy/docs"
	auth "github.com/surafel-47/blog-mmcy/internal/handlers/auth"
	"github.com/surafel-47/blog-mmcy/internal/handlers/content"
	"github.com/surafel-47/blog-mmcy/internal/middleware"
)

type Handlers struct {
	Auth     *auth.AuthHandler
	Posts    *content.PostHandler
	Comments *content.CommentHandler
	Audit    *content.AuditHandler
	Catalog  *content.CatalogHandler
}

// NewRouter mounts every endpoint under /api. Routes that look at the
// caller go through the token middleware; a request without a token still
// passes as anonymous and the managers decide whether that is enough.
func NewRouter(h Handlers, verifier middleware.TokenVerifier) *gin.Engine {
	r := gin.Default()

	ping := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
	r.GET("/", ping)
	r.GET("/ping", ping)
	r.GET("/api-docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/api-docs/doc.json"),
	)))

	api := r.Group("/api")
	{
		api.POST("/registerUser", h.Auth.Register)
		api.POST("/registerViewerUser", h.Auth.RegisterViewer)
		api.POST("/registerEditorUser", h.Auth.RegisterEditor)
		api.POST("/login", h.Auth.Login)
		api.POST("/refresh", h.Auth.RefreshToken)
		api.POST("/logout", h.Auth.Logout)

		api.GET("/blogs", h.Posts.ListBlogs)
		api.GET("/getCategories", h.Catalog.GetCategories)
		api.GET("/getRoles", h.Catalog.GetRoles)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(verifier))
	{
		protected.GET("/getUserProfile", h.Auth.GetUserProfile)
		protected.POST("/toggleNotifications", h.Auth.ToggleNotifications)
		protected.POST("/toggleFavorite/:postId", h.Auth.ToggleFavorite)

		protected.POST("/createPost", h.Posts.CreatePost)
		protected.PATCH("/editPost/:postId", h.Posts.EditPost)
		protected.DELETE("/deletePost/:postId", h.Posts.DeletePost)
		protected.GET("/viewBlog/:postId", h.Posts.ViewBlog)

		protected.POST("/createComment/:postId", h.Comments.CreateComment)
		protected.PATCH("/editComment/:commentId", h.Comments.EditComment)
		protected.DELETE("/deleteComment/:commentId", h.Comments.DeleteComment)
		protected.GET("/getComments/:postId", h.Comments.GetComments)

		protected.GET("/getAuditLogs", h.Audit.GetAuditLogs)
	}
	return r
}
