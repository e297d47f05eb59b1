package content

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
	"github.com/surafel-47/blog-mmcy/internal/middleware"
)

const postFieldsRequired = "Title, content, and category ID are required"

type PostRequest struct {
	Title      string `json:"title"      binding:"required"`
	Content    string `json:"content"    binding:"required"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

type PostHandler struct {
	Posts *blog.PostManager
}

func NewPostHandler(posts *blog.PostManager) *PostHandler {
	return &PostHandler{Posts: posts}
}

// CreatePost godoc
// @Summary Create a post
// @Description Editors only. Content is sanitized before it is stored.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PostRequest true "Post"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /createPost [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, postFieldsRequired)
		return
	}

	post, err := h.Posts.Create(c.Request.Context(), middleware.IdentityFrom(c), blog.PostInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Post created successfully", gin.H{"post": post})
}

// EditPost godoc
// @Summary Edit a post
// @Description Only the post's author may edit it.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post id"
// @Param body body PostRequest true "Post"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /editPost/{postId} [patch]
func (h *PostHandler) EditPost(c *gin.Context) {
	postID, ok := pathID(c, "postId", "Invalid post id")
	if !ok {
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, postFieldsRequired)
		return
	}

	post, err := h.Posts.Edit(c.Request.Context(), middleware.IdentityFrom(c), postID, blog.PostInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Post updated successfully", gin.H{"post": post})
}

// DeletePost godoc
// @Summary Delete a post and its comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /deletePost/{postId} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "postId", "Invalid post id")
	if !ok {
		return
	}

	if err := h.Posts.Delete(c.Request.Context(), middleware.IdentityFrom(c), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Post deleted successfully", nil)
}

// ListBlogs godoc
// @Summary List posts
// @Tags posts
// @Produce json
// @Param sortBy query string false "createdAt (default), viewCount or category"
// @Param search query string false "Case-insensitive title substring"
// @Param categoryId query int false "Category filter"
// @Param authorUserName query string false "Author username"
// @Success 200 {object} map[string]any
// @Router /blogs [get]
func (h *PostHandler) ListBlogs(c *gin.Context) {
	q := blog.ListQuery{
		SortBy:         c.Query("sortBy"),
		Search:         c.Query("search"),
		AuthorUsername: c.Query("authorUserName"),
	}
	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid category id")
			return
		}
		q.CategoryID = uint(id)
	}

	list, err := h.Posts.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Blogs fetched successfully", gin.H{
		"blogs":      list.Blogs,
		"categories": list.Categories,
	})
}

// ViewBlog godoc
// @Summary View a post
// @Description Counts a view. Signed-in callers also get favorite and ownership flags.
// @Tags posts
// @Produce json
// @Param postId path int true "Post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /viewBlog/{postId} [get]
func (h *PostHandler) ViewBlog(c *gin.Context) {
	postID, ok := pathID(c, "postId", "Invalid post id")
	if !ok {
		return
	}

	detail, err := h.Posts.View(c.Request.Context(), middleware.IdentityFrom(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Blog fetched successfully", gin.H{
		"post":      detail.Post,
		"favorited": detail.Favorited,
		"canModify": detail.CanModify,
	})
}
