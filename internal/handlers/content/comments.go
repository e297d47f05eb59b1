package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
	"github.com/surafel-47/blog-mmcy/internal/middleware"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentHandler struct {
	Comments *blog.CommentManager
}

func NewCommentHandler(comments *blog.CommentManager) *CommentHandler {
	return &CommentHandler{Comments: comments}
}

// CreateComment godoc
// @Summary Comment on a post
// @Description Content is trimmed to 100 characters and sanitized.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post id"
// @Param body body CommentRequest true "Comment"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /createComment/{postId} [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "postId", "Invalid post id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Content is required to leave a comment")
		return
	}

	comment, err := h.Comments.Create(c.Request.Context(), middleware.IdentityFrom(c), postID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Comment added successfully", gin.H{"comment": comment})
}

// EditComment godoc
// @Summary Edit a comment
// @Description Allowed to the comment's author and the post's author.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment id"
// @Param body body CommentRequest true "Comment"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /editComment/{commentId} [patch]
func (h *CommentHandler) EditComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "Invalid comment id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Content is required")
		return
	}

	comment, err := h.Comments.Edit(c.Request.Context(), middleware.IdentityFrom(c), commentID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Comment edited successfully", gin.H{"comment": comment})
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /deleteComment/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "Invalid comment id")
	if !ok {
		return
	}

	if err := h.Comments.Delete(c.Request.Context(), middleware.IdentityFrom(c), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Comment deleted successfully", nil)
}

// GetComments godoc
// @Summary List a post's comments
// @Description Newest first. A signed-in caller's newest comment is returned as your_comment.
// @Tags comments
// @Produce json
// @Param postId path int true "Post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /getComments/{postId} [get]
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, ok := pathID(c, "postId", "Invalid post id")
	if !ok {
		return
	}

	list, err := h.Comments.ListForPost(c.Request.Context(), middleware.IdentityFrom(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Comments fetched successfully", gin.H{
		"comments":     list.Comments,
		"your_comment": list.YourComment,
	})
}
