package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/handlers/response"
	"github.com/surafel-47/blog-mmcy/internal/middleware"
	"github.com/surafel-47/blog-mmcy/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	RoleName string `json:"roleName"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password"        binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthHandler struct {
	Accounts *blog.AccountManager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(accounts *blog.AccountManager) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// Register godoc
// @Summary Register a user
// @Description Creates an account with the role named in the body.
// @Tags account
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New account"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /registerUser [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.register(c, "")
}

// RegisterViewer godoc
// @Summary Register a viewer
// @Tags account
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New account"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /registerViewerUser [post]
func (h *AuthHandler) RegisterViewer(c *gin.Context) {
	h.register(c, models.RoleViewer)
}

// RegisterEditor godoc
// @Summary Register an editor
// @Tags account
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New account"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /registerEditorUser [post]
func (h *AuthHandler) RegisterEditor(c *gin.Context) {
	h.register(c, models.RoleEditor)
}

// register binds the request; a non-empty fixedRole overrides roleName.
func (h *AuthHandler) register(c *gin.Context, fixedRole string) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "All fields (username, email, password, role) are required")
		return
	}
	if fixedRole != "" {
		req.RoleName = fixedRole
	}

	user, err := h.Accounts.Register(c.Request.Context(), blog.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleName: req.RoleName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "User registered successfully", gin.H{"user": user})
}

// Login godoc
// @Summary Log in
// @Description Accepts a username or an email. Returns an access token and a refresh token.
// @Tags account
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Username/email and password are required")
		return
	}

	res, err := h.Accounts.Login(c.Request.Context(), blog.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Login successful", gin.H{
		"token":         res.Token,
		"refresh_token": res.RefreshToken,
		"user":          res.User,
	})
}

// RefreshToken godoc
// @Summary Rotate a refresh token
// @Tags account
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} map[string]any
// @Failure 410 {object} map[string]any
// @Router /refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.Accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Token refreshed", gin.H{
		"token":         pair.Token,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags account
// @Accept json
// @Produce json
// @Param body body LogoutRequest true "Refresh token"
// @Success 200 {object} map[string]any
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Refresh token is required")
		return
	}

	if err := h.Accounts.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Logout successful", nil)
}

// GetUserProfile godoc
// @Summary Current user's profile
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /getUserProfile [get]
func (h *AuthHandler) GetUserProfile(c *gin.Context) {
	user, err := h.Accounts.Profile(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "User profile fetched successfully", gin.H{"user": user})
}

// ToggleNotifications godoc
// @Summary Flip the notification preference
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /toggleNotifications [post]
func (h *AuthHandler) ToggleNotifications(c *gin.Context) {
	receive, err := h.Accounts.ToggleNotifications(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Notification preferences updated successfully", gin.H{
		"receiveNotifications": receive,
	})
}

// ToggleFavorite godoc
// @Summary Add or remove a post from favorites
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /toggleFavorite/{postId} [post]
func (h *AuthHandler) ToggleFavorite(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 64)
	if err != nil || postID == 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid post id")
		return
	}

	favorited, err := h.Accounts.ToggleFavorite(c.Request.Context(), middleware.IdentityFrom(c), uint(postID))
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Post removed from favorites"
	if favorited {
		message = "Post added to favorites"
	}
	response.OK(c, http.StatusOK, message, gin.H{"favorited": favorited})
}
