package blog

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/audit"
	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/stores"
)

const refreshTokenBytes = 32

type RegisterInput struct {
	Username string
	Email    string
	Password string
	RoleName string
}

type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

type LoginResult struct {
	Token        string
	RefreshToken string
	User         UserView
}

type TokenPair struct {
	Token        string
	RefreshToken string
}

type AccountManager struct {
	Deps
}

func NewAccountManager(d Deps) *AccountManager {
	return &AccountManager{Deps: d.withDefaults()}
}

// Register creates a user with the requested role and records the
// registration.
func (m *AccountManager) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)
	roleName := strings.ToLower(strings.TrimSpace(in.RoleName))

	if username == "" || email == "" || password == "" || roleName == "" {
		return nil, validation("All fields (username, email, password, role) are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validation("Invalid email address")
	}

	if d := m.Policy.Authorize(policy.Anonymous, policy.ActionRegister, policy.Resource{RoleName: roleName}); !d.Allowed {
		return nil, denied(d)
	}
	role, err := m.Catalog.FindRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, validation("Invalid role")
		}
		return nil, m.fail("register_find_role", err, "role", roleName)
	}

	hash, err := m.Hasher.Hash([]byte(password))
	if err != nil {
		return nil, m.fail("register_hash_password", err)
	}

	u := &models.User{
		Username:             username,
		Email:                email,
		PasswordHash:         string(hash),
		RoleID:               role.ID,
		ReceiveNotifications: true,
	}
	if err := m.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, stores.ErrConflict) {
			return nil, conflict("User with this email or username already exists", err)
		}
		return nil, m.fail("register_create_user", err, "username", username)
	}
	u.Role = *role

	m.Recorder.Record(models.AuditRegistration, u.ID, audit.RegistrationDescription(u.Username, u.Email))

	view := NewUserView(u)
	return &view, nil
}

// Login checks credentials and issues an access token and a refresh token.
func (m *AccountManager) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(in.UsernameOrEmail))
	password := strings.TrimSpace(in.Password)
	if identifier == "" || password == "" {
		return nil, validation("Username/email and password are required")
	}

	u, err := m.Users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, validation("Invalid username/email or password")
		}
		return nil, m.fail("login_find_user", err)
	}
	if err := m.Hasher.Compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, validation("Invalid username/email or password")
	}

	access, err := m.Tokens.GenerateAccessToken(u.ID, u.Role.Name, m.AccessTokenTTL)
	if err != nil {
		return nil, m.fail("login_sign_token", err, "user_id", u.ID)
	}
	raw, hash, err := m.Tokens.GenerateRandomRefreshToken(refreshTokenBytes)
	if err != nil {
		return nil, m.fail("login_refresh_token", err, "user_id", u.ID)
	}
	if err := m.RefreshTokens.CreateRefreshToken(ctx, &models.RefreshToken{
		TokenHash: hash,
		UserID:    u.ID,
		ExpiresAt: m.Now().Add(m.RefreshTokenTTL),
	}); err != nil {
		return nil, m.fail("login_store_refresh_token", err, "user_id", u.ID)
	}

	m.Recorder.Record(models.AuditLogin, u.ID, audit.LoginDescription(u.Username, u.Email))

	return &LoginResult{Token: access, RefreshToken: raw, User: NewUserView(u)}, nil
}

// Profile returns the caller's own account with role, favorites and history.
func (m *AccountManager) Profile(ctx context.Context, id policy.Identity) (*UserView, error) {
	if id.IsAnonymous() {
		return nil, denied(m.Policy.Authorize(id, policy.ActionViewProfile, policy.Resource{}))
	}
	u, err := m.Users.GetProfile(ctx, id.UserID)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		return nil, m.fail("profile_load", err, "user_id", id.UserID)
	}
	res := policy.Resource{Missing: u == nil}
	if u != nil {
		res.OwnerID = u.ID
	}
	if d := m.Policy.Authorize(id, policy.ActionViewProfile, res); !d.Allowed {
		return nil, denied(d)
	}

	view := NewUserView(u)
	return &view, nil
}

// ToggleNotifications flips the caller's notification preference and
// returns the new value.
func (m *AccountManager) ToggleNotifications(ctx context.Context, id policy.Identity) (bool, error) {
	if id.IsAnonymous() {
		return false, denied(m.Policy.Authorize(id, policy.ActionToggleNotifications, policy.Resource{}))
	}
	u, err := m.Users.GetByID(ctx, id.UserID)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		return false, m.fail("toggle_notifications_load", err, "user_id", id.UserID)
	}
	res := policy.Resource{Missing: u == nil}
	if u != nil {
		res.OwnerID = u.ID
	}
	if d := m.Policy.Authorize(id, policy.ActionToggleNotifications, res); !d.Allowed {
		return false, denied(d)
	}

	next := !u.ReceiveNotifications
	if err := m.Users.SetReceiveNotifications(ctx, u.ID, next); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return false, notFound("User not found")
		}
		return false, m.fail("toggle_notifications_save", err, "user_id", u.ID)
	}
	return next, nil
}

// ToggleFavorite adds the post to the caller's favorites, or removes it if
// already there. It returns whether the post is now a favorite.
func (m *AccountManager) ToggleFavorite(ctx context.Context, id policy.Identity, postID uint) (bool, error) {
	u, id, err := m.actor(ctx, id, policy.ActionToggleFavorite)
	if err != nil {
		return false, err
	}
	post, err := m.Posts.GetPost(ctx, postID)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		return false, m.fail("toggle_favorite_load_post", err, "post_id", postID)
	}
	if d := m.Policy.Authorize(id, policy.ActionToggleFavorite, policy.Resource{Missing: post == nil, OwnerID: u.ID}); !d.Allowed {
		return false, denied(d)
	}

	favorite, err := m.Users.IsFavorite(ctx, u.ID, post.ID)
	if err != nil {
		return false, m.fail("toggle_favorite_check", err, "user_id", u.ID, "post_id", post.ID)
	}
	if favorite {
		if err := m.Users.RemoveFavorite(ctx, u.ID, post.ID); err != nil {
			return false, m.fail("toggle_favorite_remove", err, "user_id", u.ID, "post_id", post.ID)
		}
		return false, nil
	}
	if err := m.Users.AddFavorite(ctx, u.ID, post.ID); err != nil {
		if errors.Is(err, stores.ErrConflict) {
			return false, conflict("Post is already in favorites", err)
		}
		return false, m.fail("toggle_favorite_add", err, "user_id", u.ID, "post_id", post.ID)
	}
	return true, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (m *AccountManager) Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error) {
	raw := strings.TrimSpace(rawRefreshToken)
	if raw == "" {
		return nil, validation("Refresh token is required")
	}

	res, err := m.RefreshTokens.Rotate(ctx, m.Tokens.HashRefreshToken(raw), m.Now(), m.RefreshTokenTTL)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidRefresh) {
			return nil, &Error{Kind: KindCredentialRejected, Message: "Invalid refresh token"}
		}
		return nil, m.fail("refresh_rotate", err)
	}

	access, err := m.Tokens.GenerateAccessToken(res.UserID, res.RoleName, m.AccessTokenTTL)
	if err != nil {
		return nil, m.fail("refresh_sign_token", err, "user_id", res.UserID)
	}
	return &TokenPair{Token: access, RefreshToken: res.NewRaw}, nil
}

// Logout revokes a refresh token. Unknown tokens are not an error.
func (m *AccountManager) Logout(ctx context.Context, rawRefreshToken string) error {
	raw := strings.TrimSpace(rawRefreshToken)
	if raw == "" {
		return validation("Refresh token is required")
	}
	if err := m.RefreshTokens.RevokeRefreshToken(ctx, m.Tokens.HashRefreshToken(raw)); err != nil {
		return m.fail("logout_revoke", err)
	}
	return nil
}
