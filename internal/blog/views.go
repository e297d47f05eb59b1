package blog

import (
	"time"

	"github.com/surafel-47/blog-mmcy/internal/models"
)

type RoleView struct {
	ID       uint   `json:"id"`
	RoleName string `json:"roleName"`
}

// UserView is the account as shown to its owner. It never carries the
// password hash.
type UserView struct {
	ID                   uint      `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	Role                 RoleView  `json:"role"`
	ReceiveNotifications bool      `json:"receiveNotifications"`
	Favorites            []uint    `json:"favorites"`
	History              []uint    `json:"history"`
	CreatedAt            time.Time `json:"createdAt"`
}

func NewUserView(u *models.User) UserView {
	v := UserView{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Role:                 RoleView{ID: u.Role.ID, RoleName: u.Role.Name},
		ReceiveNotifications: u.ReceiveNotifications,
		Favorites:            make([]uint, 0, len(u.Favorites)),
		History:              make([]uint, 0, len(u.History)),
		CreatedAt:            u.CreatedAt,
	}
	for _, f := range u.Favorites {
		v.Favorites = append(v.Favorites, f.PostID)
	}
	for _, h := range u.History {
		v.History = append(v.History, h.PostID)
	}
	return v
}

// AuthorView is the public face of a user on posts and audit entries.
type AuthorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type PostView struct {
	ID         uint            `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	ViewCount  int64           `json:"viewCount"`
	CategoryID uint            `json:"categoryId"`
	Category   models.Category `json:"category"`
	Author     AuthorView      `json:"author"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func NewPostView(p *models.Post) PostView {
	return PostView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ViewCount:  p.ViewCount,
		CategoryID: p.CategoryID,
		Category:   p.Category,
		Author:     AuthorView{ID: p.AuthorID, Username: p.Author.Username, Email: p.Author.Email},
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type CommentView struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	PostID    uint       `json:"postId"`
	User      AuthorView `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewCommentView exposes only the commenter's username.
func NewCommentView(c *models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		User:      AuthorView{ID: c.UserID, Username: c.User.Username},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type AuditLogView struct {
	ID          uint       `json:"id"`
	EventID     string     `json:"eventId"`
	Action      string     `json:"action"`
	Description string     `json:"desc"`
	User        AuthorView `json:"user"`
	Timestamp   time.Time  `json:"timestamp"`
}

func NewAuditLogView(e *models.AuditLog) AuditLogView {
	return AuditLogView{
		ID:          e.ID,
		EventID:     e.EventID,
		Action:      string(e.Action),
		Description: e.Description,
		User:        AuthorView{ID: e.UserID, Username: e.User.Username, Email: e.User.Email},
		Timestamp:   e.Timestamp,
	}
}
