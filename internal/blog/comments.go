package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/stores"
)

// MaxCommentLength is measured in characters after trimming.
const MaxCommentLength = 100

type CommentList struct {
	Comments    []CommentView
	YourComment *CommentView
}

type CommentManager struct {
	Deps
}

func NewCommentManager(d Deps) *CommentManager {
	return &CommentManager{Deps: d.withDefaults()}
}

func (m *CommentManager) Create(ctx context.Context, id policy.Identity, postID uint, content string) (*CommentView, error) {
	author, id, err := m.actor(ctx, id, policy.ActionCreateComment)
	if err != nil {
		return nil, err
	}
	post, err := m.Posts.GetPost(ctx, postID)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		return nil, m.fail("create_comment_load_post", err, "post_id", postID)
	}
	res := policy.Resource{Missing: post == nil}
	if post != nil {
		res.OwnerID = post.AuthorID
	}
	if d := m.Policy.Authorize(id, policy.ActionCreateComment, res); !d.Allowed {
		return nil, denied(d)
	}

	body, err := m.normalize(content, "Content is required to leave a comment")
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: body,
		PostID:  post.ID,
		UserID:  author.ID,
	}
	if err := m.Comments.CreateComment(ctx, comment); err != nil {
		return nil, m.fail("create_comment", err, "post_id", post.ID, "user_id", author.ID)
	}
	comment.User = *author

	view := NewCommentView(comment)
	return &view, nil
}

// Edit is allowed to the comment's author and to the author of its post.
func (m *CommentManager) Edit(ctx context.Context, id policy.Identity, commentID uint, content string) (*CommentView, error) {
	_, id, err := m.actor(ctx, id, policy.ActionEditComment)
	if err != nil {
		return nil, err
	}
	comment, err := m.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if d := m.Policy.Authorize(id, policy.ActionEditComment, commentResource(comment)); !d.Allowed {
		return nil, denied(d)
	}

	body, err := m.normalize(content, "Content is required")
	if err != nil {
		return nil, err
	}

	comment.Content = body
	comment.UpdatedAt = m.Now()
	if err := m.Comments.UpdateCommentContent(ctx, comment); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("Comment not found")
		}
		return nil, m.fail("edit_comment", err, "comment_id", comment.ID)
	}

	view := NewCommentView(comment)
	return &view, nil
}

// Delete is allowed to the comment's author and to the author of its post.
func (m *CommentManager) Delete(ctx context.Context, id policy.Identity, commentID uint) error {
	_, id, err := m.actor(ctx, id, policy.ActionDeleteComment)
	if err != nil {
		return err
	}
	comment, err := m.loadComment(ctx, commentID)
	if err != nil {
		return err
	}
	if d := m.Policy.Authorize(id, policy.ActionDeleteComment, commentResource(comment)); !d.Allowed {
		return denied(d)
	}

	if err := m.Comments.DeleteComment(ctx, comment.ID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return notFound("Comment not found")
		}
		return m.fail("delete_comment", err, "comment_id", comment.ID)
	}
	return nil
}

// ListForPost returns comments newest first. A signed-in caller's newest
// comment is lifted out into YourComment.
func (m *CommentManager) ListForPost(ctx context.Context, id policy.Identity, postID uint) (*CommentList, error) {
	if _, err := m.Posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("Post not found")
		}
		return nil, m.fail("list_comments_load_post", err, "post_id", postID)
	}

	comments, err := m.Comments.ListComments(ctx, postID)
	if err != nil {
		return nil, m.fail("list_comments", err, "post_id", postID)
	}

	out := &CommentList{Comments: make([]CommentView, 0, len(comments))}
	for i := range comments {
		view := NewCommentView(&comments[i])
		if out.YourComment == nil && !id.IsAnonymous() && comments[i].UserID == id.UserID {
			out.YourComment = &view
			continue
		}
		out.Comments = append(out.Comments, view)
	}
	return out, nil
}

func (m *CommentManager) loadComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := m.Comments.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, nil
		}
		return nil, m.fail("load_comment", err, "comment_id", commentID)
	}
	return comment, nil
}

func commentResource(c *models.Comment) policy.Resource {
	if c == nil {
		return policy.Resource{Missing: true}
	}
	return policy.Resource{OwnerID: c.UserID, ParentOwnerID: c.Post.AuthorID}
}

// normalize trims, truncates to MaxCommentLength characters and sanitizes.
func (m *CommentManager) normalize(content, requiredMessage string) (string, error) {
	body := strings.TrimSpace(content)
	if runes := []rune(body); len(runes) > MaxCommentLength {
		body = string(runes[:MaxCommentLength])
	}
	if body == "" {
		return "", validation(requiredMessage)
	}
	body = strings.TrimSpace(m.Sanitizer.Comment(body))
	if body == "" {
		return "", validation(requiredMessage)
	}
	return body, nil
}
