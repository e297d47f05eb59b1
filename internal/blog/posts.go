package blog

import (
	"context"
	"errors"
	"strings"

	"github.com/surafel-47/blog-mmcy/internal/audit"
	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/stores"
)

type PostInput struct {
	Title      string
	Content    string
	CategoryID uint
}

type ListQuery struct {
	SortBy         string
	Search         string
	CategoryID     uint
	AuthorUsername string
}

type PostList struct {
	Blogs      []PostView
	Categories []models.Category
}

// PostDetail is a single post as seen by the caller.
type PostDetail struct {
	Post      PostView
	Favorited bool
	CanModify bool
}

type PostManager struct {
	Deps
}

func NewPostManager(d Deps) *PostManager {
	return &PostManager{Deps: d.withDefaults()}
}

func (m *PostManager) Create(ctx context.Context, id policy.Identity, in PostInput) (*PostView, error) {
	author, id, err := m.actor(ctx, id, policy.ActionCreatePost)
	if err != nil {
		return nil, err
	}
	if d := m.Policy.Authorize(id, policy.ActionCreatePost, policy.Resource{}); !d.Allowed {
		return nil, denied(d)
	}

	title, content, category, err := m.normalize(ctx, in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      title,
		Content:    content,
		CategoryID: category.ID,
		AuthorID:   author.ID,
	}
	if err := m.Posts.CreatePost(ctx, post); err != nil {
		return nil, m.fail("create_post", err, "author_id", author.ID)
	}
	post.Category = *category
	post.Author = *author

	m.Recorder.Record(models.AuditPostCreated, author.ID, audit.PostCreatedDescription(author.Username, post.Title))

	view := NewPostView(post)
	return &view, nil
}

func (m *PostManager) Edit(ctx context.Context, id policy.Identity, postID uint, in PostInput) (*PostView, error) {
	editor, id, err := m.actor(ctx, id, policy.ActionEditPost)
	if err != nil {
		return nil, err
	}
	post, err := m.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if d := m.Policy.Authorize(id, policy.ActionEditPost, postResource(post)); !d.Allowed {
		return nil, denied(d)
	}

	title, content, category, err := m.normalize(ctx, in)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.CategoryID = category.ID
	post.Category = *category
	post.UpdatedAt = m.Now()
	if err := m.Posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("Post not found")
		}
		return nil, m.fail("edit_post", err, "post_id", post.ID)
	}

	m.Recorder.Record(models.AuditPostEdited, editor.ID, audit.PostEditedDescription(editor.Username, post.Title))

	view := NewPostView(post)
	return &view, nil
}

// Delete removes the post together with all of its comments.
func (m *PostManager) Delete(ctx context.Context, id policy.Identity, postID uint) error {
	owner, id, err := m.actor(ctx, id, policy.ActionDeletePost)
	if err != nil {
		return err
	}
	post, err := m.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if d := m.Policy.Authorize(id, policy.ActionDeletePost, postResource(post)); !d.Allowed {
		return denied(d)
	}

	if err := m.Posts.DeletePostWithComments(ctx, post.ID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return notFound("Post not found")
		}
		return m.fail("delete_post", err, "post_id", post.ID)
	}

	m.Recorder.Record(models.AuditPostDeleted, owner.ID, audit.PostDeletedDescription(owner.Username, post.Title))
	return nil
}

// List is public. Unknown sort keys fall back to newest first.
func (m *PostManager) List(ctx context.Context, q ListQuery) (*PostList, error) {
	posts, err := m.Posts.ListPosts(ctx, stores.PostFilter{
		SortBy:         q.SortBy,
		TitleContains:  q.Search,
		CategoryID:     q.CategoryID,
		AuthorUsername: q.AuthorUsername,
	})
	if err != nil {
		return nil, m.fail("list_posts", err)
	}
	categories, err := m.Catalog.ListCategories(ctx)
	if err != nil {
		return nil, m.fail("list_posts_categories", err)
	}

	out := &PostList{Blogs: make([]PostView, 0, len(posts)), Categories: categories}
	for i := range posts {
		out.Blogs = append(out.Blogs, NewPostView(&posts[i]))
	}
	return out, nil
}

// View counts a view on every call. For a signed-in caller it also reports
// favorite and ownership state and adds the post to their history once.
func (m *PostManager) View(ctx context.Context, id policy.Identity, postID uint) (*PostDetail, error) {
	post, err := m.Posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("Blog post not found")
		}
		return nil, m.fail("view_post_load", err, "post_id", postID)
	}
	if err := m.Posts.IncrementViewCount(ctx, post.ID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("Blog post not found")
		}
		return nil, m.fail("view_post_count", err, "post_id", post.ID)
	}
	post.ViewCount++

	detail := &PostDetail{Post: NewPostView(post)}
	if id.IsAnonymous() {
		return detail, nil
	}

	viewer, err := m.Users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, m.fail("view_post_load_viewer", err, "user_id", id.UserID)
	}
	favorited, err := m.Users.IsFavorite(ctx, viewer.ID, post.ID)
	if err != nil {
		return nil, m.fail("view_post_favorite", err, "user_id", viewer.ID, "post_id", post.ID)
	}
	if err := m.Users.AddHistory(ctx, viewer.ID, post.ID); err != nil {
		return nil, m.fail("view_post_history", err, "user_id", viewer.ID, "post_id", post.ID)
	}

	detail.Favorited = favorited
	detail.CanModify = post.AuthorID == viewer.ID
	return detail, nil
}

// loadPost returns nil without error when the post does not exist, so the
// policy can report the miss.
func (m *PostManager) loadPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := m.Posts.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, nil
		}
		return nil, m.fail("load_post", err, "post_id", postID)
	}
	return post, nil
}

func postResource(post *models.Post) policy.Resource {
	if post == nil {
		return policy.Resource{Missing: true}
	}
	return policy.Resource{OwnerID: post.AuthorID}
}

// normalize trims and checks the fields, resolves the category and
// sanitizes the content.
func (m *PostManager) normalize(ctx context.Context, in PostInput) (string, string, *models.Category, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" || in.CategoryID == 0 {
		return "", "", nil, validation("Title, content, and category ID are required")
	}

	category, err := m.Catalog.GetCategory(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return "", "", nil, notFound("Category not found")
		}
		return "", "", nil, m.fail("load_category", err, "category_id", in.CategoryID)
	}

	content = strings.TrimSpace(m.Sanitizer.Post(content))
	if content == "" {
		return "", "", nil, validation("Title, content, and category ID are required")
	}
	return title, content, category, nil
}
