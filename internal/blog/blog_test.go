package blog_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/surafel-47/blog-mmcy/database"
	"github.com/surafel-47/blog-mmcy/internal/audit"
	"github.com/surafel-47/blog-mmcy/internal/blog"
	"github.com/surafel-47/blog-mmcy/internal/models"
	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/stores"
	"github.com/surafel-47/blog-mmcy/internal/token"
	"github.com/surafel-47/blog-mmcy/internal/user"
)

type env struct {
	db       *gorm.DB
	tokens   *token.JWTService
	recorder *audit.Recorder
	accounts *blog.AccountManager
	posts    *blog.PostManager
	comments *blog.CommentManager
	audit    *blog.AuditLogReader
	catalog  *blog.Catalog
	store    struct {
		users    *stores.GormUserStore
		comments *stores.GormCommentStore
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.ConnectDB(database.DriverSQLite, filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	require.NoError(t, database.ProcessMigrations(db))
	require.NoError(t, database.SeedDefaults(context.Background(), db))

	e := &env{db: db, tokens: &token.JWTService{Secret: []byte("test-secret")}}
	auditStore := stores.NewGormAuditStore(db, nil)
	e.recorder = audit.NewRecorder(auditStore, nil)
	e.store.users = stores.NewGormUserStore(db, nil)
	e.store.comments = stores.NewGormCommentStore(db, nil)
	t.Cleanup(func() {
		e.recorder.Wait()
		_ = database.Close(db)
	})

	deps := blog.Deps{
		Users:         e.store.users,
		RefreshTokens: stores.NewGormRefreshTokenStore(db, e.tokens, nil),
		Posts:         stores.NewGormPostStore(db, nil),
		Comments:      e.store.comments,
		AuditLogs:     auditStore,
		Catalog:       stores.NewGormCatalogStore(db, nil),
		Hasher:        user.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:        e.tokens,
		Recorder:      e.recorder,
	}
	e.accounts = blog.NewAccountManager(deps)
	e.posts = blog.NewPostManager(deps)
	e.comments = blog.NewCommentManager(deps)
	e.audit = blog.NewAuditLogReader(deps)
	e.catalog = blog.NewCatalog(deps)
	return e
}

func (e *env) register(t *testing.T, username, role string) policy.Identity {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), blog.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
		RoleName: role,
	})
	require.NoError(t, err)
	return policy.Identity{UserID: u.ID, Role: u.Role.RoleName}
}

func (e *env) createPost(t *testing.T, id policy.Identity, title string) *blog.PostView {
	t.Helper()
	p, err := e.posts.Create(context.Background(), id, blog.PostInput{Title: title, Content: "<p>body</p>", CategoryID: 1})
	require.NoError(t, err)
	return p
}

func requireKind(t *testing.T, err error, kind blog.Kind) *blog.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := blog.AsError(err)
	require.True(t, ok, "expected *blog.Error, got %T", err)
	assert.Equal(t, kind, e.Kind, e.Message)
	return e
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	registered, err := e.accounts.Register(ctx, blog.RegisterInput{
		Username: "  Alice ",
		Email:    "Alice@Example.com",
		Password: " Secret1 ",
		RoleName: "Editor",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, "alice@example.com", registered.Email)
	assert.Equal(t, models.RoleEditor, registered.Role.RoleName)
	assert.True(t, registered.ReceiveNotifications)

	res, err := e.accounts.Login(ctx, blog.LoginInput{UsernameOrEmail: "ALICE@example.com", Password: "Secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := e.tokens.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, models.RoleEditor, claims.Role)

	_, err = e.accounts.Login(ctx, blog.LoginInput{UsernameOrEmail: "alice", Password: "secret1"})
	e1 := requireKind(t, err, blog.KindValidation)
	assert.Equal(t, "Invalid username/email or password", e1.Message)

	e.recorder.Wait()
	logs, err := e.audit.List(ctx, policy.Identity{UserID: registered.ID}, blog.AuditQuery{})
	require.NoError(t, err)
	actions := []string{}
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.ElementsMatch(t, []string{string(models.AuditRegistration), string(models.AuditLogin)}, actions)
}

func TestRegisterRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "bob", models.RoleViewer)

	tests := []struct {
		name string
		in   blog.RegisterInput
		kind blog.Kind
		msg  string
	}{
		{"missing field", blog.RegisterInput{Username: "x", Email: "x@example.com", RoleName: "viewer"}, blog.KindValidation, "All fields (username, email, password, role) are required"},
		{"bad email", blog.RegisterInput{Username: "x", Email: "not-an-email", Password: "p", RoleName: "viewer"}, blog.KindValidation, "Invalid email address"},
		{"unknown role", blog.RegisterInput{Username: "x", Email: "x@example.com", Password: "p", RoleName: "admin"}, blog.KindValidation, "Invalid role"},
		{"taken username", blog.RegisterInput{Username: "BOB", Email: "new@example.com", Password: "p", RoleName: "viewer"}, blog.KindConflict, "User with this email or username already exists"},
		{"taken email", blog.RegisterInput{Username: "new", Email: "bob@example.com", Password: "p", RoleName: "viewer"}, blog.KindConflict, "User with this email or username already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.accounts.Register(ctx, tt.in)
			got := requireKind(t, err, tt.kind)
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "carol", models.RoleViewer)

	res, err := e.accounts.Login(ctx, blog.LoginInput{UsernameOrEmail: "carol", Password: "pw-carol"})
	require.NoError(t, err)

	pair, err := e.accounts.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	claims, err := e.tokens.ParseAccessToken(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, err = e.accounts.Refresh(ctx, res.RefreshToken)
	requireKind(t, err, blog.KindCredentialRejected)

	require.NoError(t, e.accounts.Logout(ctx, pair.RefreshToken))
	_, err = e.accounts.Refresh(ctx, pair.RefreshToken)
	requireKind(t, err, blog.KindCredentialRejected)

	requireKind(t, e.accounts.Logout(ctx, " "), blog.KindValidation)
}

func TestProfileAndNotifications(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.register(t, "dave", models.RoleViewer)

	_, err := e.accounts.Profile(ctx, policy.Anonymous)
	requireKind(t, err, blog.KindAuthenticationRequired)

	first, err := e.accounts.ToggleNotifications(ctx, id)
	require.NoError(t, err)
	assert.False(t, first)
	second, err := e.accounts.ToggleNotifications(ctx, id)
	require.NoError(t, err)
	assert.True(t, second)

	profile, err := e.accounts.Profile(ctx, id)
	require.NoError(t, err)
	assert.True(t, profile.ReceiveNotifications)
	assert.Empty(t, profile.Favorites)

	_, err = e.accounts.ToggleNotifications(ctx, policy.Identity{UserID: 9999})
	requireKind(t, err, blog.KindNotFound)
}

func TestPostOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", models.RoleEditor)
	bob := e.register(t, "bob", models.RoleEditor)
	viewer := e.register(t, "vic", models.RoleViewer)

	_, err := e.posts.Create(ctx, policy.Anonymous, blog.PostInput{Title: "t", Content: "c", CategoryID: 1})
	requireKind(t, err, blog.KindAuthenticationRequired)
	_, err = e.posts.Create(ctx, viewer, blog.PostInput{Title: "t", Content: "c", CategoryID: 1})
	denied := requireKind(t, err, blog.KindDenied)
	assert.Equal(t, policy.ReasonWrongRole, denied.Reason)
	_, err = e.posts.Create(ctx, alice, blog.PostInput{Title: "t", Content: "c", CategoryID: 9999})
	requireKind(t, err, blog.KindNotFound)
	_, err = e.posts.Create(ctx, alice, blog.PostInput{Title: " ", Content: "c", CategoryID: 1})
	requireKind(t, err, blog.KindValidation)

	post := e.createPost(t, alice, "Mine")
	assert.Equal(t, "alice", post.Author.Username)

	edit := blog.PostInput{Title: "Changed", Content: "<p>new</p>", CategoryID: 2}
	_, err = e.posts.Edit(ctx, bob, post.ID, edit)
	denied = requireKind(t, err, blog.KindDenied)
	assert.Equal(t, policy.ReasonNotOwner, denied.Reason)
	requireKind(t, e.posts.Delete(ctx, bob, post.ID), blog.KindDenied)
	_, err = e.posts.Edit(ctx, alice, 9999, edit)
	requireKind(t, err, blog.KindNotFound)

	edited, err := e.posts.Edit(ctx, alice, post.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Changed", edited.Title)
	assert.Equal(t, uint(2), edited.Category.ID)

	require.NoError(t, e.posts.Delete(ctx, alice, post.ID))
	_, err = e.posts.View(ctx, policy.Anonymous, post.ID)
	requireKind(t, err, blog.KindNotFound)

	e.recorder.Wait()
	logs, err := e.audit.List(ctx, alice, blog.AuditQuery{Action: "post"})
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	assert.Equal(t, "User Name alice - Deleted: Changed Blog", logs[0].Description)
}

func TestRoleIsReadFromStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	editor := e.register(t, "erin", models.RoleEditor)
	post := e.createPost(t, editor, "Before demotion")

	viewerRole, err := stores.NewGormCatalogStore(e.db, nil).FindRoleByName(ctx, models.RoleViewer)
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", editor.UserID).Update("role_id", viewerRole.ID).Error)

	// The identity still claims editor.
	_, err = e.posts.Create(ctx, editor, blog.PostInput{Title: "t", Content: "c", CategoryID: 1})
	requireKind(t, err, blog.KindDenied)
	_, err = e.audit.List(ctx, editor, blog.AuditQuery{})
	requireKind(t, err, blog.KindForbidden)

	_, err = e.posts.Edit(ctx, editor, post.ID, blog.PostInput{Title: "Still mine", Content: "c", CategoryID: 1})
	assert.NoError(t, err)
}

func TestDeletePostRemovesComments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", models.RoleEditor)
	vic := e.register(t, "vic", models.RoleViewer)
	post := e.createPost(t, alice, "Busy")

	for i := 0; i < 3; i++ {
		_, err := e.comments.Create(ctx, vic, post.ID, "nice")
		require.NoError(t, err)
	}
	require.NoError(t, e.posts.Delete(ctx, alice, post.ID))

	n, err := e.store.comments.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.comments.ListForPost(ctx, vic, post.ID)
	requireKind(t, err, blog.KindNotFound)
}

func TestPostContentIsSanitized(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", models.RoleEditor)

	post, err := e.posts.Create(ctx, alice, blog.PostInput{
		Title:      "XSS",
		Content:    `<p>hello</p><script>alert(1)</script><a href="https://example.com" onclick="x()">link</a>`,
		CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Contains(t, post.Content, "<p>hello</p>")
	assert.NotContains(t, post.Content, "<script")
	assert.NotContains(t, post.Content, "onclick")
	assert.Contains(t, post.Content, `href="https://example.com"`)

	_, err = e.posts.Create(ctx, alice, blog.PostInput{Title: "Empty", Content: "<script>x</script>", CategoryID: 1})
	requireKind(t, err, blog.KindValidation)
}

func TestViewCountsAndHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", models.RoleEditor)
	vic := e.register(t, "vic", models.RoleViewer)
	post := e.createPost(t, alice, "Popular")

	anon, err := e.posts.View(ctx, policy.Anonymous, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, anon.Post.ViewCount)
	assert.False(t, anon.CanModify)

	for i := 0; i < 2; i++ {
		_, err = e.posts.View(ctx, vic, post.ID)
		require.NoError(t, err)
	}
	own, err := e.posts.View(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, own.Post.ViewCount)
	assert.True(t, own.CanModify)

	profile, err := e.accounts.Profile(ctx, vic)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, profile.History)
}

func TestToggleFavorite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", models.RoleEditor)
	vic := e.register(t, "vic", models.RoleViewer)
	post := e.createPost(t, alice, "Fav")

	_, err := e.accounts.ToggleFavorite(ctx, policy.Anonymous, post.ID)
	requireKind(t, err, blog.KindAuthenticationRequired)
	_, err = e.accounts.ToggleFavorite(ctx, vic, 9999)
	requireKind(t, err, blog.KindNotFound)

	on, err := e.accounts.ToggleFavorite(ctx, vic, post.ID)
	require.NoError(t, err)
	assert.True(t, on)

	detail, err := e.posts.View(ctx, vic, post.ID)
	require.NoError(t, err)
	assert.True(t, detail.Favorited)

	off, err := e.accounts.ToggleFavorite(ctx, vic, post.ID)
	require.NoError(t, err)
	assert.False(t, off)
}

func TestCommentPermissions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "author", models.RoleEditor)
	commenter := e.register(t, "commenter", models.RoleViewer)
	stranger := e.register(t, "stranger", models.RoleEditor)
	post := e.createPost(t, author, "Discuss")

	_, err := e.comments.Create(ctx, policy.Anonymous, post.ID, "hi")
	requireKind(t, err, blog.KindAuthenticationRequired)
	_, err = e.comments.Create(ctx, commenter, 9999, "hi")
	requireKind(t, err, blog.KindNotFound)

	c, err := e.comments.Create(ctx, commenter, post.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, "commenter", c.User.Username)

	_, err = e.comments.Edit(ctx, stranger, c.ID, "hijack")
	requireKind(t, err, blog.KindDenied)
	requireKind(t, e.comments.Delete(ctx, stranger, c.ID), blog.KindDenied)

	byPostAuthor, err := e.comments.Edit(ctx, author, c.ID, "moderated")
	require.NoError(t, err)
	assert.Equal(t, "moderated", byPostAuthor.Content)

	byCommenter, err := e.comments.Edit(ctx, commenter, c.ID, "<em>fixed</em>")
	require.NoError(t, err)
	assert.Equal(t, "<em>fixed</em>", byCommenter.Content)

	require.NoError(t, e.comments.Delete(ctx, commenter, c.ID))
	requireKind(t, e.comments.Delete(ctx, commenter, c.ID), blog.KindNotFound)

	other, err := e.comments.Create(ctx, commenter, post.ID, "again")
	require.NoError(t, err)
	require.NoError(t, e.comments.Delete(ctx, author, other.ID))
}

func TestCommentContentRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "author", models.RoleEditor)
	post := e.createPost(t, author, "Rules")

	long := strings.Repeat("é", 150)
	c, err := e.comments.Create(ctx, author, post.ID, "  "+long+"  ")
	require.NoError(t, err)
	assert.Equal(t, blog.MaxCommentLength, len([]rune(c.Content)))

	_, err = e.comments.Create(ctx, author, post.ID, "   ")
	requireKind(t, err, blog.KindValidation)
	_, err = e.comments.Create(ctx, author, post.ID, "<script>alert(1)</script>")
	requireKind(t, err, blog.KindValidation)

	clean, err := e.comments.Create(ctx, author, post.ID, `<strong onclick="x()">bold</strong>`)
	require.NoError(t, err)
	assert.Equal(t, "<strong>bold</strong>", clean.Content)
}

func TestListForPostSeparatesOwnComment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "author", models.RoleEditor)
	vic := e.register(t, "vic", models.RoleViewer)
	post := e.createPost(t, author, "Thread")

	_, err := e.comments.Create(ctx, author, post.ID, "welcome")
	require.NoError(t, err)
	mine, err := e.comments.Create(ctx, vic, post.ID, "thanks")
	require.NoError(t, err)

	anon, err := e.comments.ListForPost(ctx, policy.Anonymous, post.ID)
	require.NoError(t, err)
	assert.Len(t, anon.Comments, 2)
	assert.Nil(t, anon.YourComment)

	list, err := e.comments.ListForPost(ctx, vic, post.ID)
	require.NoError(t, err)
	require.NotNil(t, list.YourComment)
	assert.Equal(t, mine.ID, list.YourComment.ID)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "welcome", list.Comments[0].Content)
}

func TestAuditLogAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	editor := e.register(t, "editor", models.RoleEditor)
	viewer := e.register(t, "viewer", models.RoleViewer)
	e.createPost(t, editor, "Logged")
	e.recorder.Wait()

	_, err := e.audit.List(ctx, policy.Anonymous, blog.AuditQuery{})
	requireKind(t, err, blog.KindAuthenticationRequired)
	_, err = e.audit.List(ctx, viewer, blog.AuditQuery{})
	forbidden := requireKind(t, err, blog.KindForbidden)
	assert.Equal(t, "Only editors can access audit logs", forbidden.Message)
	_, err = e.audit.List(ctx, editor, blog.AuditQuery{Date: "10/03/2024"})
	requireKind(t, err, blog.KindValidation)

	today := time.Now().UTC().Format("2006-01-02")
	logs, err := e.audit.List(ctx, editor, blog.AuditQuery{Action: "CREATED", Date: today})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(models.AuditPostCreated), logs[0].Action)
	assert.Equal(t, "editor", logs[0].User.Username)

	logs, err = e.audit.List(ctx, editor, blog.AuditQuery{Action: "created", Date: "2000-01-01"})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCatalog(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roles, err := e.catalog.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	categories, err := e.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)
}
