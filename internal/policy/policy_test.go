package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/surafel-47/blog-mmcy/internal/policy"
)

var (
	alice = policy.Identity{UserID: 1, Role: "editor"}
	bob   = policy.Identity{UserID: 2, Role: "editor"}
	carol = policy.Identity{UserID: 3, Role: "viewer"}
)

func newPolicy() *policy.Policy { return policy.New("viewer", "editor") }

func TestRegisterRoleMatching(t *testing.T) {
	p := newPolicy()

	for _, role := range []string{"viewer", "Editor", "  VIEWER "} {
		assert.True(t, p.Authorize(policy.Anonymous, policy.ActionRegister, policy.Resource{RoleName: role}).Allowed, role)
	}

	d := p.Authorize(policy.Anonymous, policy.ActionRegister, policy.Resource{RoleName: "admin"})
	assert.False(t, d.Allowed)
	assert.Equal(t, policy.ReasonInvalidRole, d.Reason)
	assert.Equal(t, "Invalid role", d.Message)
}

func TestLoginAlwaysAllowed(t *testing.T) {
	assert.True(t, newPolicy().Authorize(policy.Anonymous, policy.ActionLogin, policy.Resource{}).Allowed)
}

func TestAnonymousIsDeniedEverywhereElse(t *testing.T) {
	p := newPolicy()
	actions := []policy.Action{
		policy.ActionViewProfile,
		policy.ActionToggleNotifications,
		policy.ActionToggleFavorite,
		policy.ActionCreatePost,
		policy.ActionEditPost,
		policy.ActionDeletePost,
		policy.ActionCreateComment,
		policy.ActionEditComment,
		policy.ActionDeleteComment,
		policy.ActionViewAuditLogs,
	}
	for _, action := range actions {
		d := p.Authorize(policy.Anonymous, action, policy.Resource{Missing: true})
		assert.False(t, d.Allowed, action)
		assert.Equal(t, policy.ReasonNotAuthenticated, d.Reason, action)
		assert.NotEmpty(t, d.Message, action)
	}
}

func TestCreatePostRequiresEditor(t *testing.T) {
	p := newPolicy()

	assert.True(t, p.Authorize(alice, policy.ActionCreatePost, policy.Resource{}).Allowed)

	d := p.Authorize(carol, policy.ActionCreatePost, policy.Resource{})
	assert.False(t, d.Allowed)
	assert.Equal(t, policy.ReasonWrongRole, d.Reason)
	assert.Equal(t, "This account type can't create posts", d.Message)
}

func TestPostMutationsAreOwnerOnly(t *testing.T) {
	p := newPolicy()
	post := policy.Resource{OwnerID: alice.UserID}

	for _, action := range []policy.Action{policy.ActionEditPost, policy.ActionDeletePost} {
		assert.True(t, p.Authorize(alice, action, post).Allowed, action)

		// bob is an editor too, which does not matter
		d := p.Authorize(bob, action, post)
		assert.False(t, d.Allowed, action)
		assert.Equal(t, policy.ReasonNotOwner, d.Reason, action)

		d = p.Authorize(carol, action, post)
		assert.Equal(t, policy.ReasonNotOwner, d.Reason, action)
	}
}

func TestDemotedAuthorKeepsOwnership(t *testing.T) {
	demoted := policy.Identity{UserID: alice.UserID, Role: "viewer"}
	post := policy.Resource{OwnerID: alice.UserID}

	p := newPolicy()
	assert.True(t, p.Authorize(demoted, policy.ActionEditPost, post).Allowed)
	assert.True(t, p.Authorize(demoted, policy.ActionDeletePost, post).Allowed)
	assert.False(t, p.Authorize(demoted, policy.ActionCreatePost, policy.Resource{}).Allowed)
}

func TestMissingResourceCheckedBeforeOwnership(t *testing.T) {
	p := newPolicy()

	d := p.Authorize(bob, policy.ActionEditPost, policy.Resource{Missing: true})
	assert.Equal(t, policy.ReasonNotFound, d.Reason)
	assert.Equal(t, "Post not found", d.Message)

	d = p.Authorize(bob, policy.ActionDeleteComment, policy.Resource{Missing: true})
	assert.Equal(t, policy.ReasonNotFound, d.Reason)
	assert.Equal(t, "Comment not found", d.Message)

	d = p.Authorize(carol, policy.ActionCreateComment, policy.Resource{Missing: true})
	assert.Equal(t, policy.ReasonNotFound, d.Reason)
}

func TestCommentMutationsAllowCommentOrPostAuthor(t *testing.T) {
	p := newPolicy()
	// carol commented on alice's post
	comment := policy.Resource{OwnerID: carol.UserID, ParentOwnerID: alice.UserID}

	cases := []struct {
		who     policy.Identity
		allowed bool
	}{
		{carol, true},
		{alice, true},
		{bob, false},
	}
	for _, tc := range cases {
		for _, action := range []policy.Action{policy.ActionEditComment, policy.ActionDeleteComment} {
			d := p.Authorize(tc.who, action, comment)
			assert.Equal(t, tc.allowed, d.Allowed, "user %d %s", tc.who.UserID, action)
			if !tc.allowed {
				assert.Equal(t, policy.ReasonNotOwner, d.Reason)
			}
		}
	}
}

func TestCreateCommentAnyAuthenticatedUser(t *testing.T) {
	assert.True(t, newPolicy().Authorize(carol, policy.ActionCreateComment, policy.Resource{OwnerID: alice.UserID}).Allowed)
}

func TestAuditLogsEditorsOnly(t *testing.T) {
	p := newPolicy()

	assert.True(t, p.Authorize(alice, policy.ActionViewAuditLogs, policy.Resource{}).Allowed)

	d := p.Authorize(carol, policy.ActionViewAuditLogs, policy.Resource{})
	assert.False(t, d.Allowed)
	assert.Equal(t, policy.ReasonWrongRole, d.Reason)
	assert.Equal(t, "Only editors can access audit logs", d.Message)
}

func TestProfileActsOnSelfOnly(t *testing.T) {
	p := newPolicy()

	assert.True(t, p.Authorize(carol, policy.ActionViewProfile, policy.Resource{OwnerID: carol.UserID}).Allowed)
	assert.True(t, p.Authorize(carol, policy.ActionToggleNotifications, policy.Resource{OwnerID: carol.UserID}).Allowed)

	d := p.Authorize(carol, policy.ActionToggleNotifications, policy.Resource{OwnerID: alice.UserID})
	assert.Equal(t, policy.ReasonNotOwner, d.Reason)
}
