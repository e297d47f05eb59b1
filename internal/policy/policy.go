// Package policy decides, per action, whether an identity may act on a
// resource. It is a pure function of its inputs: callers load the acting
// user's current role and the addressed resource before asking.
package policy

import (
	"strings"
)

type Action string

const (
	ActionRegister            Action = "register"
	ActionLogin               Action = "login"
	ActionViewProfile         Action = "view-profile"
	ActionToggleNotifications Action = "toggle-notifications"
	ActionToggleFavorite      Action = "toggle-favorite"
	ActionCreatePost          Action = "create-post"
	ActionEditPost            Action = "edit-post"
	ActionDeletePost          Action = "delete-post"
	ActionCreateComment       Action = "create-comment"
	ActionEditComment         Action = "edit-comment"
	ActionDeleteComment       Action = "delete-comment"
	ActionViewAuditLogs       Action = "view-audit-logs"
)

// Reason is a stable code carried by a denial.
type Reason string

const (
	ReasonNotAuthenticated Reason = "not-authenticated"
	ReasonNotOwner         Reason = "not-owner"
	ReasonWrongRole        Reason = "wrong-role"
	ReasonNotFound         Reason = "not-found"
	ReasonInvalidRole      Reason = "invalid-role"
)

const editorRole = "editor"

// Identity is the caller. The zero value is the anonymous caller.
type Identity struct {
	UserID uint
	Role   string
}

var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.UserID == 0 }

// Resource describes what the action targets.
type Resource struct {
	// Missing marks an addressed resource that could not be loaded.
	Missing bool
	// OwnerID is the post author, comment author, or profile owner.
	OwnerID uint
	// ParentOwnerID is the author of the post a comment belongs to.
	ParentOwnerID uint
	// RoleName is the requested role on registration.
	RoleName string
}

type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

type messages struct {
	login    string
	notFound string
	denied   string
}

var actionMessages = map[Action]messages{
	ActionViewProfile:         {login: "Authentication required", notFound: "User not found"},
	ActionToggleNotifications: {login: "Login required to toggle notifications", notFound: "User not found"},
	ActionToggleFavorite:      {login: "Login required to favorite a post", notFound: "Post not found"},
	ActionCreatePost:          {login: "Login required to create a post", denied: "This account type can't create posts"},
	ActionEditPost:            {login: "Login required to edit a post", notFound: "Post not found", denied: "You do not have permission to edit this post"},
	ActionDeletePost:          {login: "Login required to delete a post", notFound: "Post not found", denied: "You do not have permission to delete this post"},
	ActionCreateComment:       {login: "Login required to leave a comment", notFound: "Post not found"},
	ActionEditComment:         {login: "Login required to edit a comment", notFound: "Comment not found", denied: "You do not have permission to edit this comment"},
	ActionDeleteComment:       {login: "Login required to delete a comment", notFound: "Comment not found", denied: "You do not have permission to delete this comment"},
	ActionViewAuditLogs:       {login: "Login required to access audit logs", denied: "Only editors can access audit logs"},
}

type Policy struct {
	roles map[string]struct{}
}

// New returns a Policy that accepts the given role names on registration.
func New(roleNames ...string) *Policy {
	roles := make(map[string]struct{}, len(roleNames))
	for _, name := range roleNames {
		roles[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return &Policy{roles: roles}
}

// Authorize evaluates action for id against res. Checks run in order:
// authentication, resource existence, then role or ownership.
func (p *Policy) Authorize(id Identity, action Action, res Resource) Decision {
	switch action {
	case ActionLogin:
		return allow()
	case ActionRegister:
		if _, ok := p.roles[strings.ToLower(strings.TrimSpace(res.RoleName))]; !ok {
			return deny(ReasonInvalidRole, "Invalid role")
		}
		return allow()
	}

	msg, known := actionMessages[action]
	if !known {
		return deny(ReasonWrongRole, "Unsupported action")
	}
	if id.IsAnonymous() {
		return deny(ReasonNotAuthenticated, msg.login)
	}
	if res.Missing {
		return deny(ReasonNotFound, msg.notFound)
	}

	switch action {
	case ActionViewProfile, ActionToggleNotifications:
		if res.OwnerID != 0 && res.OwnerID != id.UserID {
			return deny(ReasonNotOwner, "You can only act on your own account")
		}
	case ActionCreatePost, ActionViewAuditLogs:
		if !strings.EqualFold(id.Role, editorRole) {
			return deny(ReasonWrongRole, msg.denied)
		}
	case ActionEditPost, ActionDeletePost:
		// Ownership only. Editors get no override.
		if res.OwnerID != id.UserID {
			return deny(ReasonNotOwner, msg.denied)
		}
	case ActionEditComment, ActionDeleteComment:
		if res.OwnerID != id.UserID && res.ParentOwnerID != id.UserID {
			return deny(ReasonNotOwner, msg.denied)
		}
	}
	return allow()
}
