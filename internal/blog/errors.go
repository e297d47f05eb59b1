package blog

import (
	"errors"
	"fmt"

	"github.com/surafel-47/blog-mmcy/internal/policy"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthenticationRequired
	KindDenied
	KindForbidden
	KindNotFound
	KindCredentialRejected
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthenticationRequired:
		return "authentication-required"
	case KindDenied:
		return "denied"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not-found"
	case KindCredentialRejected:
		return "credential-rejected"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is returned by every manager operation. Message is safe to show
// to the caller; Err is the internal cause, if any.
type Error struct {
	Kind    Kind
	Reason  policy.Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: KindNotFound, Reason: policy.ReasonNotFound, Message: message}
}

func conflict(message string, err error) error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func unexpected(err error) error {
	return &Error{Kind: KindUnexpected, Message: "Server Error", Err: err}
}

// denied converts a policy decision into an Error.
func denied(d policy.Decision) error {
	kind := KindDenied
	switch d.Reason {
	case policy.ReasonNotAuthenticated:
		kind = KindAuthenticationRequired
	case policy.ReasonNotFound:
		kind = KindNotFound
	case policy.ReasonInvalidRole:
		kind = KindValidation
	}
	return &Error{Kind: kind, Reason: d.Reason, Message: d.Message}
}
