// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"errors"
	"fmt"
)

// Repository sentinels. Repositories signal these; services translate them
// into an *Error carrying the addressed resource.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate")
)

// Kind classifies every failure a service operation can produce. The
// transport boundary switches on Kind; nothing downstream inspects error
// strings.
type Kind int

const (
	// KindUnknown is the zero value, reported for errors that did not come
	// from this package.
	KindUnknown Kind = iota
	// KindNotFound means the addressed resource does not exist, or its
	// existence is being withheld from the caller.
	KindNotFound
	// KindForbidden means policy denied the action for a valid identity.
	KindForbidden
	// KindAdminCannotLeave is the distinct denial for an admin trying to
	// exit their own room.
	KindAdminCannotLeave
	// KindInvalidCredential means the bearer token or login credentials were
	// missing, malformed, expired, or tampered with.
	KindInvalidCredential
	// KindValidation means the request body was rejected, including the
	// unexpected-field (mass assignment) case.
	KindValidation
	// KindConflict means a uniqueness rule was violated (duplicate join,
	// taken username).
	KindConflict
	// KindInternal means an unexpected failure; detail is logged server-side
	// and never surfaced to the caller.
	KindInternal
)

// String returns the kind name used in logs and error codes.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindAdminCannotLeave:
		return "admin_cannot_leave"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the single closed error type raised by service operations,
// parameterized by Kind and a resource/context payload.
type Error struct {
	Kind     Kind
	Resource string // resource kind the error is about ("room", "plan", ...)
	Msg      string // caller-safe message
	Err      error  // underlying cause, for KindInternal logging only
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s", e.Resource, e.Kind)
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from an error chain. Errors not raised by this
// package report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NotFoundError reports that the addressed resource is absent (or withheld).
func NotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Msg: resource + " is not found"}
}

// ForbiddenError reports a policy denial.
func ForbiddenError(resource, msg string) *Error {
	return &Error{Kind: KindForbidden, Resource: resource, Msg: msg}
}

// AdminCannotLeaveError reports the admin-specific exit denial.
func AdminCannotLeaveError() *Error {
	return &Error{
		Kind:     KindAdminCannotLeave,
		Resource: "membership",
		Msg:      "you are the admin of this room, you cannot exit",
	}
}

// InvalidCredentialError reports a credential failure.
func InvalidCredentialError(msg string) *Error {
	return &Error{Kind: KindInvalidCredential, Resource: "credential", Msg: msg}
}

// ValidationError reports a rejected request body.
func ValidationError(resource, msg string) *Error {
	return &Error{Kind: KindValidation, Resource: resource, Msg: msg}
}

// ConflictError reports a uniqueness violation.
func ConflictError(resource, msg string) *Error {
	return &Error{Kind: KindConflict, Resource: resource, Msg: msg}
}

// InternalError wraps an unexpected failure. The cause is preserved for
// server-side logging; callers only ever see a generic message.
func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}
