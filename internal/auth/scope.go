// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package auth

import "github.com/samber/oops"

// Scope is the capability level carried inside a bearer token. Scopes are
// totally ordered: ScopeReadOnly < ScopeFull. A read-only scope forbids every
// mutating operation regardless of the caller's room authority.
type Scope string

const (
	// ScopeReadOnly permits reads only.
	ScopeReadOnly Scope = "read_only"
	// ScopeFull permits reads and writes.
	ScopeFull Scope = "full"
)

// ParseScope validates a scope string from an untrusted source (token claims).
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeReadOnly, ScopeFull:
		return Scope(s), nil
	default:
		return "", oops.Code("AUTH_INVALID_SCOPE").With("scope", s).Errorf("unknown auth scope %q", s)
	}
}

// CanRead reports whether the scope permits reading the given resource kind.
// Both scope levels may read.
func (s Scope) CanRead(resource string) bool {
	_ = resource // all resource kinds share the same read rule
	return s == ScopeReadOnly || s == ScopeFull
}

// CanWrite reports whether the scope permits mutating the given resource kind.
// Only ScopeFull may write; unknown scopes deny.
func (s Scope) CanWrite(resource string) bool {
	_ = resource // all resource kinds share the same write rule
	return s == ScopeFull
}
