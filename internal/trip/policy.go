// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"github.com/oklog/ulid/v2"

	"github.com/cryal/cryal/internal/auth"
)

// Requestor is the caller identity derived once per call from a verified
// bearer token: the account acting, and the capability scope of its
// credential.
type Requestor struct {
	AccountID ulid.ULID
	Scope     auth.Scope
}

// Decision is the outcome of a policy check: allowed, or denied with a typed
// reason. Policies never return bare booleans.
type Decision struct {
	Allowed bool
	Deny    *Error // nil when Allowed
}

// Err returns the denial as an error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Deny
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(e *Error) Decision {
	return Decision{Deny: e}
}

// Visibility controls whether rooms are discoverable by non-members. The
// exact discoverability rule is a deployment parameter, not a constant.
type Visibility string

const (
	// VisibilityMembersOnly hides every room from accounts without an active
	// membership. This is the default.
	VisibilityMembersOnly Visibility = "members_only"
	// VisibilityPublic lists every room in the directory; joining still
	// requires the room password.
	VisibilityPublic Visibility = "public"
)

// RoomPolicy decides room actions from (requestor, target, scope). It holds
// no mutable state; the password verifier is a pure function dependency.
type RoomPolicy struct {
	Visibility Visibility
	Passwords  auth.PasswordHasher
}

// CanView decides whether the requestor may see a room's contents given
// their membership record (nil when none exists).
func (p RoomPolicy) CanView(m *Membership) Decision {
	if m != nil && m.Active {
		return allow()
	}
	if p.Visibility == VisibilityPublic {
		return allow()
	}
	return deny(ForbiddenError("room", "you are not allowed to access this room"))
}

// CanCreate decides whether the requestor's scope permits creating rooms.
func (p RoomPolicy) CanCreate(scope auth.Scope) Decision {
	if !scope.CanWrite("rooms") {
		return deny(ForbiddenError("room", "you are not allowed to create a room"))
	}
	return allow()
}

// CanJoin decides a join attempt: the supplied password must match the
// room's stored hash, and the scope must permit the mutation. The password is
// consumed here; callers must not persist it.
func (p RoomPolicy) CanJoin(room *Room, password string, scope auth.Scope) (Decision, error) {
	if !scope.CanWrite("rooms") {
		return deny(ForbiddenError("room", "you are not allowed to join this room")), nil
	}
	ok, err := p.Passwords.Verify(password, room.PasswordHash)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return deny(ForbiddenError("room", "you are not allowed to join this room")), nil
	}
	return allow(), nil
}

// CanDeleteRoom requires an active admin membership and write scope.
func (p RoomPolicy) CanDeleteRoom(m *Membership, scope auth.Scope) Decision {
	if m == nil || !m.Active || !m.IsAdmin() {
		return deny(ForbiddenError("room", "you are not allowed to delete this room"))
	}
	if !scope.CanWrite("rooms") {
		return deny(ForbiddenError("room", "you are not allowed to delete this room"))
	}
	return allow()
}

// CanLeave decides an exit attempt. Admin authority is categorically
// disallowed from leaving; that denial is distinct from Forbidden.
func (p RoomPolicy) CanLeave(m *Membership, scope auth.Scope) Decision {
	if m == nil || !m.Active {
		return deny(ForbiddenError("membership", "you are not allowed to exit this room"))
	}
	if m.IsAdmin() {
		return deny(AdminCannotLeaveError())
	}
	if !scope.CanWrite("rooms") {
		return deny(ForbiddenError("membership", "you are not allowed to exit this room"))
	}
	return allow()
}

// CanCreatePlan requires an active membership and write scope.
func (p RoomPolicy) CanCreatePlan(m *Membership, scope auth.Scope) Decision {
	return p.mutateInRoom(m, scope, "plan", "you are not allowed to create a plan in this room")
}

// CanDeletePlan requires an active membership and write scope.
func (p RoomPolicy) CanDeletePlan(m *Membership, scope auth.Scope) Decision {
	return p.mutateInRoom(m, scope, "plan", "you are not allowed to delete this plan")
}

// CanViewPlans requires an active membership.
func (p RoomPolicy) CanViewPlans(m *Membership, scope auth.Scope) Decision {
	if m == nil || !m.Active || !scope.CanRead("plans") {
		return deny(ForbiddenError("plan", "you are not allowed to access this room"))
	}
	return allow()
}

// CanCreateWaypoint requires an active membership and write scope.
func (p RoomPolicy) CanCreateWaypoint(m *Membership, scope auth.Scope) Decision {
	return p.mutateInRoom(m, scope, "waypoint", "you are not allowed to create a waypoint in this plan")
}

// CanDeleteWaypoint requires an active membership and write scope.
func (p RoomPolicy) CanDeleteWaypoint(m *Membership, scope auth.Scope) Decision {
	return p.mutateInRoom(m, scope, "waypoint", "you are not allowed to delete this waypoint")
}

// CanViewWaypoint requires an active membership.
func (p RoomPolicy) CanViewWaypoint(m *Membership, scope auth.Scope) Decision {
	if m == nil || !m.Active || !scope.CanRead("waypoints") {
		return deny(ForbiddenError("waypoint", "you are not allowed to access waypoints in this plan"))
	}
	return allow()
}

func (p RoomPolicy) mutateInRoom(m *Membership, scope auth.Scope, resource, msg string) Decision {
	if m == nil || !m.Active {
		return deny(ForbiddenError(resource, msg))
	}
	if !scope.CanWrite(resource + "s") {
		return deny(ForbiddenError(resource, msg))
	}
	return allow()
}

// AccountPolicy decides whether one account may view another's profile.
type AccountPolicy struct{}

// CanView allows self-lookup and lookup of accounts sharing an active room
// with the requestor.
func (AccountPolicy) CanView(requestorID ulid.ULID, target *Account, shareRoom bool) Decision {
	if requestorID == target.ID || shareRoom {
		return allow()
	}
	return deny(ForbiddenError("account", "you are not allowed to access this account"))
}

// LocationPolicy decides whether one account may view another's location
// history.
type LocationPolicy struct{}

// CanView allows reading one's own history, or that of an account sharing an
// active room, provided the scope permits reads.
func (LocationPolicy) CanView(requestorID, ownerID ulid.ULID, shareRoom bool, scope auth.Scope) Decision {
	if !scope.CanRead("locations") {
		return deny(ForbiddenError("location", "you are not allowed to access this account's locations"))
	}
	if requestorID == ownerID || shareRoom {
		return allow()
	}
	return deny(ForbiddenError("location", "you are not allowed to access this account's locations"))
}
