// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account. Returns ErrDuplicate (wrapped) if the
	// username is taken.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByUsername retrieves an account by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

// RoomRepository manages room persistence.
type RoomRepository interface {
	// Create persists a new room.
	Create(ctx context.Context, room *Room) error

	// Get retrieves a room by ID.
	Get(ctx context.Context, id ulid.ULID) (*Room, error)

	// List returns every room, newest first. Used by the directory listing
	// when room visibility is public.
	List(ctx context.Context) ([]*Room, error)

	// ListByIDs returns the rooms with the given IDs, newest first.
	ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*Room, error)

	// Delete removes a room. Memberships, plans, and waypoints under it are
	// removed by the storage schema (ON DELETE CASCADE).
	Delete(ctx context.Context, id ulid.ULID) error
}

// MembershipRepository manages the (account, room) relationship records.
type MembershipRepository interface {
	// Create stores a new membership. Returns ErrDuplicate (wrapped) if the
	// (account, room) pair already exists.
	Create(ctx context.Context, m *Membership) error

	// Get retrieves the membership binding an account to a room.
	Get(ctx context.Context, accountID, roomID ulid.ULID) (*Membership, error)

	// ListActiveByRoom returns all active memberships of a room.
	ListActiveByRoom(ctx context.Context, roomID ulid.ULID) ([]*Membership, error)

	// ListActiveByAccount returns all active memberships of an account.
	ListActiveByAccount(ctx context.Context, accountID ulid.ULID) ([]*Membership, error)

	// Delete destroys the membership binding an account to a room.
	Delete(ctx context.Context, accountID, roomID ulid.ULID) error

	// ShareActiveRoom reports whether two accounts hold active memberships
	// in at least one common room.
	ShareActiveRoom(ctx context.Context, a, b ulid.ULID) (bool, error)
}

// PlanRepository manages plan persistence.
type PlanRepository interface {
	// Create persists a new plan. Returns ErrDuplicate (wrapped) if the room
	// already has a plan with the same name.
	Create(ctx context.Context, plan *Plan) error

	// Get retrieves a plan by ID.
	Get(ctx context.Context, id ulid.ULID) (*Plan, error)

	// GetByName retrieves a plan by room and name.
	GetByName(ctx context.Context, roomID ulid.ULID, name string) (*Plan, error)

	// ListByRoom returns all plans of a room, newest first.
	ListByRoom(ctx context.Context, roomID ulid.ULID) ([]*Plan, error)

	// Delete removes a plan and (via the schema) its waypoints.
	Delete(ctx context.Context, id ulid.ULID) error

	// Lock takes a row lock on the plan for the duration of the surrounding
	// transaction. Sequence allocation and renumbering serialize on it.
	Lock(ctx context.Context, id ulid.ULID) error
}

// WaypointRepository manages waypoint persistence.
type WaypointRepository interface {
	// Create persists a new waypoint.
	Create(ctx context.Context, wp *Waypoint) error

	// Get retrieves a waypoint by ID.
	Get(ctx context.Context, id ulid.ULID) (*Waypoint, error)

	// GetBySeq retrieves a waypoint by plan and sequence number.
	GetBySeq(ctx context.Context, planID ulid.ULID, seq int) (*Waypoint, error)

	// ListByPlan returns all waypoints of a plan ordered by sequence number.
	ListByPlan(ctx context.Context, planID ulid.ULID) ([]*Waypoint, error)

	// MaxSeq returns the highest sequence number in a plan, or 0 if the plan
	// has no waypoints.
	MaxSeq(ctx context.Context, planID ulid.ULID) (int, error)

	// UpdateSeq rewrites the sequence number of a waypoint.
	UpdateSeq(ctx context.Context, id ulid.ULID, seq int) error

	// Delete removes a waypoint by ID.
	Delete(ctx context.Context, id ulid.ULID) error
}

// LocationRepository manages the append-only location history.
type LocationRepository interface {
	// Create appends a location reading.
	Create(ctx context.Context, loc *Location) error

	// ListByAccount returns an account's readings, oldest first.
	ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*Location, error)

	// LatestByAccount returns the reading with the latest RecordedAt, or
	// ErrNotFound if the account has none.
	LatestByAccount(ctx context.Context, accountID ulid.ULID) (*Location, error)
}

// Transactor runs a function inside a storage transaction. Repository calls
// made with the context it provides participate in that transaction; if the
// function returns an error nothing is committed.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
