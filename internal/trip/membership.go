// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Authority is the level a membership holds in its room.
type Authority string

const (
	// AuthorityAdmin is creator-level: may delete the room, may not leave it.
	AuthorityAdmin Authority = "admin"
	// AuthorityMember is a regular joined account.
	AuthorityMember Authority = "member"
)

// Valid reports whether the authority is a known level.
func (a Authority) Valid() bool {
	return a == AuthorityAdmin || a == AuthorityMember
}

// Membership binds one account to one room with an authority level. The
// lifecycle is create/destroy only: joining creates an active membership,
// exiting destroys it, and an admin membership is destroyed only by room
// deletion. There is no inactive toggle.
//
// A membership never carries a password field: the room password is consumed
// by the join policy check and stripped before anything is persisted.
type Membership struct {
	ID        ulid.ULID `json:"membership_id"`
	AccountID ulid.ULID `json:"account_id"`
	RoomID    ulid.ULID `json:"room_id"`
	Active    bool      `json:"active"`
	Authority Authority `json:"authority"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMembership creates a validated, active Membership with a fresh ID.
func NewMembership(accountID, roomID ulid.ULID, authority Authority) (*Membership, error) {
	if accountID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("MEMBERSHIP_INVALID_ACCOUNT").Errorf("account ID cannot be zero")
	}
	if roomID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("MEMBERSHIP_INVALID_ROOM").Errorf("room ID cannot be zero")
	}
	if !authority.Valid() {
		return nil, oops.Code("MEMBERSHIP_INVALID_AUTHORITY").With("authority", string(authority)).
			Errorf("unknown authority %q", authority)
	}
	return &Membership{
		ID:        ulid.Make(),
		AccountID: accountID,
		RoomID:    roomID,
		Active:    true,
		Authority: authority,
		CreatedAt: time.Now(),
	}, nil
}

// IsAdmin reports whether the membership holds admin authority.
func (m *Membership) IsAdmin() bool {
	return m.Authority == AuthorityAdmin
}
