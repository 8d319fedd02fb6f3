// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Room name validation constraints.
const (
	MinRoomNameLength = 1
	MaxRoomNameLength = 100
)

// Room is a shared planning space. Joining is gated by a password, stored
// only as an argon2id hash.
type Room struct {
	ID           ulid.ULID
	Name         string
	PasswordHash string
	CreatedBy    ulid.ULID
	CreatedAt    time.Time
}

// NewRoom creates a validated Room with a fresh ID.
func NewRoom(name, passwordHash string, createdBy ulid.ULID) (*Room, error) {
	if err := ValidateRoomName(name); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("ROOM_INVALID_HASH").Errorf("room password hash cannot be empty")
	}
	if createdBy.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("ROOM_INVALID_CREATOR").Errorf("creator ID cannot be zero")
	}
	return &Room{
		ID:           ulid.Make(),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
	}, nil
}

// RoomSummary is the caller-visible projection of a Room: everything except
// the password hash.
type RoomSummary struct {
	ID        ulid.ULID `json:"room_id"`
	Name      string    `json:"room_name"`
	CreatedBy ulid.ULID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the caller-visible projection of the room.
func (r *Room) Summary() RoomSummary {
	return RoomSummary{ID: r.ID, Name: r.Name, CreatedBy: r.CreatedBy, CreatedAt: r.CreatedAt}
}

// ValidateRoomName validates a room name.
func ValidateRoomName(name string) error {
	if len(name) < MinRoomNameLength {
		return ValidationError("room", "room name cannot be empty")
	}
	if len(name) > MaxRoomNameLength {
		return ValidationError("room", "room name is too long")
	}
	return nil
}
