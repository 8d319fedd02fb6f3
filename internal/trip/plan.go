// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Plan is a named itinerary owned by a room, containing ordered waypoints.
// Plan names are unique within their room.
type Plan struct {
	ID          ulid.ULID `json:"plan_id"`
	RoomID      ulid.ULID `json:"room_id"`
	Name        string    `json:"plan_name"`
	Description string    `json:"plan_description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPlan creates a validated Plan with a fresh ID.
func NewPlan(roomID ulid.ULID, name, description string) (*Plan, error) {
	if roomID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("PLAN_INVALID_ROOM").Errorf("room ID cannot be zero")
	}
	if name == "" {
		return nil, ValidationError("plan", "plan name cannot be empty")
	}
	return &Plan{
		ID:          ulid.Make(),
		RoomID:      roomID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}
