// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Waypoint is one ordered stop in a plan. Within a plan, sequence numbers are
// dense, 1-based, and contiguous after every committed operation: creation
// allocates max+1 under a plan lock, and deletion renumbers the remainder.
type Waypoint struct {
	ID        ulid.ULID `json:"waypoint_id"`
	PlanID    ulid.ULID `json:"plan_id"`
	Seq       int       `json:"seq"`
	Name      string    `json:"waypoint_name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWaypoint creates a validated Waypoint with a fresh ID. The sequence
// number is assigned by the service at creation time, not by the caller.
func NewWaypoint(planID ulid.ULID, seq int, name string, latitude, longitude float64) (*Waypoint, error) {
	if planID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("WAYPOINT_INVALID_PLAN").Errorf("plan ID cannot be zero")
	}
	if seq < 1 {
		return nil, oops.Code("WAYPOINT_INVALID_SEQ").With("seq", seq).
			Errorf("sequence number must be positive, got %d", seq)
	}
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	return &Waypoint{
		ID:        ulid.Make(),
		PlanID:    planID,
		Seq:       seq,
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: time.Now(),
	}, nil
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return ValidationError("coordinates", "latitude must be between -90 and 90")
	}
	if longitude < -180 || longitude > 180 {
		return ValidationError("coordinates", "longitude must be between -180 and 180")
	}
	return nil
}
