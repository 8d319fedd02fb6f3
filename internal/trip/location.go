// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Location is a timestamped coordinate reading belonging to an account.
// The history is append-only: rows are never mutated or deleted, and an
// account's "current location" is the row with the latest RecordedAt.
type Location struct {
	ID         ulid.ULID `json:"location_id"`
	AccountID  ulid.ULID `json:"account_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewLocation creates a validated Location with a fresh ID. A zero recordedAt
// defaults to the current time.
func NewLocation(accountID ulid.ULID, latitude, longitude float64, recordedAt time.Time) (*Location, error) {
	if accountID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("LOCATION_INVALID_ACCOUNT").Errorf("account ID cannot be zero")
	}
	if err := ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	return &Location{
		ID:         ulid.Make(),
		AccountID:  accountID,
		Latitude:   latitude,
		Longitude:  longitude,
		RecordedAt: recordedAt,
		CreatedAt:  time.Now(),
	}, nil
}
