// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// RecordLocationRequest is the body of a location report. A zero RecordedAt
// defaults to the time of receipt.
type RecordLocationRequest struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// RecordLocation appends a reading to the requestor's own history. The
// history is append-only; nothing here mutates or deletes prior rows.
func (s *Service) RecordLocation(ctx context.Context, req Requestor, body RecordLocationRequest) (*Location, error) {
	if !req.Scope.CanWrite("locations") {
		return nil, ForbiddenError("location", "you are not allowed to record locations")
	}

	loc, err := NewLocation(req.AccountID, body.Latitude, body.Longitude, body.RecordedAt)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, InternalError(oops.With("operation", "create location").Wrap(err))
	}
	return loc, nil
}

// ListLocations returns an account's location history, oldest reading first.
// Permitted for the owner and for accounts sharing an active room with them.
func (s *Service) ListLocations(ctx context.Context, req Requestor, username string) ([]*Location, error) {
	owner, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("account")
		}
		return nil, InternalError(oops.With("operation", "get account by username").Wrap(err))
	}

	shareRoom := false
	if req.AccountID != owner.ID {
		shareRoom, err = s.memberships.ShareActiveRoom(ctx, req.AccountID, owner.ID)
		if err != nil {
			return nil, InternalError(oops.With("operation", "share active room").Wrap(err))
		}
	}
	if d := s.locationPolicy.CanView(req.AccountID, owner.ID, shareRoom, req.Scope); !d.Allowed {
		return nil, d.Err()
	}

	locations, err := s.locations.ListByAccount(ctx, owner.ID)
	if err != nil {
		return nil, InternalError(oops.With("operation", "list locations").Wrap(err))
	}
	return locations, nil
}
