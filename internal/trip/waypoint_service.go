// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CreateWaypointRequest is the body of a waypoint creation. The sequence
// number is never accepted from the caller; it is allocated here.
type CreateWaypointRequest struct {
	Name      string  `json:"waypoint_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// planByName resolves a plan by its name within the addressed room. Plans are
// addressed by (room, name); a name that does not exist in this room is
// reported as missing even when another room has a plan by that name.
func (s *Service) planByName(ctx context.Context, roomID ulid.ULID, planName string) (*Plan, error) {
	plan, err := s.plans.GetByName(ctx, roomID, planName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("plan")
		}
		return nil, InternalError(oops.With("operation", "get plan by name").Wrap(err))
	}
	return plan, nil
}

// CreateWaypoint appends a waypoint to a plan. The sequence number is
// max(existing)+1, or 1 for an empty plan, allocated under a plan row lock
// inside one transaction so concurrent writers cannot collide.
func (s *Service) CreateWaypoint(ctx context.Context, req Requestor, roomID ulid.ULID, planName string, body CreateWaypointRequest) (*Waypoint, error) {
	plan, err := s.planByName(ctx, roomID, planName)
	if err != nil {
		return nil, err
	}
	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return nil, err
	}
	if d := s.roomPolicy.CanCreateWaypoint(membership, req.Scope); !d.Allowed {
		return nil, d.Err()
	}
	if err := ValidateCoordinates(body.Latitude, body.Longitude); err != nil {
		return nil, err
	}

	var created *Waypoint
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.plans.Lock(ctx, plan.ID); err != nil {
			// The plan can disappear between resolution and the lock.
			if errors.Is(err, ErrNotFound) {
				return NotFoundError("plan")
			}
			return oops.With("operation", "lock plan").Wrap(err)
		}
		maxSeq, err := s.waypoints.MaxSeq(ctx, plan.ID)
		if err != nil {
			return oops.With("operation", "max waypoint seq").Wrap(err)
		}
		wp, err := NewWaypoint(plan.ID, maxSeq+1, body.Name, body.Latitude, body.Longitude)
		if err != nil {
			return err
		}
		if err := s.waypoints.Create(ctx, wp); err != nil {
			return oops.With("operation", "create waypoint").Wrap(err)
		}
		created = wp
		return nil
	})
	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, InternalError(err)
	}
	return created, nil
}

// ListWaypoints returns a plan's waypoints in sequence order.
func (s *Service) ListWaypoints(ctx context.Context, req Requestor, roomID ulid.ULID, planName string) ([]*Waypoint, error) {
	plan, err := s.planByName(ctx, roomID, planName)
	if err != nil {
		return nil, err
	}
	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return nil, err
	}
	if d := s.roomPolicy.CanViewWaypoint(membership, req.Scope); !d.Allowed {
		return nil, d.Err()
	}

	waypoints, err := s.waypoints.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, InternalError(oops.With("operation", "list waypoints").Wrap(err))
	}
	return waypoints, nil
}

// GetWaypoint returns one waypoint by its sequence number within a plan.
func (s *Service) GetWaypoint(ctx context.Context, req Requestor, roomID ulid.ULID, planName string, seq int) (*Waypoint, error) {
	plan, err := s.planByName(ctx, roomID, planName)
	if err != nil {
		return nil, err
	}
	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return nil, err
	}
	if d := s.roomPolicy.CanViewWaypoint(membership, req.Scope); !d.Allowed {
		return nil, d.Err()
	}

	wp, err := s.waypoints.GetBySeq(ctx, plan.ID, seq)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("waypoint")
		}
		return nil, InternalError(oops.With("operation", "get waypoint by seq").Wrap(err))
	}
	return wp, nil
}

// DeleteWaypoint removes the waypoint at a sequence number and renumbers the
// remainder of the plan: surviving waypoints keep their relative order and
// receive dense sequence numbers starting at 1. Only rows whose number
// actually changes are written. The whole operation commits atomically under
// the plan row lock.
func (s *Service) DeleteWaypoint(ctx context.Context, req Requestor, roomID ulid.ULID, planName string, seq int) error {
	plan, err := s.planByName(ctx, roomID, planName)
	if err != nil {
		return err
	}
	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return err
	}
	if d := s.roomPolicy.CanDeleteWaypoint(membership, req.Scope); !d.Allowed {
		return d.Err()
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.plans.Lock(ctx, plan.ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return NotFoundError("plan")
			}
			return oops.With("operation", "lock plan").Wrap(err)
		}
		wp, err := s.waypoints.GetBySeq(ctx, plan.ID, seq)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return NotFoundError("waypoint")
			}
			return oops.With("operation", "get waypoint by seq").Wrap(err)
		}
		if err := s.waypoints.Delete(ctx, wp.ID); err != nil {
			return oops.With("operation", "delete waypoint").Wrap(err)
		}

		remaining, err := s.waypoints.ListByPlan(ctx, plan.ID)
		if err != nil {
			return oops.With("operation", "list waypoints").Wrap(err)
		}
		for i, survivor := range remaining {
			want := i + 1
			if survivor.Seq == want {
				continue
			}
			if err := s.waypoints.UpdateSeq(ctx, survivor.ID, want); err != nil {
				return oops.With("operation", "renumber waypoint").With("seq", want).Wrap(err)
			}
		}
		return nil
	})
	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return typed
		}
		return InternalError(err)
	}
	return nil
}
