// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CreatePlanRequest is the body of a plan creation.
type CreatePlanRequest struct {
	Name        string `json:"plan_name"`
	Description string `json:"plan_description"`
}

// MemberLocation pairs a room member with their latest location reading.
// Location is nil for members who have never reported one.
type MemberLocation struct {
	Username string    `json:"username"`
	Location *Location `json:"location"`
}

// PlanDetail is the result of fetching a single plan: the plan, its ordered
// waypoints, and the latest location of every active room member.
type PlanDetail struct {
	Plan            *Plan            `json:"plan"`
	Waypoints       []*Waypoint      `json:"waypoints"`
	MemberLocations []MemberLocation `json:"user_locations"`
}

// roomAndMembership resolves the addressed room and the requestor's
// membership record in it. Missing room yields NotFound.
func (s *Service) roomAndMembership(ctx context.Context, req Requestor, roomID ulid.ULID) (*Membership, error) {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("room")
		}
		return nil, InternalError(oops.With("operation", "get room").Wrap(err))
	}
	return s.membershipOf(ctx, req.AccountID, roomID)
}

// CreatePlan creates a plan inside a room. Requires an active membership and
// write scope.
func (s *Service) CreatePlan(ctx context.Context, req Requestor, roomID ulid.ULID, body CreatePlanRequest) (*Plan, error) {
	membership, err := s.roomAndMembership(ctx, req, roomID)
	if err != nil {
		return nil, err
	}
	if d := s.roomPolicy.CanCreatePlan(membership, req.Scope); !d.Allowed {
		return nil, d.Err()
	}

	plan, err := NewPlan(roomID, body.Name, body.Description)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ConflictError("plan", "a plan with this name already exists in the room")
		}
		return nil, InternalError(oops.With("operation", "create plan").Wrap(err))
	}
	return plan, nil
}

// ListPlans returns all plans of a room the requestor actively belongs to.
func (s *Service) ListPlans(ctx context.Context, req Requestor, roomID ulid.ULID) ([]*Plan, error) {
	membership, err := s.roomAndMembership(ctx, req, roomID)
	if err != nil {
		return nil, err
	}
	if d := s.roomPolicy.CanViewPlans(membership, req.Scope); !d.Allowed {
		return nil, d.Err()
	}

	plans, err := s.plans.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, InternalError(oops.With("operation", "list plans").Wrap(err))
	}
	return plans, nil
}

// GetPlan returns one plan by name, its waypoints in sequence order, and the
// latest reported location of every active member of the room.
func (s *Service) GetPlan(ctx context.Context, req Requestor, roomID ulid.ULID, planName string) (PlanDetail, error) {
	membership, err := s.roomAndMembership(ctx, req, roomID)
	if err != nil {
		return PlanDetail{}, err
	}
	if d := s.roomPolicy.CanViewPlans(membership, req.Scope); !d.Allowed {
		return PlanDetail{}, d.Err()
	}

	plan, err := s.plans.GetByName(ctx, roomID, planName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PlanDetail{}, NotFoundError("plan")
		}
		return PlanDetail{}, InternalError(oops.With("operation", "get plan by name").Wrap(err))
	}

	waypoints, err := s.waypoints.ListByPlan(ctx, plan.ID)
	if err != nil {
		return PlanDetail{}, InternalError(oops.With("operation", "list waypoints").Wrap(err))
	}

	memberships, err := s.memberships.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return PlanDetail{}, InternalError(oops.With("operation", "list room members").Wrap(err))
	}
	memberLocations := make([]MemberLocation, 0, len(memberships))
	for _, m := range memberships {
		account, err := s.accounts.GetByID(ctx, m.AccountID)
		if err != nil {
			return PlanDetail{}, InternalError(oops.With("operation", "get member account").Wrap(err))
		}
		latest, err := s.locations.LatestByAccount(ctx, m.AccountID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return PlanDetail{}, InternalError(oops.With("operation", "latest location").Wrap(err))
		}
		memberLocations = append(memberLocations, MemberLocation{
			Username: account.Username,
			Location: latest, // nil when the member has no readings
		})
	}

	return PlanDetail{Plan: plan, Waypoints: waypoints, MemberLocations: memberLocations}, nil
}

// DeletePlan removes a plan by name. Its waypoints go with it.
func (s *Service) DeletePlan(ctx context.Context, req Requestor, roomID ulid.ULID, planName string) error {
	membership, err := s.roomAndMembership(ctx, req, roomID)
	if err != nil {
		return err
	}
	if d := s.roomPolicy.CanDeletePlan(membership, req.Scope); !d.Allowed {
		return d.Err()
	}

	plan, err := s.plans.GetByName(ctx, roomID, planName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError("plan")
		}
		return InternalError(oops.With("operation", "get plan by name").Wrap(err))
	}

	if err := s.plans.Delete(ctx, plan.ID); err != nil {
		return InternalError(oops.With("operation", "delete plan").Wrap(err))
	}
	return nil
}
