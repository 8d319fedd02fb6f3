// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

// Package trip implements the Cryal core: the trip-planning entities, the
// policy engine deciding who may act on them, and the service operations
// that sequence existence checks, policy checks, and mutations.
package trip

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/cryal/cryal/internal/auth"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	Accounts    AccountRepository
	Rooms       RoomRepository
	Memberships MembershipRepository
	Plans       PlanRepository
	Waypoints   WaypointRepository
	Locations   LocationRepository
	Tx          Transactor
	Hasher      auth.PasswordHasher
	Tokens      *auth.Codec
	Signer      *auth.Signer
	Visibility  Visibility // zero value defaults to VisibilityMembersOnly
}

// Service exposes one method per use case. Every operation is a short
// pipeline: resolve the addressed entities (NotFound if absent), resolve the
// requestor's membership, apply the matching policy decision, then execute
// the mutation — multi-step mutations inside a single transaction.
type Service struct {
	accounts    AccountRepository
	rooms       RoomRepository
	memberships MembershipRepository
	plans       PlanRepository
	waypoints   WaypointRepository
	locations   LocationRepository
	tx          Transactor
	hasher      auth.PasswordHasher
	tokens      *auth.Codec
	signer      *auth.Signer

	roomPolicy     RoomPolicy
	accountPolicy  AccountPolicy
	locationPolicy LocationPolicy
}

// NewService creates a Service from its configuration.
func NewService(cfg ServiceConfig) *Service {
	visibility := cfg.Visibility
	if visibility == "" {
		visibility = VisibilityMembersOnly
	}
	return &Service{
		accounts:    cfg.Accounts,
		rooms:       cfg.Rooms,
		memberships: cfg.Memberships,
		plans:       cfg.Plans,
		waypoints:   cfg.Waypoints,
		locations:   cfg.Locations,
		tx:          cfg.Tx,
		hasher:      cfg.Hasher,
		tokens:      cfg.Tokens,
		signer:      cfg.Signer,
		roomPolicy:  RoomPolicy{Visibility: visibility, Passwords: cfg.Hasher},
	}
}

// membershipOf resolves the requestor's membership in a room. A missing
// membership is returned as (nil, nil); policies treat nil as "no
// relationship".
func (s *Service) membershipOf(ctx context.Context, accountID, roomID ulid.ULID) (*Membership, error) {
	m, err := s.memberships.Get(ctx, accountID, roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, InternalError(oops.With("operation", "get membership").Wrap(err))
	}
	return m, nil
}
