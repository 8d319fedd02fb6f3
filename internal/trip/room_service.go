// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// CreateRoomRequest is the body of a room creation.
type CreateRoomRequest struct {
	Name     string `json:"room_name"`
	Password string `json:"room_password"`
}

// JoinRoomRequest is the body of a join attempt. The password is consumed by
// the policy check and never persisted.
type JoinRoomRequest struct {
	RoomID   ulid.ULID `json:"room_id"`
	Password string    `json:"room_password"`
}

// RoomList is the result of the directory listing: the rooms viewable to the
// requestor plus the requestor's own membership records.
type RoomList struct {
	Rooms       []RoomSummary `json:"rooms"`
	Memberships []*Membership `json:"memberships"`
}

// RoomMember identifies one account inside a room.
type RoomMember struct {
	AccountID ulid.ULID `json:"account_id"`
	Username  string    `json:"username"`
	Authority Authority `json:"authority"`
}

// RoomDetail is the result of fetching a single room.
type RoomDetail struct {
	Room    RoomSummary  `json:"room"`
	Members []RoomMember `json:"members"`
	Plans   []*Plan      `json:"plans"`
}

// CreateRoomResult is the outcome of creating a room: the room and the
// creator's admin membership, created atomically.
type CreateRoomResult struct {
	Room       RoomSummary `json:"room"`
	Membership *Membership `json:"membership"`
}

// ListRooms returns the rooms viewable to the requestor: the union of rooms
// with an active membership and, under public visibility, every room in the
// directory.
func (s *Service) ListRooms(ctx context.Context, req Requestor) (RoomList, error) {
	memberships, err := s.memberships.ListActiveByAccount(ctx, req.AccountID)
	if err != nil {
		return RoomList{}, InternalError(oops.With("operation", "list memberships").Wrap(err))
	}

	var rooms []*Room
	if s.roomPolicy.Visibility == VisibilityPublic {
		rooms, err = s.rooms.List(ctx)
	} else {
		ids := make([]ulid.ULID, 0, len(memberships))
		for _, m := range memberships {
			ids = append(ids, m.RoomID)
		}
		rooms, err = s.rooms.ListByIDs(ctx, ids)
	}
	if err != nil {
		return RoomList{}, InternalError(oops.With("operation", "list rooms").Wrap(err))
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		summaries = append(summaries, r.Summary())
	}
	return RoomList{Rooms: summaries, Memberships: memberships}, nil
}

// GetRoom returns a room with its members and plans.
//
// Enumeration defense: a room the requestor may not view is reported with the
// same NotFound outcome as a room that does not exist, so room IDs cannot be
// probed. This collapse is deliberate and applies to this endpoint only.
func (s *Service) GetRoom(ctx context.Context, req Requestor, roomID ulid.ULID) (RoomDetail, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RoomDetail{}, NotFoundError("room")
		}
		return RoomDetail{}, InternalError(oops.With("operation", "get room").Wrap(err))
	}

	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return RoomDetail{}, err
	}
	if d := s.roomPolicy.CanView(membership); !d.Allowed {
		return RoomDetail{}, NotFoundError("room")
	}

	memberships, err := s.memberships.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return RoomDetail{}, InternalError(oops.With("operation", "list room members").Wrap(err))
	}
	members := make([]RoomMember, 0, len(memberships))
	for _, m := range memberships {
		account, err := s.accounts.GetByID(ctx, m.AccountID)
		if err != nil {
			return RoomDetail{}, InternalError(oops.With("operation", "get member account").Wrap(err))
		}
		members = append(members, RoomMember{
			AccountID: account.ID,
			Username:  account.Username,
			Authority: m.Authority,
		})
	}

	plans, err := s.plans.ListByRoom(ctx, roomID)
	if err != nil {
		return RoomDetail{}, InternalError(oops.With("operation", "list room plans").Wrap(err))
	}

	return RoomDetail{Room: room.Summary(), Members: members, Plans: plans}, nil
}

// CreateRoom creates a room and the creator's admin membership in a single
// transaction. The room password is stored only as a hash.
func (s *Service) CreateRoom(ctx context.Context, req Requestor, body CreateRoomRequest) (CreateRoomResult, error) {
	if d := s.roomPolicy.CanCreate(req.Scope); !d.Allowed {
		return CreateRoomResult{}, d.Err()
	}
	if err := ValidateRoomName(body.Name); err != nil {
		return CreateRoomResult{}, err
	}
	if body.Password == "" {
		return CreateRoomResult{}, ValidationError("room", "room password cannot be empty")
	}

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		return CreateRoomResult{}, InternalError(oops.With("operation", "hash room password").Wrap(err))
	}
	room, err := NewRoom(body.Name, hash, req.AccountID)
	if err != nil {
		return CreateRoomResult{}, err
	}
	membership, err := NewMembership(req.AccountID, room.ID, AuthorityAdmin)
	if err != nil {
		return CreateRoomResult{}, InternalError(oops.With("operation", "new membership").Wrap(err))
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.rooms.Create(ctx, room); err != nil {
			return oops.With("operation", "create room").Wrap(err)
		}
		if err := s.memberships.Create(ctx, membership); err != nil {
			return oops.With("operation", "create admin membership").Wrap(err)
		}
		return nil
	})
	if err != nil {
		return CreateRoomResult{}, InternalError(err)
	}

	return CreateRoomResult{Room: room.Summary(), Membership: membership}, nil
}

// JoinRoom creates a member membership after the join policy accepts the
// supplied room password. The persisted membership carries no password field.
func (s *Service) JoinRoom(ctx context.Context, req Requestor, body JoinRoomRequest) (*Membership, error) {
	room, err := s.rooms.Get(ctx, body.RoomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("room")
		}
		return nil, InternalError(oops.With("operation", "get room").Wrap(err))
	}

	decision, err := s.roomPolicy.CanJoin(room, body.Password, req.Scope)
	if err != nil {
		return nil, InternalError(oops.With("operation", "verify room password").Wrap(err))
	}
	if !decision.Allowed {
		return nil, decision.Err()
	}

	membership, err := NewMembership(req.AccountID, room.ID, AuthorityMember)
	if err != nil {
		return nil, InternalError(oops.With("operation", "new membership").Wrap(err))
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ConflictError("membership", "you already joined this room")
		}
		return nil, InternalError(oops.With("operation", "create membership").Wrap(err))
	}
	return membership, nil
}

// DeleteRoom destroys a room and, through the schema, its memberships, plans,
// and waypoints. Only an active admin may delete.
func (s *Service) DeleteRoom(ctx context.Context, req Requestor, roomID ulid.ULID) error {
	_, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError("room")
		}
		return InternalError(oops.With("operation", "get room").Wrap(err))
	}

	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return err
	}
	if d := s.roomPolicy.CanDeleteRoom(membership, req.Scope); !d.Allowed {
		return d.Err()
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return InternalError(oops.With("operation", "delete room").Wrap(err))
	}
	return nil
}

// ExitRoom destroys the requestor's membership in a room. Admins cannot
// exit; they receive the distinct AdminCannotLeave outcome.
func (s *Service) ExitRoom(ctx context.Context, req Requestor, roomID ulid.ULID) error {
	membership, err := s.membershipOf(ctx, req.AccountID, roomID)
	if err != nil {
		return err
	}
	if membership == nil {
		return NotFoundError("membership")
	}
	if d := s.roomPolicy.CanLeave(membership, req.Scope); !d.Allowed {
		return d.Err()
	}

	if err := s.memberships.Delete(ctx, req.AccountID, roomID); err != nil {
		return InternalError(oops.With("operation", "delete membership").Wrap(err))
	}
	return nil
}
