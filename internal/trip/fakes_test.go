// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"
)

// In-memory repositories backing the service tests. They implement the same
// sentinel contract as the postgres repositories: ErrNotFound for absent
// rows, ErrDuplicate for uniqueness violations.

type fakeAccountRepo struct {
	byID map[ulid.ULID]*Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: make(map[ulid.ULID]*Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *Account) error {
	for _, a := range r.byID {
		if strings.EqualFold(a.Username, account.Username) {
			return ErrDuplicate
		}
	}
	r.byID[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id ulid.ULID) (*Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*Account, error) {
	for _, a := range r.byID {
		if strings.EqualFold(a.Username, username) {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

type fakeRoomRepo struct {
	byID map[ulid.ULID]*Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{byID: make(map[ulid.ULID]*Room)}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *Room) error {
	r.byID[room.ID] = room
	return nil
}

func (r *fakeRoomRepo) Get(_ context.Context, id ulid.ULID) (*Room, error) {
	room, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return room, nil
}

func (r *fakeRoomRepo) List(_ context.Context) ([]*Room, error) {
	rooms := make([]*Room, 0, len(r.byID))
	for _, room := range r.byID {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID.Compare(rooms[j].ID) < 0
	})
	return rooms, nil
}

func (r *fakeRoomRepo) ListByIDs(_ context.Context, ids []ulid.ULID) ([]*Room, error) {
	rooms := make([]*Room, 0, len(ids))
	for _, id := range ids {
		if room, ok := r.byID[id]; ok {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type membershipKey struct {
	account ulid.ULID
	room    ulid.ULID
}

type fakeMembershipRepo struct {
	byKey map[membershipKey]*Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{byKey: make(map[membershipKey]*Membership)}
}

func (r *fakeMembershipRepo) Create(_ context.Context, m *Membership) error {
	key := membershipKey{account: m.AccountID, room: m.RoomID}
	if _, ok := r.byKey[key]; ok {
		return ErrDuplicate
	}
	r.byKey[key] = m
	return nil
}

func (r *fakeMembershipRepo) Get(_ context.Context, accountID, roomID ulid.ULID) (*Membership, error) {
	m, ok := r.byKey[membershipKey{account: accountID, room: roomID}]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (r *fakeMembershipRepo) ListActiveByRoom(_ context.Context, roomID ulid.ULID) ([]*Membership, error) {
	var out []*Membership
	for _, m := range r.byKey {
		if m.RoomID == roomID && m.Active {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountID.Compare(out[j].AccountID) < 0
	})
	return out, nil
}

func (r *fakeMembershipRepo) ListActiveByAccount(_ context.Context, accountID ulid.ULID) ([]*Membership, error) {
	var out []*Membership
	for _, m := range r.byKey {
		if m.AccountID == accountID && m.Active {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RoomID.Compare(out[j].RoomID) < 0
	})
	return out, nil
}

func (r *fakeMembershipRepo) Delete(_ context.Context, accountID, roomID ulid.ULID) error {
	key := membershipKey{account: accountID, room: roomID}
	if _, ok := r.byKey[key]; !ok {
		return ErrNotFound
	}
	delete(r.byKey, key)
	return nil
}

func (r *fakeMembershipRepo) ShareActiveRoom(_ context.Context, a, b ulid.ULID) (bool, error) {
	for _, ma := range r.byKey {
		if ma.AccountID != a || !ma.Active {
			continue
		}
		if mb, ok := r.byKey[membershipKey{account: b, room: ma.RoomID}]; ok && mb.Active {
			return true, nil
		}
	}
	return false, nil
}

type fakePlanRepo struct {
	byID map[ulid.ULID]*Plan

	// waypoints is consulted on Delete to emulate ON DELETE CASCADE.
	waypoints *fakeWaypointRepo
}

func newFakePlanRepo(waypoints *fakeWaypointRepo) *fakePlanRepo {
	return &fakePlanRepo{byID: make(map[ulid.ULID]*Plan), waypoints: waypoints}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *Plan) error {
	for _, p := range r.byID {
		if p.RoomID == plan.RoomID && p.Name == plan.Name {
			return ErrDuplicate
		}
	}
	r.byID[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) Get(_ context.Context, id ulid.ULID) (*Plan, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *fakePlanRepo) GetByName(_ context.Context, roomID ulid.ULID, name string) (*Plan, error) {
	for _, p := range r.byID {
		if p.RoomID == roomID && p.Name == name {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakePlanRepo) ListByRoom(_ context.Context, roomID ulid.ULID) ([]*Plan, error) {
	var out []*Plan
	for _, p := range r.byID {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.Compare(out[j].ID) < 0
	})
	return out, nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	if r.waypoints != nil {
		for wpID, wp := range r.waypoints.byID {
			if wp.PlanID == id {
				delete(r.waypoints.byID, wpID)
			}
		}
	}
	return nil
}

func (r *fakePlanRepo) Lock(_ context.Context, id ulid.ULID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	return nil
}

type fakeWaypointRepo struct {
	byID map[ulid.ULID]*Waypoint

	// seqWrites counts UpdateSeq calls so tests can assert only changed rows
	// were written.
	seqWrites int
}

func newFakeWaypointRepo() *fakeWaypointRepo {
	return &fakeWaypointRepo{byID: make(map[ulid.ULID]*Waypoint)}
}

func (r *fakeWaypointRepo) Create(_ context.Context, wp *Waypoint) error {
	r.byID[wp.ID] = wp
	return nil
}

func (r *fakeWaypointRepo) Get(_ context.Context, id ulid.ULID) (*Waypoint, error) {
	wp, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return wp, nil
}

func (r *fakeWaypointRepo) GetBySeq(_ context.Context, planID ulid.ULID, seq int) (*Waypoint, error) {
	for _, wp := range r.byID {
		if wp.PlanID == planID && wp.Seq == seq {
			return wp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeWaypointRepo) ListByPlan(_ context.Context, planID ulid.ULID) ([]*Waypoint, error) {
	var out []*Waypoint
	for _, wp := range r.byID {
		if wp.PlanID == planID {
			out = append(out, wp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeWaypointRepo) MaxSeq(_ context.Context, planID ulid.ULID) (int, error) {
	max := 0
	for _, wp := range r.byID {
		if wp.PlanID == planID && wp.Seq > max {
			max = wp.Seq
		}
	}
	return max, nil
}

func (r *fakeWaypointRepo) UpdateSeq(_ context.Context, id ulid.ULID, seq int) error {
	wp, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	wp.Seq = seq
	r.seqWrites++
	return nil
}

func (r *fakeWaypointRepo) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeLocationRepo struct {
	byAccount map[ulid.ULID][]*Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byAccount: make(map[ulid.ULID][]*Location)}
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *Location) error {
	r.byAccount[loc.AccountID] = append(r.byAccount[loc.AccountID], loc)
	return nil
}

func (r *fakeLocationRepo) ListByAccount(_ context.Context, accountID ulid.ULID) ([]*Location, error) {
	return r.byAccount[accountID], nil
}

func (r *fakeLocationRepo) LatestByAccount(_ context.Context, accountID ulid.ULID) (*Location, error) {
	readings := r.byAccount[accountID]
	if len(readings) == 0 {
		return nil, ErrNotFound
	}
	latest := readings[0]
	for _, l := range readings[1:] {
		if l.RecordedAt.After(latest.RecordedAt) {
			latest = l
		}
	}
	return latest, nil
}

// fakeTransactor runs the function directly; the in-memory repositories do
// not distinguish transactional contexts.
type fakeTransactor struct{}

func (fakeTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeHasher is a transparent PasswordHasher so tests can run without argon2
// work factors.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, encodedHash string) (bool, error) {
	return encodedHash == "hashed:"+password, nil
}

var (
	_ AccountRepository    = (*fakeAccountRepo)(nil)
	_ RoomRepository       = (*fakeRoomRepo)(nil)
	_ MembershipRepository = (*fakeMembershipRepo)(nil)
	_ PlanRepository       = (*fakePlanRepo)(nil)
	_ WaypointRepository   = (*fakeWaypointRepo)(nil)
	_ LocationRepository   = (*fakeLocationRepo)(nil)
	_ Transactor           = fakeTransactor{}
)
