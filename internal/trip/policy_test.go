// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklog/ulid/v2"

	"github.com/cryal/cryal/internal/auth"
)

func membership(authority Authority, active bool) *Membership {
	m, err := NewMembership(ulid.Make(), ulid.Make(), authority)
	if err != nil {
		panic(err)
	}
	m.Active = active
	return m
}

func TestRoomPolicyCanView(t *testing.T) {
	tests := []struct {
		name       string
		visibility Visibility
		m          *Membership
		want       bool
	}{
		{"active member under members_only", VisibilityMembersOnly, membership(AuthorityMember, true), true},
		{"no membership under members_only", VisibilityMembersOnly, nil, false},
		{"inactive membership under members_only", VisibilityMembersOnly, membership(AuthorityMember, false), false},
		{"no membership under public", VisibilityPublic, nil, true},
		{"admin under members_only", VisibilityMembersOnly, membership(AuthorityAdmin, true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := RoomPolicy{Visibility: tt.visibility, Passwords: fakeHasher{}}
			d := p.CanView(tt.m)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.Equal(t, KindForbidden, KindOf(d.Err()))
			}
		})
	}
}

func TestRoomPolicyCanJoin(t *testing.T) {
	p := RoomPolicy{Visibility: VisibilityMembersOnly, Passwords: fakeHasher{}}
	room := &Room{ID: ulid.Make(), Name: "weekend", PasswordHash: "hashed:roompw"}

	t.Run("correct password with full scope", func(t *testing.T) {
		d, err := p.CanJoin(room, "roompw", auth.ScopeFull)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("wrong password", func(t *testing.T) {
		d, err := p.CanJoin(room, "wrong", auth.ScopeFull)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, KindOf(d.Err()))
	})

	t.Run("read-only scope denied before password check", func(t *testing.T) {
		d, err := p.CanJoin(room, "roompw", auth.ScopeReadOnly)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})
}

func TestRoomPolicyCanLeave(t *testing.T) {
	p := RoomPolicy{Visibility: VisibilityMembersOnly, Passwords: fakeHasher{}}

	t.Run("member may leave", func(t *testing.T) {
		d := p.CanLeave(membership(AuthorityMember, true), auth.ScopeFull)
		assert.True(t, d.Allowed)
	})

	t.Run("admin denial is its own kind", func(t *testing.T) {
		d := p.CanLeave(membership(AuthorityAdmin, true), auth.ScopeFull)
		require.False(t, d.Allowed)
		assert.Equal(t, KindAdminCannotLeave, KindOf(d.Err()))
	})

	t.Run("nil membership is plain forbidden", func(t *testing.T) {
		d := p.CanLeave(nil, auth.ScopeFull)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, KindOf(d.Err()))
	})

	t.Run("read-only member denied", func(t *testing.T) {
		d := p.CanLeave(membership(AuthorityMember, true), auth.ScopeReadOnly)
		assert.False(t, d.Allowed)
	})
}

func TestRoomPolicyScopeGatesMutations(t *testing.T) {
	// Every mutating check denies a read-only scope even for an active admin.
	p := RoomPolicy{Visibility: VisibilityMembersOnly, Passwords: fakeHasher{}}
	admin := membership(AuthorityAdmin, true)

	checks := map[string]Decision{
		"create room":     p.CanCreate(auth.ScopeReadOnly),
		"delete room":     p.CanDeleteRoom(admin, auth.ScopeReadOnly),
		"create plan":     p.CanCreatePlan(admin, auth.ScopeReadOnly),
		"delete plan":     p.CanDeletePlan(admin, auth.ScopeReadOnly),
		"create waypoint": p.CanCreateWaypoint(admin, auth.ScopeReadOnly),
		"delete waypoint": p.CanDeleteWaypoint(admin, auth.ScopeReadOnly),
	}
	for name, d := range checks {
		assert.False(t, d.Allowed, name)
		assert.Equal(t, KindForbidden, KindOf(d.Err()), name)
	}

	// Reads stay open to read-only scopes.
	assert.True(t, p.CanViewPlans(admin, auth.ScopeReadOnly).Allowed)
	assert.True(t, p.CanViewWaypoint(admin, auth.ScopeReadOnly).Allowed)
}

func TestAccountPolicyCanView(t *testing.T) {
	target := &Account{ID: ulid.Make(), Username: "bob"}

	t.Run("self", func(t *testing.T) {
		d := AccountPolicy{}.CanView(target.ID, target, false)
		assert.True(t, d.Allowed)
	})

	t.Run("shared room", func(t *testing.T) {
		d := AccountPolicy{}.CanView(ulid.Make(), target, true)
		assert.True(t, d.Allowed)
	})

	t.Run("stranger", func(t *testing.T) {
		d := AccountPolicy{}.CanView(ulid.Make(), target, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, KindOf(d.Err()))
	})
}

func TestLocationPolicyCanView(t *testing.T) {
	owner := ulid.Make()

	t.Run("owner", func(t *testing.T) {
		d := LocationPolicy{}.CanView(owner, owner, false, auth.ScopeReadOnly)
		assert.True(t, d.Allowed)
	})

	t.Run("roommate", func(t *testing.T) {
		d := LocationPolicy{}.CanView(ulid.Make(), owner, true, auth.ScopeFull)
		assert.True(t, d.Allowed)
	})

	t.Run("stranger", func(t *testing.T) {
		d := LocationPolicy{}.CanView(ulid.Make(), owner, false, auth.ScopeFull)
		assert.False(t, d.Allowed)
	})
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, allow().Err())

	denied := deny(ForbiddenError("room", "nope"))
	err := denied.Err()
	require.Error(t, err)
	assert.Equal(t, "nope", err.Error())
}
