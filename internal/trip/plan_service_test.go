// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklog/ulid/v2"
)

func TestCreatePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("member creates plan", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")

		plan, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike", Description: "up the hill"})
		require.NoError(t, err)
		assert.Equal(t, room.Room.ID, plan.RoomID)
		assert.Equal(t, "hike", plan.Name)
	})

	t.Run("duplicate name in same room conflicts", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")
		_, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)

		_, err = env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("same name in another room is fine", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		first := env.createRoom(t, alice, "first", "pw")
		second := env.createRoom(t, alice, "second", "pw")
		_, err := env.svc.CreatePlan(ctx, alice, first.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)

		_, err = env.svc.CreatePlan(ctx, alice, second.Room.ID, CreatePlanRequest{Name: "hike"})
		assert.NoError(t, err)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		carol := env.register(t, "carol")
		room := env.createRoom(t, alice, "weekend", "roompw")

		_, err := env.svc.CreatePlan(ctx, carol, room.Room.ID, CreatePlanRequest{Name: "hike"})
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("admin with read-only scope is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")

		_, err := env.svc.CreatePlan(ctx, readOnly(alice), room.Room.ID, CreatePlanRequest{Name: "hike"})
		assert.Equal(t, KindForbidden, KindOf(err), "room authority must not override credential scope")
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")

		_, err := env.svc.CreatePlan(ctx, alice, ulid.Make(), CreatePlanRequest{Name: "hike"})
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestGetPlan(t *testing.T) {
	ctx := context.Background()

	t.Run("returns waypoints and member locations", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		bob := env.register(t, "bob")
		room := env.createRoom(t, alice, "weekend", "roompw")
		env.joinRoom(t, bob, room, "roompw")
		plan, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)
		_, err = env.svc.CreateWaypoint(ctx, alice, room.Room.ID, plan.Name, CreateWaypointRequest{Name: "summit", Latitude: 47.6, Longitude: 8.1})
		require.NoError(t, err)

		older := time.Now().Add(-time.Hour)
		_, err = env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.0, Longitude: 8.0, RecordedAt: older})
		require.NoError(t, err)
		_, err = env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.5, Longitude: 8.05})
		require.NoError(t, err)

		detail, err := env.svc.GetPlan(ctx, bob, room.Room.ID, "hike")
		require.NoError(t, err)
		assert.Equal(t, plan.ID, detail.Plan.ID)
		require.Len(t, detail.Waypoints, 1)
		require.Len(t, detail.MemberLocations, 2)

		byUser := make(map[string]*Location)
		for _, ml := range detail.MemberLocations {
			byUser[ml.Username] = ml.Location
		}
		require.NotNil(t, byUser["alice"])
		assert.Equal(t, 47.5, byUser["alice"].Latitude, "latest reading wins")
		assert.Nil(t, byUser["bob"], "members without readings appear with nil location")
	})

	t.Run("unknown plan name is not found", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")

		_, err := env.svc.GetPlan(ctx, alice, room.Room.ID, "nope")
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		carol := env.register(t, "carol")
		room := env.createRoom(t, alice, "weekend", "roompw")
		_, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)

		_, err = env.svc.GetPlan(ctx, carol, room.Room.ID, "hike")
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}

func TestDeletePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("member deletes plan and its waypoints", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")
		plan, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)
		_, err = env.svc.CreateWaypoint(ctx, alice, room.Room.ID, plan.Name, CreateWaypointRequest{Name: "summit", Latitude: 47.6, Longitude: 8.1})
		require.NoError(t, err)

		require.NoError(t, env.svc.DeletePlan(ctx, alice, room.Room.ID, "hike"))

		_, err = env.plans.Get(ctx, plan.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		remaining, err := env.waypoints.ListByPlan(ctx, plan.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining, "waypoints go with the plan")
	})

	t.Run("read-only scope is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		room := env.createRoom(t, alice, "weekend", "roompw")
		_, err := env.svc.CreatePlan(ctx, alice, room.Room.ID, CreatePlanRequest{Name: "hike"})
		require.NoError(t, err)

		err = env.svc.DeletePlan(ctx, readOnly(alice), room.Room.ID, "hike")
		assert.Equal(t, KindForbidden, KindOf(err))
	})
}
