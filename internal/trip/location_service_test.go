// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a reading", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")

		loc, err := env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.1, Longitude: 8.2})
		require.NoError(t, err)
		assert.Equal(t, alice.AccountID, loc.AccountID)
		assert.False(t, loc.RecordedAt.IsZero(), "zero recorded_at defaults to receipt time")
	})

	t.Run("keeps a supplied recorded_at", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		loc, err := env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.1, Longitude: 8.2, RecordedAt: at})
		require.NoError(t, err)
		assert.True(t, loc.RecordedAt.Equal(at))
	})

	t.Run("read-only scope is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")

		_, err := env.svc.RecordLocation(ctx, readOnly(alice), RecordLocationRequest{Latitude: 47.1, Longitude: 8.2})
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")

		_, err := env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: -91, Longitude: 0})
		assert.Equal(t, KindValidation, KindOf(err))
	})
}

func TestListLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reads own history", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		_, err := env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.1, Longitude: 8.2})
		require.NoError(t, err)

		history, err := env.svc.ListLocations(ctx, alice, "alice")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("roommate may read", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")
		bob := env.register(t, "bob")
		room := env.createRoom(t, alice, "weekend", "roompw")
		env.joinRoom(t, bob, room, "roompw")
		_, err := env.svc.RecordLocation(ctx, alice, RecordLocationRequest{Latitude: 47.1, Longitude: 8.2})
		require.NoError(t, err)

		history, err := env.svc.ListLocations(ctx, bob, "alice")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		env.register(t, "alice")
		carol := env.register(t, "carol")

		_, err := env.svc.ListLocations(ctx, carol, "alice")
		assert.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		env := newTestEnv(t, VisibilityMembersOnly)
		alice := env.register(t, "alice")

		_, err := env.svc.ListLocations(ctx, alice, "nobody")
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}
