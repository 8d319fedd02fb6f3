// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package trip

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryal/cryal/internal/auth"
)

type testEnv struct {
	svc         *Service
	accounts    *fakeAccountRepo
	rooms       *fakeRoomRepo
	memberships *fakeMembershipRepo
	plans       *fakePlanRepo
	waypoints   *fakeWaypointRepo
	locations   *fakeLocationRepo
	tokens      *auth.Codec
	signer      *auth.Signer
}

func newTestEnv(t *testing.T, visibility Visibility) *testEnv {
	t.Helper()

	tokens, err := auth.NewCodec(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	signer, err := auth.NewSigner(bytes.Repeat([]byte{0x17}, 32))
	require.NoError(t, err)

	waypoints := newFakeWaypointRepo()
	env := &testEnv{
		accounts:    newFakeAccountRepo(),
		rooms:       newFakeRoomRepo(),
		memberships: newFakeMembershipRepo(),
		plans:       newFakePlanRepo(waypoints),
		waypoints:   waypoints,
		locations:   newFakeLocationRepo(),
		tokens:      tokens,
		signer:      signer,
	}
	env.svc = NewService(ServiceConfig{
		Accounts:    env.accounts,
		Rooms:       env.rooms,
		Memberships: env.memberships,
		Plans:       env.plans,
		Waypoints:   env.waypoints,
		Locations:   env.locations,
		Tx:          fakeTransactor{},
		Hasher:      fakeHasher{},
		Tokens:      tokens,
		Signer:      signer,
		Visibility:  visibility,
	})
	return env
}

// withTransactor rebuilds the service over the same repositories with a
// different Transactor, so tests can interleave work with the transaction.
func (e *testEnv) withTransactor(tx Transactor) *Service {
	return NewService(ServiceConfig{
		Accounts:    e.accounts,
		Rooms:       e.rooms,
		Memberships: e.memberships,
		Plans:       e.plans,
		Waypoints:   e.waypoints,
		Locations:   e.locations,
		Tx:          tx,
		Hasher:      fakeHasher{},
		Tokens:      e.tokens,
		Signer:      e.signer,
	})
}

// register creates an account and returns a full-scope requestor for it.
func (e *testEnv) register(t *testing.T, username string) Requestor {
	t.Helper()
	profile, err := e.svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Password: "pw-" + username,
	})
	require.NoError(t, err)
	return Requestor{AccountID: profile.ID, Scope: auth.ScopeFull}
}

// createRoom creates a room as the given requestor and returns its id.
func (e *testEnv) createRoom(t *testing.T, req Requestor, name, password string) CreateRoomResult {
	t.Helper()
	result, err := e.svc.CreateRoom(context.Background(), req, CreateRoomRequest{
		Name:     name,
		Password: password,
	})
	require.NoError(t, err)
	return result
}

// joinRoom joins the given requestor to a room.
func (e *testEnv) joinRoom(t *testing.T, req Requestor, result CreateRoomResult, password string) {
	t.Helper()
	_, err := e.svc.JoinRoom(context.Background(), req, JoinRoomRequest{
		RoomID:   result.Room.ID,
		Password: password,
	})
	require.NoError(t, err)
}

func readOnly(req Requestor) Requestor {
	return Requestor{AccountID: req.AccountID, Scope: auth.ScopeReadOnly}
}
