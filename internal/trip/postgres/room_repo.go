// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/cryal/cryal/internal/trip"
)

// RoomRepository implements trip.RoomRepository using PostgreSQL.
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create persists a new room.
func (r *RoomRepository) Create(ctx context.Context, room *trip.Room) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO rooms (id, name, password_hash, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, room.ID.String(), room.Name, room.PasswordHash, room.CreatedBy.String(), room.CreatedAt)
	if err != nil {
		return oops.With("operation", "create room").With("id", room.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a room by ID.
func (r *RoomRepository) Get(ctx context.Context, id ulid.ULID) (*trip.Room, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, name, password_hash, created_by, created_at
		FROM rooms WHERE id = $1
	`, id.String())
	room, err := scanRoomRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROOM_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get room").With("id", id.String()).Wrap(err)
	}
	return room, nil
}

// List returns every room, newest first.
func (r *RoomRepository) List(ctx context.Context) ([]*trip.Room, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, name, password_hash, created_by, created_at
		FROM rooms ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, oops.With("operation", "list rooms").Wrap(err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// ListByIDs returns the rooms with the given IDs, newest first.
func (r *RoomRepository) ListByIDs(ctx context.Context, ids []ulid.ULID) ([]*trip.Room, error) {
	if len(ids) == 0 {
		return []*trip.Room{}, nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, name, password_hash, created_by, created_at
		FROM rooms WHERE id = ANY($1) ORDER BY created_at DESC
	`, strIDs)
	if err != nil {
		return nil, oops.With("operation", "list rooms by ids").Wrap(err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// Delete removes a room. Memberships, plans, and waypoints under it are
// removed by ON DELETE CASCADE.
func (r *RoomRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id.String())
	if err != nil {
		return oops.With("operation", "delete room").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ROOM_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	return nil
}

func scanRoomRow(row pgx.Row) (*trip.Room, error) {
	var room trip.Room
	var idStr, createdByStr string
	if err := row.Scan(&idStr, &room.Name, &room.PasswordHash, &createdByStr, &room.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if room.ID, err = parseULID(idStr, "room_id"); err != nil {
		return nil, err
	}
	if room.CreatedBy, err = parseULID(createdByStr, "created_by"); err != nil {
		return nil, err
	}
	return &room, nil
}

func scanRooms(rows pgx.Rows) ([]*trip.Room, error) {
	rooms := make([]*trip.Room, 0)
	for rows.Next() {
		room, err := scanRoomRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan room").Wrap(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate rooms").Wrap(err)
	}
	return rooms, nil
}

// Compile-time interface check.
var _ trip.RoomRepository = (*RoomRepository)(nil)
