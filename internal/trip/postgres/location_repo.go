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

// LocationRepository implements trip.LocationRepository using PostgreSQL.
// The table is append-only; there are no update or delete statements.
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create appends a location reading.
func (r *LocationRepository) Create(ctx context.Context, loc *trip.Location) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO locations (id, account_id, latitude, longitude, recorded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, loc.ID.String(), loc.AccountID.String(), loc.Latitude, loc.Longitude, loc.RecordedAt, loc.CreatedAt)
	if err != nil {
		return oops.With("operation", "create location").With("id", loc.ID.String()).Wrap(err)
	}
	return nil
}

// ListByAccount returns an account's readings, oldest first.
func (r *LocationRepository) ListByAccount(ctx context.Context, accountID ulid.ULID) ([]*trip.Location, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, account_id, latitude, longitude, recorded_at, created_at
		FROM locations WHERE account_id = $1 ORDER BY recorded_at
	`, accountID.String())
	if err != nil {
		return nil, oops.With("operation", "list locations").With("account_id", accountID.String()).Wrap(err)
	}
	defer rows.Close()

	locations := make([]*trip.Location, 0)
	for rows.Next() {
		loc, err := scanLocationRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan location").Wrap(err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate locations").Wrap(err)
	}
	return locations, nil
}

// LatestByAccount returns the reading with the latest recorded_at, or
// trip.ErrNotFound (wrapped) when the account has none.
func (r *LocationRepository) LatestByAccount(ctx context.Context, accountID ulid.ULID) (*trip.Location, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, account_id, latitude, longitude, recorded_at, created_at
		FROM locations WHERE account_id = $1 ORDER BY recorded_at DESC LIMIT 1
	`, accountID.String())
	loc, err := scanLocationRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("LOCATION_NOT_FOUND").With("account_id", accountID.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "latest location").With("account_id", accountID.String()).Wrap(err)
	}
	return loc, nil
}

func scanLocationRow(row pgx.Row) (*trip.Location, error) {
	var loc trip.Location
	var idStr, accountStr string
	if err := row.Scan(&idStr, &accountStr, &loc.Latitude, &loc.Longitude, &loc.RecordedAt, &loc.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if loc.ID, err = parseULID(idStr, "location_id"); err != nil {
		return nil, err
	}
	if loc.AccountID, err = parseULID(accountStr, "account_id"); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Compile-time interface check.
var _ trip.LocationRepository = (*LocationRepository)(nil)
