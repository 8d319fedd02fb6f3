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

// WaypointRepository implements trip.WaypointRepository using PostgreSQL.
type WaypointRepository struct {
	db DB
}

// NewWaypointRepository creates a new WaypointRepository.
func NewWaypointRepository(db DB) *WaypointRepository {
	return &WaypointRepository{db: db}
}

// Create persists a new waypoint.
func (r *WaypointRepository) Create(ctx context.Context, wp *trip.Waypoint) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO waypoints (id, plan_id, seq, name, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, wp.ID.String(), wp.PlanID.String(), wp.Seq, wp.Name, wp.Latitude, wp.Longitude, wp.CreatedAt)
	if err != nil {
		return oops.With("operation", "create waypoint").With("id", wp.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a waypoint by ID.
func (r *WaypointRepository) Get(ctx context.Context, id ulid.ULID) (*trip.Waypoint, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, plan_id, seq, name, latitude, longitude, created_at
		FROM waypoints WHERE id = $1
	`, id.String())
	wp, err := scanWaypointRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WAYPOINT_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get waypoint").With("id", id.String()).Wrap(err)
	}
	return wp, nil
}

// GetBySeq retrieves a waypoint by plan and sequence number.
func (r *WaypointRepository) GetBySeq(ctx context.Context, planID ulid.ULID, seq int) (*trip.Waypoint, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, plan_id, seq, name, latitude, longitude, created_at
		FROM waypoints WHERE plan_id = $1 AND seq = $2
	`, planID.String(), seq)
	wp, err := scanWaypointRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WAYPOINT_NOT_FOUND").
			With("plan_id", planID.String()).
			With("seq", seq).
			Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get waypoint by seq").With("seq", seq).Wrap(err)
	}
	return wp, nil
}

// ListByPlan returns all waypoints of a plan ordered by sequence number.
func (r *WaypointRepository) ListByPlan(ctx context.Context, planID ulid.ULID) ([]*trip.Waypoint, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, plan_id, seq, name, latitude, longitude, created_at
		FROM waypoints WHERE plan_id = $1 ORDER BY seq
	`, planID.String())
	if err != nil {
		return nil, oops.With("operation", "list waypoints").With("plan_id", planID.String()).Wrap(err)
	}
	defer rows.Close()

	waypoints := make([]*trip.Waypoint, 0)
	for rows.Next() {
		wp, err := scanWaypointRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan waypoint").Wrap(err)
		}
		waypoints = append(waypoints, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate waypoints").Wrap(err)
	}
	return waypoints, nil
}

// MaxSeq returns the highest sequence number in a plan, or 0 for an empty
// plan. Callers must hold the plan lock when allocating from the result.
func (r *WaypointRepository) MaxSeq(ctx context.Context, planID ulid.ULID) (int, error) {
	var max int
	err := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM waypoints WHERE plan_id = $1
	`, planID.String()).Scan(&max)
	if err != nil {
		return 0, oops.With("operation", "max waypoint seq").With("plan_id", planID.String()).Wrap(err)
	}
	return max, nil
}

// UpdateSeq rewrites the sequence number of a waypoint.
func (r *WaypointRepository) UpdateSeq(ctx context.Context, id ulid.ULID, seq int) error {
	result, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		UPDATE waypoints SET seq = $2 WHERE id = $1
	`, id.String(), seq)
	if err != nil {
		return oops.With("operation", "update waypoint seq").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WAYPOINT_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	return nil
}

// Delete removes a waypoint by ID.
func (r *WaypointRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM waypoints WHERE id = $1`, id.String())
	if err != nil {
		return oops.With("operation", "delete waypoint").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WAYPOINT_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	return nil
}

func scanWaypointRow(row pgx.Row) (*trip.Waypoint, error) {
	var wp trip.Waypoint
	var idStr, planStr string
	if err := row.Scan(&idStr, &planStr, &wp.Seq, &wp.Name, &wp.Latitude, &wp.Longitude, &wp.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if wp.ID, err = parseULID(idStr, "waypoint_id"); err != nil {
		return nil, err
	}
	if wp.PlanID, err = parseULID(planStr, "plan_id"); err != nil {
		return nil, err
	}
	return &wp, nil
}

// Compile-time interface check.
var _ trip.WaypointRepository = (*WaypointRepository)(nil)
