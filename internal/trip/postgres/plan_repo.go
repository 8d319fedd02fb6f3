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

// PlanRepository implements trip.PlanRepository using PostgreSQL.
type PlanRepository struct {
	db DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create persists a new plan. Returns trip.ErrDuplicate (wrapped) when the
// room already has a plan with the same name.
func (r *PlanRepository) Create(ctx context.Context, plan *trip.Plan) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO plans (id, room_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, plan.ID.String(), plan.RoomID.String(), plan.Name, plan.Description, plan.CreatedAt)
	if isUniqueViolation(err) {
		return oops.Code("PLAN_DUPLICATE").
			With("room_id", plan.RoomID.String()).
			With("name", plan.Name).
			Wrap(trip.ErrDuplicate)
	}
	if err != nil {
		return oops.With("operation", "create plan").With("id", plan.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a plan by ID.
func (r *PlanRepository) Get(ctx context.Context, id ulid.ULID) (*trip.Plan, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, room_id, name, description, created_at
		FROM plans WHERE id = $1
	`, id.String())
	plan, err := scanPlanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAN_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get plan").With("id", id.String()).Wrap(err)
	}
	return plan, nil
}

// GetByName retrieves a plan by room and name.
func (r *PlanRepository) GetByName(ctx context.Context, roomID ulid.ULID, name string) (*trip.Plan, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, room_id, name, description, created_at
		FROM plans WHERE room_id = $1 AND name = $2
	`, roomID.String(), name)
	plan, err := scanPlanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAN_NOT_FOUND").
			With("room_id", roomID.String()).
			With("name", name).
			Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get plan by name").With("name", name).Wrap(err)
	}
	return plan, nil
}

// ListByRoom returns all plans of a room, newest first.
func (r *PlanRepository) ListByRoom(ctx context.Context, roomID ulid.ULID) ([]*trip.Plan, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, room_id, name, description, created_at
		FROM plans WHERE room_id = $1 ORDER BY created_at DESC
	`, roomID.String())
	if err != nil {
		return nil, oops.With("operation", "list plans").With("room_id", roomID.String()).Wrap(err)
	}
	defer rows.Close()

	plans := make([]*trip.Plan, 0)
	for rows.Next() {
		plan, err := scanPlanRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan plan").Wrap(err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate plans").Wrap(err)
	}
	return plans, nil
}

// Delete removes a plan. Its waypoints are removed by ON DELETE CASCADE.
func (r *PlanRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM plans WHERE id = $1`, id.String())
	if err != nil {
		return oops.With("operation", "delete plan").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PLAN_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	return nil
}

// Lock takes a row lock on the plan for the duration of the surrounding
// transaction. Waypoint sequence allocation and renumbering serialize on it.
func (r *PlanRepository) Lock(ctx context.Context, id ulid.ULID) error {
	var locked string
	err := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id FROM plans WHERE id = $1 FOR UPDATE
	`, id.String()).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("PLAN_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return oops.With("operation", "lock plan").With("id", id.String()).Wrap(err)
	}
	return nil
}

func scanPlanRow(row pgx.Row) (*trip.Plan, error) {
	var plan trip.Plan
	var idStr, roomStr string
	if err := row.Scan(&idStr, &roomStr, &plan.Name, &plan.Description, &plan.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if plan.ID, err = parseULID(idStr, "plan_id"); err != nil {
		return nil, err
	}
	if plan.RoomID, err = parseULID(roomStr, "room_id"); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Compile-time interface check.
var _ trip.PlanRepository = (*PlanRepository)(nil)
