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

// MembershipRepository implements trip.MembershipRepository using PostgreSQL.
type MembershipRepository struct {
	db DB
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(db DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create stores a new membership. Returns trip.ErrDuplicate (wrapped) when
// the (account, room) pair already exists.
func (r *MembershipRepository) Create(ctx context.Context, m *trip.Membership) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO memberships (id, account_id, room_id, active, authority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID.String(), m.AccountID.String(), m.RoomID.String(), m.Active, string(m.Authority), m.CreatedAt)
	if isUniqueViolation(err) {
		return oops.Code("MEMBERSHIP_DUPLICATE").
			With("account_id", m.AccountID.String()).
			With("room_id", m.RoomID.String()).
			Wrap(trip.ErrDuplicate)
	}
	if err != nil {
		return oops.With("operation", "create membership").With("id", m.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves the membership binding an account to a room.
func (r *MembershipRepository) Get(ctx context.Context, accountID, roomID ulid.ULID) (*trip.Membership, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, account_id, room_id, active, authority, created_at
		FROM memberships WHERE account_id = $1 AND room_id = $2
	`, accountID.String(), roomID.String())
	m, err := scanMembershipRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").
			With("account_id", accountID.String()).
			With("room_id", roomID.String()).
			Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get membership").Wrap(err)
	}
	return m, nil
}

// ListActiveByRoom returns all active memberships of a room.
func (r *MembershipRepository) ListActiveByRoom(ctx context.Context, roomID ulid.ULID) ([]*trip.Membership, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, account_id, room_id, active, authority, created_at
		FROM memberships WHERE room_id = $1 AND active ORDER BY created_at
	`, roomID.String())
	if err != nil {
		return nil, oops.With("operation", "list memberships by room").With("room_id", roomID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// ListActiveByAccount returns all active memberships of an account.
func (r *MembershipRepository) ListActiveByAccount(ctx context.Context, accountID ulid.ULID) ([]*trip.Membership, error) {
	rows, err := querierFromCtx(ctx, r.db).Query(ctx, `
		SELECT id, account_id, room_id, active, authority, created_at
		FROM memberships WHERE account_id = $1 AND active ORDER BY created_at
	`, accountID.String())
	if err != nil {
		return nil, oops.With("operation", "list memberships by account").With("account_id", accountID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

// Delete destroys the membership binding an account to a room.
func (r *MembershipRepository) Delete(ctx context.Context, accountID, roomID ulid.ULID) error {
	result, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		DELETE FROM memberships WHERE account_id = $1 AND room_id = $2
	`, accountID.String(), roomID.String())
	if err != nil {
		return oops.With("operation", "delete membership").Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("MEMBERSHIP_NOT_FOUND").
			With("account_id", accountID.String()).
			With("room_id", roomID.String()).
			Wrap(trip.ErrNotFound)
	}
	return nil
}

// ShareActiveRoom reports whether two accounts hold active memberships in at
// least one common room.
func (r *MembershipRepository) ShareActiveRoom(ctx context.Context, a, b ulid.ULID) (bool, error) {
	var shared bool
	err := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships ma
			JOIN memberships mb ON ma.room_id = mb.room_id
			WHERE ma.account_id = $1 AND ma.active
			  AND mb.account_id = $2 AND mb.active
		)
	`, a.String(), b.String()).Scan(&shared)
	if err != nil {
		return false, oops.With("operation", "share active room").Wrap(err)
	}
	return shared, nil
}

func scanMembershipRow(row pgx.Row) (*trip.Membership, error) {
	var m trip.Membership
	var idStr, accountStr, roomStr, authority string
	if err := row.Scan(&idStr, &accountStr, &roomStr, &m.Active, &authority, &m.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if m.ID, err = parseULID(idStr, "membership_id"); err != nil {
		return nil, err
	}
	if m.AccountID, err = parseULID(accountStr, "account_id"); err != nil {
		return nil, err
	}
	if m.RoomID, err = parseULID(roomStr, "room_id"); err != nil {
		return nil, err
	}
	m.Authority = trip.Authority(authority)
	return &m, nil
}

func scanMemberships(rows pgx.Rows) ([]*trip.Membership, error) {
	memberships := make([]*trip.Membership, 0)
	for rows.Next() {
		m, err := scanMembershipRow(rows)
		if err != nil {
			return nil, oops.With("operation", "scan membership").Wrap(err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate memberships").Wrap(err)
	}
	return memberships, nil
}

// Compile-time interface check.
var _ trip.MembershipRepository = (*MembershipRepository)(nil)
