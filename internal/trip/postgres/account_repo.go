// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

// Package postgres implements the trip repositories on PostgreSQL via pgx.
// All repositories translate pgx.ErrNoRows into trip.ErrNotFound and unique
// constraint violations into trip.ErrDuplicate, both wrapped with context.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/cryal/cryal/internal/trip"
)

// AccountRepository implements trip.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create persists a new account. Returns trip.ErrDuplicate (wrapped) when the
// username is already taken.
func (r *AccountRepository) Create(ctx context.Context, account *trip.Account) error {
	_, err := querierFromCtx(ctx, r.db).Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID.String(), account.Username, account.PasswordHash, account.CreatedAt, account.UpdatedAt)
	if isUniqueViolation(err) {
		return oops.Code("ACCOUNT_DUPLICATE").With("username", account.Username).Wrap(trip.ErrDuplicate)
	}
	if err != nil {
		return oops.With("operation", "create account").With("id", account.ID.String()).Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*trip.Account, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id.String())
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("id", id.String()).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get account").With("id", id.String()).Wrap(err)
	}
	return account, nil
}

// GetByUsername retrieves an account by username, case-insensitively.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*trip.Account, error) {
	row := querierFromCtx(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts WHERE lower(username) = lower($1)
	`, username)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("username", username).Wrap(trip.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get account by username").With("username", username).Wrap(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*trip.Account, error) {
	var account trip.Account
	var idStr string
	if err := row.Scan(&idStr, &account.Username, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	account.ID, err = parseULID(idStr, "account_id")
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Compile-time interface check.
var _ trip.AccountRepository = (*AccountRepository)(nil)
