// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// querier abstracts query execution over *pgxpool.Pool and pgx.Tx so that
// repository methods work both inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the subset of *pgxpool.Pool the repositories and Transactor use.
// pgxmock pools satisfy it in tests.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txKey is the context key under which Transactor stores the active pgx.Tx.
type txKey struct{}

// querierFromCtx returns the transaction stored in ctx, or the fallback pool
// when the call is not transactional.
func querierFromCtx(ctx context.Context, fallback querier) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// parseULID parses a stored ULID string, wrapping failures with the field
// name for context.
func parseULID(s, fieldName string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "parse "+fieldName).With(fieldName, s).Wrap(err)
	}
	return id, nil
}
