package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repositories use
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UniqueViolation reports the constraint name when err is a unique key violation
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// toggle removes the (a, b) relationship row if present and inserts it otherwise,
// inside one transaction. insertSQL must carry ON CONFLICT DO NOTHING so a
// concurrent toggle racing on the same pair cannot produce a second row.
// It reports whether the row exists after the call.
func toggle(ctx context.Context, db DB, deleteSQL, insertSQL string, a, b int64) (bool, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tag, err := tx.Exec(ctx, deleteSQL, a, b)
	if err != nil {
		_ = tx.Rollback(ctx)
		return false, fmt.Errorf("failed to delete relationship: %w", err)
	}

	present := false
	if tag.RowsAffected() == 0 {
		if _, err := tx.Exec(ctx, insertSQL, a, b); err != nil {
			_ = tx.Rollback(ctx)
			return false, fmt.Errorf("failed to insert relationship: %w", err)
		}
		present = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return present, nil
}

func exists(ctx context.Context, db DB, query string, args ...any) (bool, error) {
	var ok bool
	if err := db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
