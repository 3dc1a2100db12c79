// Package repository provides generic SQL execution helpers shared by
// domain repositories.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JaimeStill/flowbit/pkg/database"
)

// Scanner abstracts sql.Row and sql.Rows for generic row mapping.
type Scanner interface {
	Scan(dest ...any) error
}

// RowMapper converts a scanned row into a typed value.
type RowMapper[T any] func(Scanner) (T, error)

// QueryOne executes a query expected to return exactly one row.
func QueryOne[T any](ctx context.Context, db *sql.DB, query string, mapper RowMapper[T], args ...any) (T, error) {
	var zero T

	row := db.QueryRowContext(ctx, query, args...)
	result, err := mapper(row)
	if err != nil {
		return zero, database.MapError(err)
	}

	return result, nil
}

// QueryMany executes a query returning any number of rows.
func QueryMany[T any](ctx context.Context, db *sql.DB, query string, mapper RowMapper[T], args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		result, err := mapper(rows)
		if err != nil {
			return nil, database.MapError(err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, database.MapError(err)
	}

	return results, nil
}

// Exec executes a statement and returns the affected row count.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, database.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, database.MapError(err)
	}

	return affected, nil
}

// ExecExpectOne executes a statement and fails unless exactly one row
// was affected.
func ExecExpectOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	affected, err := Exec(ctx, db, query, args...)
	if err != nil {
		return err
	}

	if affected == 0 {
		return database.ErrNotFound
	}
	if affected > 1 {
		return fmt.Errorf("expected 1 affected row, got %d", affected)
	}

	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return database.MapError(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
