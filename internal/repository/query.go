package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogcomments/internal/spec"
)

// selectSpec renders s onto base, expands IN (?) lists and rebinds
// placeholders for the connected driver.
func selectSpec(ctx context.Context, db *sqlx.DB, dest interface{}, base string, s spec.Clauses) error {
	query, args := spec.SQL(base, s)
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("expand query: %w", err)
	}
	return db.SelectContext(ctx, dest, db.Rebind(query), args...)
}

// execIn runs a statement with IN (?) expansion.
func execIn(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return 0, fmt.Errorf("expand query: %w", err)
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
