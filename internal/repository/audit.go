package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogcomments/internal/model"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, e model.AuditEvent) error {
	query := r.db.Rebind(`
		INSERT INTO audit_logs (id, kind, detail, create_time_utc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	if _, err := r.db.ExecContext(ctx, query, e.ID.String(), string(e.Kind), e.Detail, e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns the newest events first.
func (r *auditRepository) List(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.Rebind(`
		SELECT id, kind, detail, create_time_utc
		FROM audit_logs
		ORDER BY create_time_utc DESC, id DESC
		LIMIT ?
	`)

	events := []model.AuditEvent{}
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return events, nil
}
