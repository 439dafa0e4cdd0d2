package repository

import (
	"context"
	"database/sql"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// AuditRepo appends and lists audit log entries.  Append joins the
// ambient transaction when one is carried by the context, so an audit
// line never survives a rolled-back operation.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Append inserts one audit entry.  Details must be valid JSON or empty.
func (r *AuditRepo) Append(ctx context.Context, e model.AuditLogEntry) error {
	details := e.Details
	if details == "" {
		details = "{}"
	}
	const q = `INSERT INTO audit_log (actor, action, entity_type, entity_id, details) VALUES (?, ?, ?, ?, ?)`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, e.Actor, e.Action, e.EntityType, e.EntityID, details)
	return err
}

// List returns the most recent entries, newest first, capped at limit.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, actor, action, entity_type, entity_id, details, created_at
               FROM audit_log ORDER BY id DESC LIMIT ?`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.AuditLogEntry{}
	for rows.Next() {
		var (
			e       model.AuditLogEntry
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.EntityType, &e.EntityID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Details = details.String
		result = append(result, e)
	}
	return result, rows.Err()
}
