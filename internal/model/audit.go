package model

import "time"

// AuditLogEntry records one back-office mutation: who did what to which
// entity.  Details holds a free-form JSON object with the operation's
// parameters.  Entries are append-only.
type AuditLogEntry struct {
	ID         uint64    // audit_log.id
	Actor      string    // audit_log.actor (staff email or "system")
	Action     string    // audit_log.action (e.g. "booking.approve")
	EntityType string    // audit_log.entity_type (e.g. "booking")
	EntityID   uint64    // audit_log.entity_id
	Details    string    // audit_log.details (JSON)
	CreatedAt  time.Time // audit_log.created_at
}
