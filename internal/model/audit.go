package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventKind names an administrative or moderation action.
type AuditEventKind string

const (
	AuditCommentCreated         AuditEventKind = "comment_created"
	AuditCommentApprovalToggled AuditEventKind = "comment_approval_toggled"
	AuditCommentDeleted         AuditEventKind = "comment_deleted"
	AuditCommentReplied         AuditEventKind = "comment_replied"
)

// AuditEvent is a single audit record.
type AuditEvent struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Kind      AuditEventKind `db:"kind" json:"kind"`
	Detail    string         `db:"detail" json:"detail"`
	CreatedAt time.Time      `db:"create_time_utc" json:"create_time_utc"`
}

// NewAuditEvent stamps a new audit event with an id and the current UTC time.
func NewAuditEvent(kind AuditEventKind, detail string) AuditEvent {
	return AuditEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
}
