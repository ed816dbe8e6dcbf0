package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"blogcomments/internal/audit"
	"blogcomments/internal/model"
)

// Handler persists audit events read from the queue.
type Handler struct {
	store audit.Store
}

// NewHandler creates a new event handler.
func NewHandler(store audit.Store) *Handler {
	return &Handler{store: store}
}

// HandleEvent validates the event kind and writes it to the audit store.
// Inserts are idempotent, so redelivered events are safe.
func (h *Handler) HandleEvent(ctx context.Context, event model.AuditEvent) error {
	startTime := time.Now()

	switch event.Kind {
	case model.AuditCommentCreated,
		model.AuditCommentApprovalToggled,
		model.AuditCommentDeleted,
		model.AuditCommentReplied:
	default:
		log.Printf("[Worker] Unknown event kind: %s", event.Kind)
		return fmt.Errorf("unknown event kind: %s", event.Kind)
	}

	if err := h.store.Insert(ctx, event); err != nil {
		log.Printf("[Worker] HandleEvent FAILED: kind=%s id=%s duration=%v err=%v",
			event.Kind, event.ID, time.Since(startTime), err)
		return fmt.Errorf("persist audit event: %w", err)
	}

	log.Printf("[Worker] HandleEvent OK: kind=%s id=%s duration=%v", event.Kind, event.ID, time.Since(startTime))
	return nil
}
