// Package audit records moderation and administrative actions.
package audit

import (
	"context"
	"fmt"

	"blogcomments/internal/model"
	"blogcomments/internal/queue"
)

// Sink accepts audit events. Callers treat errors as best-effort: a failed
// audit write never undoes the action being audited.
type Sink interface {
	Log(ctx context.Context, event model.AuditEvent) error
}

// Store persists audit events directly.
type Store interface {
	Insert(ctx context.Context, event model.AuditEvent) error
}

// StreamSink publishes events to a Redis stream for the audit worker to persist.
type StreamSink struct {
	publisher queue.Publisher
}

func NewStreamSink(publisher queue.Publisher) *StreamSink {
	return &StreamSink{publisher: publisher}
}

func (s *StreamSink) Log(ctx context.Context, event model.AuditEvent) error {
	if _, err := s.publisher.Publish(ctx, queue.StreamAudit, event); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// StoreSink writes events synchronously, for deployments without Redis.
type StoreSink struct {
	store Store
}

func NewStoreSink(store Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Log(ctx context.Context, event model.AuditEvent) error {
	if err := s.store.Insert(ctx, event); err != nil {
		return fmt.Errorf("store audit event: %w", err)
	}
	return nil
}
