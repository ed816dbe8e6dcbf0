package audit

import (
	"context"
	"errors"
	"testing"

	"blogcomments/internal/model"
	"blogcomments/internal/queue"
)

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event model.AuditEvent) (string, error)
	streams   []string
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event model.AuditEvent) (string, error) {
	m.streams = append(m.streams, stream)
	return m.publishFn(ctx, stream, event)
}

type mockStore struct {
	events []model.AuditEvent
	err    error
}

func (m *mockStore) Insert(ctx context.Context, event model.AuditEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func TestStreamSink_PublishesToAuditStream(t *testing.T) {
	pub := &mockPublisher{publishFn: func(ctx context.Context, stream string, event model.AuditEvent) (string, error) {
		return "1-0", nil
	}}
	sink := NewStreamSink(pub)

	if err := sink.Log(context.Background(), model.NewAuditEvent(model.AuditCommentCreated, "x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.streams) != 1 || pub.streams[0] != queue.StreamAudit {
		t.Errorf("published to %v, want [%s]", pub.streams, queue.StreamAudit)
	}
}

func TestStreamSink_WrapsPublishError(t *testing.T) {
	pubErr := errors.New("xadd failed")
	sink := NewStreamSink(&mockPublisher{publishFn: func(ctx context.Context, stream string, event model.AuditEvent) (string, error) {
		return "", pubErr
	}})

	err := sink.Log(context.Background(), model.NewAuditEvent(model.AuditCommentCreated, "x"))
	if !errors.Is(err, pubErr) {
		t.Errorf("error = %v, want wrapped %v", err, pubErr)
	}
}

func TestStoreSink(t *testing.T) {
	store := &mockStore{}
	sink := NewStoreSink(store)
	event := model.NewAuditEvent(model.AuditCommentReplied, "reply")

	if err := sink.Log(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.events) != 1 || store.events[0].ID != event.ID {
		t.Errorf("stored %v, want the logged event", store.events)
	}

	store.err = errors.New("disk full")
	if err := sink.Log(context.Background(), event); !errors.Is(err, store.err) {
		t.Errorf("error = %v, want wrapped %v", err, store.err)
	}
}
