package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blogcomments/internal/model"
	"blogcomments/internal/queue"
	"blogcomments/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// MockConsumer serves queued messages and records acknowledgements.
type MockConsumer struct {
	mu      sync.Mutex
	pending []queue.Message
	fresh   []queue.Message
	acked   []string
	groups  int
	readErr error
}

func (m *MockConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups++
	return nil
}

func (m *MockConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	m.mu.Lock()
	if m.readErr != nil {
		err := m.readErr
		m.readErr = nil
		m.mu.Unlock()
		return nil, err
	}
	if len(m.fresh) > 0 {
		batch := m.fresh
		m.fresh = nil
		m.mu.Unlock()
		return batch, nil
	}
	m.mu.Unlock()

	// Simulate XREADGROUP blocking until timeout or shutdown.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(block):
		return nil, nil
	}
}

func (m *MockConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := m.pending
	m.pending = nil
	return batch, nil
}

func (m *MockConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, messageIDs...)
	return nil
}

func (m *MockConsumer) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

// MockStore is an in-memory audit store.
type MockStore struct {
	mu     sync.Mutex
	events map[string]model.AuditEvent
	err    error
}

func NewMockStore() *MockStore {
	return &MockStore{events: make(map[string]model.AuditEvent)}
}

func (m *MockStore) Insert(ctx context.Context, event model.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events[event.ID.String()] = event
	return nil
}

func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// =============================================================================
// Test Helpers
// =============================================================================

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func message(id string, kind model.AuditEventKind) queue.Message {
	return queue.Message{ID: id, Event: model.NewAuditEvent(kind, "detail "+id)}
}

// =============================================================================
// Handler Tests
// =============================================================================

func TestHandler_PersistsKnownKinds(t *testing.T) {
	store := NewMockStore()
	h := worker.NewHandler(store)

	for _, kind := range []model.AuditEventKind{
		model.AuditCommentCreated,
		model.AuditCommentApprovalToggled,
		model.AuditCommentDeleted,
		model.AuditCommentReplied,
	} {
		if err := h.HandleEvent(context.Background(), model.NewAuditEvent(kind, "x")); err != nil {
			t.Errorf("HandleEvent(%s) failed: %v", kind, err)
		}
	}
	if store.Len() != 4 {
		t.Errorf("store has %d events, want 4", store.Len())
	}
}

func TestHandler_RejectsUnknownKind(t *testing.T) {
	store := NewMockStore()
	h := worker.NewHandler(store)

	if err := h.HandleEvent(context.Background(), model.NewAuditEvent("post_liked", "x")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if store.Len() != 0 {
		t.Error("unknown event should not be stored")
	}
}

func TestHandler_WrapsStoreError(t *testing.T) {
	store := NewMockStore()
	store.err = errors.New("db down")
	h := worker.NewHandler(store)

	err := h.HandleEvent(context.Background(), model.NewAuditEvent(model.AuditCommentCreated, "x"))
	if !errors.Is(err, store.err) {
		t.Errorf("error = %v, want wrapped %v", err, store.err)
	}
}

// =============================================================================
// Manager Tests
// =============================================================================

func TestManager_ProcessesPendingThenNew(t *testing.T) {
	consumer := &MockConsumer{
		pending: []queue.Message{message("1-0", model.AuditCommentCreated)},
		fresh: []queue.Message{
			message("2-0", model.AuditCommentDeleted),
			message("3-0", model.AuditCommentReplied),
		},
	}
	store := NewMockStore()
	m := worker.NewManager(consumer, worker.NewHandler(store), worker.ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 10 * time.Millisecond,
	})

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, "three stored events", func() bool { return store.Len() == 3 })
	m.Stop()

	acked := consumer.Acked()
	if len(acked) != 3 {
		t.Fatalf("acked %v, want 3 messages", acked)
	}
	if acked[0] != "1-0" {
		t.Errorf("first ack = %s, want pending message 1-0", acked[0])
	}
	if consumer.groups != 1 {
		t.Errorf("EnsureGroup called %d times, want 1", consumer.groups)
	}
}

func TestManager_AcksEvenWhenHandlerFails(t *testing.T) {
	consumer := &MockConsumer{
		fresh: []queue.Message{message("1-0", "unknown_kind")},
	}
	m := worker.NewManager(consumer, worker.NewHandler(NewMockStore()), worker.ManagerConfig{
		WorkerCount:  1,
		BlockTimeout: 10 * time.Millisecond,
	})

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, "ack", func() bool { return len(consumer.Acked()) == 1 })
	m.Stop()
}

func TestManager_StopsOnContextCancel(t *testing.T) {
	consumer := &MockConsumer{readErr: errors.New("connection reset")}
	m := worker.NewManager(consumer, worker.NewHandler(NewMockStore()), worker.ManagerConfig{
		WorkerCount:  3,
		BlockTimeout: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}

func TestManager_StopWithoutStart(t *testing.T) {
	m := worker.NewManager(&MockConsumer{}, worker.NewHandler(NewMockStore()), worker.DefaultManagerConfig())

	m.Stop()
	m.Stop()
}
