package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"blogcomments/internal/queue"
)

const (
	DefaultWorkerCount  = 2
	DefaultBatchSize    = 10
	DefaultBlockTimeout = 5 * time.Second

	readRetryDelay = time.Second
)

// ManagerConfig sizes the audit writer pool. Zero fields take the defaults.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// Manager runs audit writers in the audit_writers consumer group. Each writer
// owns a stable consumer name, so after a restart it first drains the
// entries it had read but not acknowledged.
type Manager struct {
	consumer queue.Consumer
	handler  *Handler
	cfg      ManagerConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	defaults := DefaultManagerConfig()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = defaults.BlockTimeout
	}
	return &Manager{consumer: consumer, handler: handler, cfg: cfg}
}

// Start creates the consumer group if needed and launches the writers. They
// run until ctx ends or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.consumer.EnsureGroup(ctx, queue.StreamAudit, queue.ConsumerGroupAudit); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	for i := 1; i <= m.cfg.WorkerCount; i++ {
		w := writer{id: i, name: fmt.Sprintf("audit-worker-%d", i), m: m}
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.run(runCtx)
		}()
	}

	log.Printf("[AuditWorkers] Started %d writers on %s", m.cfg.WorkerCount, queue.StreamAudit)
	return nil
}

// Stop cancels the writers and waits for them. It is a no-op before Start.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	m.wg.Wait()
	log.Printf("[AuditWorkers] Stopped")
}

type writer struct {
	id   int
	name string
	m    *Manager
}

func (w writer) run(ctx context.Context) {
	w.drainPending(ctx)
	for ctx.Err() == nil {
		w.readBatch(ctx)
	}
	log.Printf("[AuditWorker-%d] Exiting", w.id)
}

// drainPending replays entries delivered to this consumer name but never
// acknowledged. It stops once none are left or none could be acknowledged.
func (w writer) drainPending(ctx context.Context) {
	for ctx.Err() == nil {
		msgs, err := w.m.consumer.ReadPending(ctx, queue.StreamAudit, queue.ConsumerGroupAudit, w.name, w.m.cfg.BatchSize)
		if err != nil {
			log.Printf("[AuditWorker-%d] Pending read failed: %v", w.id, err)
			return
		}
		if len(msgs) == 0 {
			return
		}
		log.Printf("[AuditWorker-%d] Replaying %d pending entries", w.id, len(msgs))
		if w.persist(ctx, msgs) == 0 {
			return
		}
	}
}

func (w writer) readBatch(ctx context.Context) {
	msgs, err := w.m.consumer.Read(ctx, queue.StreamAudit, queue.ConsumerGroupAudit, w.name, w.m.cfg.BatchSize, w.m.cfg.BlockTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("[AuditWorker-%d] Read failed, retrying in %v: %v", w.id, readRetryDelay, err)
		select {
		case <-ctx.Done():
		case <-time.After(readRetryDelay):
		}
		return
	}
	w.persist(ctx, msgs)
}

// persist writes each entry to the audit store and acknowledges it whether or
// not the write worked: a lost audit row is preferred to a stuck stream.
// It returns how many entries were acknowledged.
func (w writer) persist(ctx context.Context, msgs []queue.Message) int {
	acked := 0
	for _, msg := range msgs {
		if err := w.m.handler.HandleEvent(ctx, msg.Event); err != nil {
			log.Printf("[AuditWorker-%d] Dropping entry %s: %v", w.id, msg.ID, err)
		}
		if err := w.m.consumer.Ack(ctx, queue.StreamAudit, queue.ConsumerGroupAudit, msg.ID); err != nil {
			log.Printf("[AuditWorker-%d] Ack %s failed: %v", w.id, msg.ID, err)
			continue
		}
		acked++
	}
	return acked
}
