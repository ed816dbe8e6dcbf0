package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"blogcomments/internal/model"
)

func TestEncodeParseAuditEvent(t *testing.T) {
	event := model.NewAuditEvent(model.AuditCommentCreated, "comment 1 created on post 2")

	values, err := EncodeAuditEvent(event)
	if err != nil {
		t.Fatalf("EncodeAuditEvent failed: %v", err)
	}
	if values["kind"] != string(model.AuditCommentCreated) {
		t.Errorf("kind field = %v, want %s", values["kind"], model.AuditCommentCreated)
	}

	parsed, err := ParseAuditEvent(values)
	if err != nil {
		t.Fatalf("ParseAuditEvent failed: %v", err)
	}
	if parsed.ID != event.ID || parsed.Kind != event.Kind || parsed.Detail != event.Detail {
		t.Errorf("parsed = %+v, want %+v", parsed, event)
	}
	if !parsed.CreatedAt.Equal(event.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", parsed.CreatedAt, event.CreatedAt)
	}
}

func TestParseAuditEvent_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing data", map[string]interface{}{"kind": "comment_created"}},
		{"data not a string", map[string]interface{}{"data": 42}},
		{"bad json", map[string]interface{}{"data": "{not json"}},
		{"no kind", map[string]interface{}{"data": `{"detail":"x"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAuditEvent(tt.values); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestPublishConsumeAck(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	publisher := NewPublisher(client)
	consumer := NewConsumer(client)

	if err := consumer.EnsureGroup(ctx, StreamAudit, ConsumerGroupAudit); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	// Second call hits BUSYGROUP and must succeed.
	if err := consumer.EnsureGroup(ctx, StreamAudit, ConsumerGroupAudit); err != nil {
		t.Fatalf("EnsureGroup (existing) failed: %v", err)
	}

	event := model.NewAuditEvent(model.AuditCommentDeleted, "comment deleted")
	msgID, err := publisher.Publish(ctx, StreamAudit, event)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	messages, err := consumer.Read(ctx, StreamAudit, ConsumerGroupAudit, "worker-1", 10, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 || messages[0].ID != msgID || messages[0].Event.ID != event.ID {
		t.Fatalf("Read = %+v, want the published event", messages)
	}

	// Unacked message is pending for the same consumer.
	pending, err := consumer.ReadPending(ctx, StreamAudit, ConsumerGroupAudit, "worker-1", 10)
	if err != nil {
		t.Fatalf("ReadPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("ReadPending returned %d messages, want 1", len(pending))
	}

	if err := consumer.Ack(ctx, StreamAudit, ConsumerGroupAudit, msgID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	pending, err = consumer.ReadPending(ctx, StreamAudit, ConsumerGroupAudit, "worker-1", 10)
	if err != nil {
		t.Fatalf("ReadPending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("ReadPending after ack returned %d messages, want 0", len(pending))
	}
}

func TestRead_SkipsMalformed(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	consumer := NewConsumer(client)

	if err := consumer.EnsureGroup(ctx, StreamAudit, ConsumerGroupAudit); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}
	client.XAdd(ctx, &redis.XAddArgs{Stream: StreamAudit, Values: map[string]interface{}{"data": "garbage"}})

	messages, err := consumer.Read(ctx, StreamAudit, ConsumerGroupAudit, "worker-1", 10, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("Read returned %d messages, want 0", len(messages))
	}

	pending, _ := consumer.ReadPending(ctx, StreamAudit, ConsumerGroupAudit, "worker-1", 10)
	if len(pending) != 0 {
		t.Errorf("malformed message still pending")
	}
}
