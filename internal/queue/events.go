package queue

import (
	"encoding/json"
	"fmt"

	"blogcomments/internal/model"
)

// Stream names
const (
	StreamAudit = "stream:audit"
)

// Consumer group name for audit writers
const (
	ConsumerGroupAudit = "audit_writers"
)

// EncodeAuditEvent converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func EncodeAuditEvent(e model.AuditEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"kind": string(e.Kind),
		"data": string(data),
	}, nil
}

// ParseAuditEvent parses an AuditEvent from Redis stream message values.
func ParseAuditEvent(values map[string]interface{}) (model.AuditEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return model.AuditEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event model.AuditEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return model.AuditEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if event.Kind == "" {
		return model.AuditEvent{}, fmt.Errorf("event has no kind")
	}
	return event, nil
}
