package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type OutboxEvent struct {
	Id            int64           `db:"id"`
	AggregateType string          `db:"aggregate_type"`
	AggregateID   string          `db:"aggregate_id"`
	EventType     string          `db:"event_type"`
	Payload       json.RawMessage `db:"payload"`
	Headers       json.RawMessage `db:"headers"`
	CreatedAt     time.Time       `db:"created_at"`
	PublishedAt   *time.Time      `db:"published_at"`
	Attempts      int64           `db:"attempts"`
	LastError     *string         `db:"last_error"`
	Topic         string          `db:"topic"`
}

// NewEvent wraps payload as {"event": eventType, "payload": payload}.
func NewEvent(topic, aggregateType string, aggregateID int64, eventType string, payload any) (*OutboxEvent, error) {
	body, err := json.Marshal(map[string]any{
		"event":   eventType,
		"payload": payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &OutboxEvent{
		Topic:         topic,
		AggregateType: aggregateType,
		AggregateID:   fmt.Sprintf("%d", aggregateID),
		EventType:     eventType,
		Payload:       body,
	}, nil
}
