// Package events publishes storefront activity to Kafka for downstream
// consumers (sales reporting, inventory sync). Publishing is best-effort
// and never blocks a checkout result.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

const (
	Topic = "storefront-orders"

	EventOrderPlaced = "order.placed"
)

// orderPlacedEvent is the published payload for a completed checkout.
type orderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	SessionID   string    `json:"session_id"`
	LineCount   int       `json:"line_count"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	PlacedAt    time.Time `json:"placed_at"`
}

// MessageWriter is the slice of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	writer MessageWriter
}

// NewPublisher builds a Kafka-backed publisher for the given brokers.
func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// NewPublisherWithWriter is used by tests and by callers that manage
// their own writer lifecycle.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

// OrderPlaced publishes one event for a successful submission, keyed by
// order id so per-order messages stay ordered.
func (p *Publisher) OrderPlaced(ctx context.Context, sessionID string, order *domain.SubmittedOrder) error {
	evt := orderPlacedEvent{
		OrderID:     order.OrderID,
		SessionID:   sessionID,
		LineCount:   len(order.Items),
		TotalAmount: order.Total.String(),
		Currency:    "USD",
		PlacedAt:    order.PlacedAt,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order placed event: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it owns one.
func (p *Publisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
