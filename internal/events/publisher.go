package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/01moynul/reboot-golang/internal/models"
)

// OrderCreatedType is the event type written for every new order.
const OrderCreatedType = "order.created"

// OrderCreated is the JSON payload published when an order is stored.
type OrderCreated struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      models.Order `json:"order"`
}

// Publisher announces domain events to other services.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
	Close() error
}

// Writer is the subset of kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single Kafka topic, keyed by order id so
// all events of one order land on the same partition.
type KafkaPublisher struct {
	writer Writer
	now    func() time.Time
}

// NewKafkaPublisher creates a publisher writing to topic on broker.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	value, err := json.Marshal(OrderCreated{
		Type:       OrderCreatedType,
		OccurredAt: p.now().UTC(),
		Order:      order,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	msg := kafka.Message{Key: []byte(order.ID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderCreated(context.Context, models.Order) error { return nil }
func (Nop) Close() error                                             { return nil }
