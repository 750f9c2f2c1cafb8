// Package kafka publishes order events to Kafka. Each event becomes one JSON message on
// the topic named after the event, keyed by order id so all messages of an order land on
// the same partition in commit order.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pickup/internal/core/domain/model/order"

	"github.com/IBM/sarama"
)

// StatusChangedMessage is the payload published for order.StatusChanged.
type StatusChangedMessage struct {
	OrderID    string    `json:"order_id"`
	BuyerID    string    `json:"buyer_id"`
	SellerID   string    `json:"seller_id"`
	BranchID   string    `json:"branch_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
	EventTime  time.Time `json:"event_time"`
}

// PickupReminderMessage is the payload published for order.PickupReminder.
type PickupReminderMessage struct {
	OrderID    string    `json:"order_id"`
	BuyerID    string    `json:"buyer_id"`
	BranchID   string    `json:"branch_id"`
	ReadySince time.Time `json:"ready_since"`
	OccurredAt time.Time `json:"occurred_at"`
	EventTime  time.Time `json:"event_time"`
}

// Notifier implements ports.Notifier on a sarama SyncProducer.
type Notifier struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *slog.Logger
	now         func() time.Time
}

// NewProducerConfig returns the producer settings used in production: acknowledged by
// all in-sync replicas, idempotent, with bounded retries.
func NewProducerConfig(clientID string) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Version = sarama.V2_6_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	return config
}

// NewNotifier connects a SyncProducer to brokers.
func NewNotifier(brokers []string, clientID, topicPrefix string, logger *slog.Logger) (*Notifier, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}

	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig(clientID))
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}
	return NewNotifierWithProducer(producer, topicPrefix, logger), nil
}

// NewNotifierWithProducer wraps an existing producer.
func NewNotifierWithProducer(producer sarama.SyncProducer, topicPrefix string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		producer:    producer,
		topicPrefix: topicPrefix,
		logger:      logger.With("component", "kafka_notifier"),
		now:         time.Now,
	}
}

// Notify publishes events as one batch. Events of unknown types are skipped with a
// warning.
func (n *Notifier) Notify(ctx context.Context, events ...order.Event) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		msg, err := n.message(event)
		if err != nil {
			n.logger.WarnContext(ctx, "skipping event", "event", event.EventName(), "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := n.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("kafka: send %d messages: %w", len(msgs), err)
	}

	for _, msg := range msgs {
		n.logger.DebugContext(ctx, "event published",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
	}
	return nil
}

// Close flushes and closes the producer.
func (n *Notifier) Close() error {
	return n.producer.Close()
}

func (n *Notifier) message(event order.Event) (*sarama.ProducerMessage, error) {
	var payload any
	switch e := event.(type) {
	case order.StatusChanged:
		payload = StatusChangedMessage{
			OrderID:    e.OrderID.String(),
			BuyerID:    e.BuyerID.String(),
			SellerID:   e.SellerID.String(),
			BranchID:   e.BranchID.String(),
			From:       e.From.String(),
			To:         e.To.String(),
			ActorID:    e.ActorID.String(),
			OccurredAt: e.OccurredAt,
			EventTime:  n.now().UTC(),
		}
	case order.PickupReminder:
		payload = PickupReminderMessage{
			OrderID:    e.OrderID.String(),
			BuyerID:    e.BuyerID.String(),
			BranchID:   e.BranchID.String(),
			ReadySince: e.ReadySince,
			OccurredAt: e.OccurredAt,
			EventTime:  n.now().UTC(),
		}
	default:
		return nil, fmt.Errorf("unsupported event type %T", event)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &sarama.ProducerMessage{
		Topic: n.topicPrefix + event.EventName(),
		Key:   sarama.StringEncoder(event.AggregateID().String()),
		Value: sarama.ByteEncoder(data),
	}, nil
}
