// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"time"

	"restaurant-storefront/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	OrderCreated = "order.created"
	OrderPaid    = "order.paid"
)

type OrderEvent struct {
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	UserID        uint                 `json:"user_id"`
	Status        models.OrderStatus   `json:"status"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	ItemCount     int                  `json:"item_count"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// NewOrderEvent snapshots order for an event of type typ.
func NewOrderEvent(typ string, order *models.Order) OrderEvent {
	ev := OrderEvent{
		Type:        typ,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if order.PaymentMethod != nil {
		ev.PaymentMethod = *order.PaymentMethod
	}
	for _, it := range order.Items {
		ev.ItemCount += it.Quantity
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// Publish keys messages by order id so all events of one order land on the
// same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(ev.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// LogPublisher writes events to the log; used when no broker is configured.
type LogPublisher struct {
	Log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{Log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	p.Log.Info("order event",
		zap.String("type", ev.Type),
		zap.String("order_id", ev.OrderID),
		zap.Uint("user_id", ev.UserID),
		zap.String("status", string(ev.Status)),
		zap.String("total_amount", ev.TotalAmount.StringFixed(2)),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
