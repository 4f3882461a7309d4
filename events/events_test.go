package events

import (
	"context"
	"encoding/json"
	"testing"

	"restaurant-storefront/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func paidOrder() *models.Order {
	method := models.PaymentUPI
	return &models.Order{
		ID:            "o-1",
		UserID:        3,
		Status:        models.StatusPaid,
		TotalAmount:   decimal.NewFromInt(250),
		PaymentMethod: &method,
		Items: []models.OrderItem{
			{Quantity: 2, ItemPrice: decimal.NewFromInt(100)},
			{Quantity: 1, ItemPrice: decimal.NewFromInt(50)},
		},
	}
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	require.NoError(t, p.Publish(context.Background(), NewOrderEvent(OrderPaid, paidOrder())))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))
	assert.Equal(t, "type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, OrderPaid, string(w.msgs[0].Headers[0].Value))

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, models.PaymentUPI, ev.PaymentMethod)
	assert.Equal(t, 3, ev.ItemCount)
	assert.Equal(t, "250.00", ev.TotalAmount.StringFixed(2))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Publish(context.Background(), NewOrderEvent(OrderCreated, paidOrder())))
	entries := logs.FilterMessage("order event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, OrderCreated, entries[0].ContextMap()["type"])
	assert.Equal(t, "250.00", entries[0].ContextMap()["total_amount"])
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "order_events")
	assert.Equal(t, "order_events", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
}
