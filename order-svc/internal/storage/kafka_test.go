package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"qr-dine/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewKafkaPublisher(writer)

	order := &domain.Order{
		OrderID:      "T1-20240305140709",
		RestaurantID: 42,
		TableID:      1,
		TotalCost:    decimal.RequireFromString("20.00"),
		OrderTime:    time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
		Items:        []domain.OrderItem{{MenuItemID: 5, Quantity: 2}},
	}
	event := domain.NewOrderEvent(domain.EventOrderCreated, order, order.OrderTime)

	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "42", string(writer.messages[0].Key))

	var decoded domain.OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, domain.EventOrderCreated, decoded.Type)
	assert.Equal(t, "T1-20240305140709", decoded.OrderID)
	assert.Equal(t, []domain.OrderEventItem{{MenuItemID: 5, Quantity: 2}}, decoded.Items)
	assert.True(t, decoded.TotalCost.Equal(order.TotalCost))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	publisher := NewKafkaPublisher(&recordingWriter{err: assert.AnError})

	err := publisher.PublishOrderEvent(context.Background(), domain.OrderEvent{Type: domain.EventOrderCompleted})
	assert.ErrorIs(t, err, assert.AnError)
}
