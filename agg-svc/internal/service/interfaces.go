package service

import (
	"context"

	"qr-dine/agg-svc/internal/domain"
	"qr-dine/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// StoreInterface records order events into the daily counters. Both methods
// report false when the event was already applied.
type StoreInterface interface {
	RecordOrderCreated(ctx context.Context, ev domain.OrderEvent) (bool, error)
	RecordOrderCompleted(ctx context.Context, ev domain.OrderEvent) (bool, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessEvent(ctx context.Context, ev domain.OrderEvent) error
}

var (
	_ MessageReader     = (*kafka.Reader)(nil)
	_ StoreInterface    = (*storage.Store)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
