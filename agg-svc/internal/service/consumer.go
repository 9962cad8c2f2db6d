package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qr-dine/agg-svc/internal/domain"
	"qr-dine/pkg/logger"

	"github.com/segmentio/kafka-go"
)

const readRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	log    *logger.Logger
}

func NewConsumer(reader MessageReader, store StoreInterface, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Discard()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		log:    log,
	}
}

// Start reads order events until ctx is cancelled. Malformed messages and
// failed updates are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("consumer_started", "", "aggregation consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("consumer_stopped", "", "aggregation consumer stopped")
				return nil
			}
			c.log.Error("read_message", "", "failed to read message", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}

		if err := c.HandleMessage(ctx, message); err != nil {
			c.log.Error("handle_message", "", "failed to handle message", err,
				slog.Int64("offset", message.Offset), slog.Int("partition", message.Partition))
		}
	}
}

func (c *Consumer) HandleMessage(ctx context.Context, message kafka.Message) error {
	var ev domain.OrderEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}
	return c.ProcessEvent(ctx, ev)
}

var errUnknownEvent = errors.New("unknown event type")

func (c *Consumer) ProcessEvent(ctx context.Context, ev domain.OrderEvent) error {
	var (
		applied bool
		err     error
	)
	switch ev.Type {
	case domain.EventOrderCreated:
		applied, err = c.Store.RecordOrderCreated(ctx, ev)
	case domain.EventOrderCompleted:
		applied, err = c.Store.RecordOrderCompleted(ctx, ev)
	default:
		return fmt.Errorf("%w: %q", errUnknownEvent, ev.Type)
	}
	if err != nil {
		return fmt.Errorf("record %s for order %s: %w", ev.Type, ev.OrderID, err)
	}

	if !applied {
		c.log.Debug("process_event", "", "duplicate event skipped",
			slog.String("type", ev.Type), slog.String("order_id", ev.OrderID))
		return nil
	}
	c.log.Debug("process_event", "", "event recorded",
		slog.String("type", ev.Type),
		slog.String("order_id", ev.OrderID),
		slog.Int("restaurant_id", ev.RestaurantID))
	return nil
}
