package storage

import (
	"context"
	"strconv"

	"qr-dine/agg-svc/internal/domain"
	"qr-dine/pkg/orderstats"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// seenKey marks an event as applied so a redelivered message is not counted
// twice.
func seenKey(ev domain.OrderEvent) string {
	return "stats:seen:" + ev.Type + ":" + ev.OrderID
}

func (s *Store) markSeen(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	return s.rdb.SetNX(ctx, seenKey(ev), 1, orderstats.Retention).Result()
}

// RecordOrderCreated counts the order, its revenue and the ordered quantity of
// each menu item on the day the order was placed.
func (s *Store) RecordOrderCreated(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	first, err := s.markSeen(ctx, ev)
	if err != nil || !first {
		return false, err
	}

	day := orderstats.Day(ev.OrderTime)
	dayKey := orderstats.DayKey(ev.RestaurantID, day)
	itemsKey := orderstats.ItemsKey(ev.RestaurantID, day)
	cents := ev.TotalCost.Shift(2).Round(0).IntPart()

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, dayKey, orderstats.FieldOrders, 1)
		pipe.HIncrBy(ctx, dayKey, orderstats.FieldRevenueCents, cents)
		pipe.Expire(ctx, dayKey, orderstats.Retention)
		for _, item := range ev.Items {
			pipe.ZIncrBy(ctx, itemsKey, float64(item.Quantity), strconv.Itoa(item.MenuItemID))
		}
		if len(ev.Items) > 0 {
			pipe.Expire(ctx, itemsKey, orderstats.Retention)
		}
		return nil
	})
	if err != nil {
		s.rdb.Del(ctx, seenKey(ev))
		return false, err
	}
	return true, nil
}

// RecordOrderCompleted counts a completion against the day the order was
// placed.
func (s *Store) RecordOrderCompleted(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	first, err := s.markSeen(ctx, ev)
	if err != nil || !first {
		return false, err
	}

	dayKey := orderstats.DayKey(ev.RestaurantID, orderstats.Day(ev.OrderTime))
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, dayKey, orderstats.FieldCompleted, 1)
		pipe.Expire(ctx, dayKey, orderstats.Retention)
		return nil
	})
	if err != nil {
		s.rdb.Del(ctx, seenKey(ev))
		return false, err
	}
	return true, nil
}
