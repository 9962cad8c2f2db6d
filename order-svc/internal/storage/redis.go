package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/pkg/orderstats"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) MenuKey(restaurantID int) string {
	return "menu:" + strconv.Itoa(restaurantID)
}

// GetMenu reports ok=false on a cache miss.
func (c *RedisMenuCache) GetMenu(ctx context.Context, restaurantID int) (*domain.Menu, bool, error) {
	raw, err := c.Client.Get(ctx, c.MenuKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var menu domain.Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, false, err
	}
	return &menu, true, nil
}

func (c *RedisMenuCache) SetMenu(ctx context.Context, restaurantID int, menu *domain.Menu) error {
	payload, err := json.Marshal(menu)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.MenuKey(restaurantID), payload, c.TTL).Err()
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, restaurantID int) error {
	return c.Client.Del(ctx, c.MenuKey(restaurantID)).Err()
}

// RedisStatsReader reads the counters agg-svc maintains.
type RedisStatsReader struct {
	Client *redis.Client
}

func NewRedisStatsReader(client *redis.Client) *RedisStatsReader {
	return &RedisStatsReader{Client: client}
}

func (r *RedisStatsReader) DailyStats(ctx context.Context, restaurantID int, day string) (*domain.DailyStats, error) {
	fields, err := r.Client.HGetAll(ctx, orderstats.DayKey(restaurantID, day)).Result()
	if err != nil {
		return nil, err
	}

	stats := &domain.DailyStats{
		RestaurantID: restaurantID,
		Date:         day,
		Revenue:      decimal.Zero,
		TopItems:     []domain.ItemCount{},
	}
	stats.Orders, _ = strconv.ParseInt(fields[orderstats.FieldOrders], 10, 64)
	stats.CompletedOrders, _ = strconv.ParseInt(fields[orderstats.FieldCompleted], 10, 64)
	if cents, err := strconv.ParseInt(fields[orderstats.FieldRevenueCents], 10, 64); err == nil {
		stats.Revenue = decimal.New(cents, -2)
	}

	top, err := r.Client.ZRevRangeWithScores(ctx, orderstats.ItemsKey(restaurantID, day), 0, orderstats.TopItems-1).Result()
	if err != nil {
		return nil, err
	}
	for _, z := range top {
		member, _ := z.Member.(string)
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		stats.TopItems = append(stats.TopItems, domain.ItemCount{MenuItemID: id, Quantity: int64(z.Score)})
	}
	return stats, nil
}
