// Package orderstats holds the Redis layout of the per-restaurant daily order
// counters, written by agg-svc and read by order-svc.
package orderstats

import (
	"fmt"
	"time"
)

const (
	FieldOrders       = "orders"
	FieldCompleted    = "completed"
	FieldRevenueCents = "revenue_cents"

	DateLayout = "2006-01-02"
	Retention  = 30 * 24 * time.Hour
	TopItems   = 10
)

// DayKey is the hash holding the counters of one restaurant for one day.
func DayKey(restaurantID int, day string) string {
	return fmt.Sprintf("stats:%d:%s", restaurantID, day)
}

// ItemsKey is the sorted set of ordered quantities per menu item.
func ItemsKey(restaurantID int, day string) string {
	return DayKey(restaurantID, day) + ":items"
}

func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
