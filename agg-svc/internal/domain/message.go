package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order_created"
	EventOrderCompleted = "order_completed"
)

type OrderEventItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// OrderEvent is the message order-svc publishes on the orders topic.
type OrderEvent struct {
	Type         string           `json:"type"`
	OrderID      string           `json:"order_id"`
	RestaurantID int              `json:"restaurant_id"`
	TableID      int              `json:"table_id"`
	TotalCost    decimal.Decimal  `json:"total_cost"`
	Items        []OrderEventItem `json:"items,omitempty"`
	OrderTime    time.Time        `json:"order_time"`
	Timestamp    time.Time        `json:"timestamp"`
}
