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

// OrderEvent is published to Kafka on order creation and completion.
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

func NewOrderEvent(eventType string, order *Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:         eventType,
		OrderID:      order.OrderID,
		RestaurantID: order.RestaurantID,
		TableID:      order.TableID,
		TotalCost:    order.TotalCost,
		OrderTime:    order.OrderTime,
		Timestamp:    at,
	}
	for _, item := range order.Items {
		ev.Items = append(ev.Items, OrderEventItem{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}
	return ev
}
