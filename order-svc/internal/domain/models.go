package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
	RoleOther Role = "other"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleStaff, RoleOther:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile carries the role of a user. Staff profiles always reference the
// restaurant they work at; owner profiles may reference the restaurant created
// at registration but owners act on every restaurant they own.
type Profile struct {
	ID           int  `json:"id"`
	UserID       int  `json:"user_id"`
	Role         Role `json:"role"`
	RestaurantID *int `json:"restaurant_id"`
}

type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	OwnerID   int       `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FoodCategory struct {
	ID           int    `json:"id"`
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

type MenuItem struct {
	ID           int             `json:"id"`
	RestaurantID int             `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *int            `json:"category_id"`
	Available    bool            `json:"available"`
	ImageURL     string          `json:"image_url"`
}

type Table struct {
	ID           int    `json:"id"`
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	TableID      string `json:"table_id"`
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
)

func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

type Order struct {
	OrderID      string          `json:"order_id"`
	RestaurantID int             `json:"restaurant"`
	TableID      int             `json:"table"`
	TableName    string          `json:"table_name"`
	TableCode    string          `json:"table_id"`
	OrderTime    time.Time       `json:"order_time"`
	Status       OrderStatus     `json:"status"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Items        []OrderItem     `json:"items"`
}

type OrderItem struct {
	MenuItemID   int             `json:"menu_item"`
	MenuItemName string          `json:"menu_item_name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// LineTotal is priced against the menu item's current price, not a snapshot
// taken when the order was placed.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type StaffMember struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	RestaurantID   int    `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
}

// Menu is the customer-facing catalog of a restaurant: its categories and the
// items currently available for ordering.
type Menu struct {
	Categories []FoodCategory `json:"categories"`
	Items      []MenuItem     `json:"menu_items"`
}

type OrderPage struct {
	Restaurant Restaurant     `json:"restaurant"`
	Table      Table          `json:"table"`
	Categories []FoodCategory `json:"categories"`
	MenuItems  []MenuItem     `json:"menu_items"`
}

type ItemCount struct {
	MenuItemID int   `json:"menu_item_id"`
	Quantity   int64 `json:"quantity"`
}

type DailyStats struct {
	RestaurantID    int             `json:"restaurant_id"`
	Date            string          `json:"date"`
	Orders          int64           `json:"orders"`
	CompletedOrders int64           `json:"completed_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
	TopItems        []ItemCount     `json:"top_items"`
}
