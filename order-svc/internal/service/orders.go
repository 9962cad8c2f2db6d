package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/pkg/logger"

	"github.com/shopspring/decimal"
)

const orderIDTimeLayout = "20060102150405"

// NewOrderID derives an order identifier from the table's internal id and the
// creation instant at second precision. Two orders placed at the same table in
// the same second produce the same id; the second insert is rejected.
func NewOrderID(tableID int, at time.Time) string {
	return fmt.Sprintf("T%d-%s", tableID, at.Format(orderIDTimeLayout))
}

type OrderItemInput struct {
	MenuItemID int `json:"menu_item"`
	Quantity   int `json:"quantity"`
}

type CreateOrderInput struct {
	RestaurantID int              `json:"restaurant"`
	TableID      int              `json:"table"`
	Items        []OrderItemInput `json:"items"`
}

type OrderFilter struct {
	RestaurantID int
	Status       domain.OrderStatus
}

type orderStore interface {
	OrderRepository
	GetTable(ctx context.Context, id int) (*domain.Table, error)
	GetMenuItems(ctx context.Context, ids []int) (map[int]domain.MenuItem, error)
}

type OrderService struct {
	repo      orderStore
	gateway   *Gateway
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderService wires the order engine. publisher may be nil, in which case
// no order events are emitted.
func NewOrderService(repo orderStore, gateway *Gateway, publisher EventPublisher, log *logger.Logger) *OrderService {
	if log == nil {
		log = logger.Discard()
	}
	return &OrderService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for order ids and timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create places an order on behalf of an anonymous customer. Every reference
// is checked before anything is written and the order and its lines are
// persisted together.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if _, err := s.gateway.CheckPayload(ctx, AnonymousPrincipal(), ActionCreateOrder, "restaurant", in.RestaurantID); err != nil {
		return nil, err
	}

	table, err := s.lookupTable(ctx, in.RestaurantID, in.TableID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, in.RestaurantID, in.Items)
	if err != nil {
		return nil, err
	}

	at := s.now().Truncate(time.Second)
	order := &domain.Order{
		OrderID:      NewOrderID(table.ID, at),
		RestaurantID: in.RestaurantID,
		TableID:      table.ID,
		TableName:    table.Name,
		TableCode:    table.TableID,
		OrderTime:    at,
		Status:       domain.StatusPending,
		TotalCost:    orderTotal(items),
		Items:        items,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Duplicate("order_id", fmt.Sprintf("order %s already exists, retry in a moment", order.OrderID))
		}
		return nil, err
	}

	s.log.Info("create_order", logger.RequestID(ctx), "order created",
		slog.String("order_id", order.OrderID),
		slog.Int("restaurant_id", order.RestaurantID),
		slog.String("total_cost", order.TotalCost.StringFixed(2)))

	s.publish(ctx, domain.EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) lookupTable(ctx context.Context, restaurantID, tableID int) (*domain.Table, error) {
	if tableID <= 0 {
		return nil, domain.Validation("table", "this field is required")
	}
	table, err := s.repo.GetTable(ctx, tableID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Validation("table", "table %d does not exist", tableID)
	}
	if err != nil {
		return nil, err
	}
	if table.RestaurantID != restaurantID {
		return nil, domain.Validation("table", "table %d does not belong to restaurant %d", tableID, restaurantID)
	}
	return table, nil
}

func (s *OrderService) resolveItems(ctx context.Context, restaurantID int, in []OrderItemInput) ([]domain.OrderItem, error) {
	if len(in) == 0 {
		return nil, domain.Validation("items", "an order needs at least one item")
	}

	ids := make([]int, 0, len(in))
	for _, line := range in {
		if line.Quantity <= 0 {
			return nil, domain.Validation("quantity", "quantity must be a positive integer")
		}
		ids = append(ids, line.MenuItemID)
	}

	menu, err := s.repo.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(in))
	for _, line := range in {
		mi, ok := menu[line.MenuItemID]
		if !ok || mi.RestaurantID != restaurantID {
			return nil, domain.Validation("menu_item", "menu item %d is not on the menu of restaurant %d", line.MenuItemID, restaurantID)
		}
		if !mi.Available {
			return nil, domain.Validation("menu_item", "menu item %q is not available", mi.Name)
		}
		items = append(items, domain.OrderItem{
			MenuItemID:   mi.ID,
			MenuItemName: mi.Name,
			Quantity:     line.Quantity,
			Price:        mi.Price,
		})
	}
	return items, nil
}

func orderTotal(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

func (s *OrderService) List(ctx context.Context, p Principal, filter OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Validation("status", "%q is not a valid status", filter.Status)
	}
	scope, err := ScopeFor(p, ActionViewOrders, filter.RestaurantID)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.Order{}, nil
	}
	return s.repo.ListOrders(ctx, scope, filter.Status)
}

func (s *OrderService) Get(ctx context.Context, p Principal, orderID string) (*domain.Order, error) {
	return s.authorizedOrder(ctx, p, ActionViewOrders, orderID)
}

// UpdateStatus moves an order from Pending to Completed. No other transition
// exists.
func (s *OrderService) UpdateStatus(ctx context.Context, p Principal, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.authorizedOrder(ctx, p, ActionUpdateOrder, orderID)
	if err != nil {
		return nil, err
	}
	if status != domain.StatusCompleted {
		return nil, domain.Validation("status", "status can only be changed to %s", domain.StatusCompleted)
	}
	if order.Status != domain.StatusPending {
		return nil, domain.Validation("status", "order %s is already %s", order.OrderID, order.Status)
	}

	ok, err := s.repo.UpdateOrderStatus(ctx, orderID, domain.StatusPending, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Validation("status", "order %s is no longer %s", order.OrderID, domain.StatusPending)
	}
	order.Status = domain.StatusCompleted

	s.log.Info("complete_order", logger.RequestID(ctx), "order completed",
		slog.String("order_id", order.OrderID), slog.Int("user_id", p.UserID))

	s.publish(ctx, domain.EventOrderCompleted, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, p Principal, orderID string) error {
	if _, err := s.authorizedOrder(ctx, p, ActionDeleteOrder, orderID); err != nil {
		return err
	}
	return s.repo.DeleteOrder(ctx, orderID)
}

func (s *OrderService) authorizedOrder(ctx context.Context, p Principal, action Action, orderID string) (*domain.Order, error) {
	if p.Kind == Anonymous {
		return nil, domain.Unauthenticated("authentication required")
	}
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gateway.Check(ctx, p, action, order.RestaurantID); err != nil {
		return nil, err
	}
	return order, nil
}

// publish is best effort; the order is already committed.
func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	event := domain.NewOrderEvent(eventType, order, s.now())
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.log.Error("publish_order_event", logger.RequestID(ctx), "failed to publish order event", err,
			slog.String("order_id", order.OrderID), slog.String("type", eventType))
	}
}
