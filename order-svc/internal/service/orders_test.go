package service_test

import (
	"testing"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/mocks"
	"qr-dine/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var orderClock = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func fixedClock() time.Time { return orderClock }

type orderFixture struct {
	*fixture
	owner  service.Principal
	rest   *domain.Restaurant
	table  *domain.Table
	burger *domain.MenuItem
	fries  *domain.MenuItem
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := newFixture()
	owner, rest := f.addOwner(t, "u1", "Cafe X")
	return &orderFixture{
		fixture: f,
		owner:   owner,
		rest:    rest,
		table:   f.addTable(t, rest.ID, 1),
		burger:  f.addMenuItem(t, rest.ID, "Burger", "8.50", true),
		fries:   f.addMenuItem(t, rest.ID, "Fries", "3.00", true),
	}
}

func (f *orderFixture) input() service.CreateOrderInput {
	return service.CreateOrderInput{
		RestaurantID: f.rest.ID,
		TableID:      f.table.ID,
		Items: []service.OrderItemInput{
			{MenuItemID: f.burger.ID, Quantity: 2},
			{MenuItemID: f.fries.ID, Quantity: 1},
		},
	}
}

func TestNewOrderID(t *testing.T) {
	assert.Equal(t, "T12-20240305140709", service.NewOrderID(12, orderClock))
}

func TestOrderService_CreateComputesTotal(t *testing.T) {
	f := newOrderFixture(t)
	publisher := mocks.NewEventPublisher(t)
	svc := service.NewOrderService(f.repo, f.gateway, publisher, nil).WithClock(fixedClock)

	publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(ev domain.OrderEvent) bool {
		return ev.Type == domain.EventOrderCreated && ev.RestaurantID == f.rest.ID && len(ev.Items) == 2
	})).Return(nil).Once()

	order, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)

	assert.Equal(t, service.NewOrderID(f.table.ID, orderClock), order.OrderID)
	assert.Equal(t, "20.00", order.TotalCost.StringFixed(2))
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, orderClock, order.OrderTime)
	assert.Equal(t, "T001", order.TableCode)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "17.00", order.Items[0].LineTotal().StringFixed(2))

	stored, err := svc.Get(f.ctx, f.owner, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", stored.TotalCost.StringFixed(2))
	assert.Len(t, stored.Items, 2)
}

func TestOrderService_CreateRejectsInvalidOrders(t *testing.T) {
	f := newOrderFixture(t)
	_, other := f.addOwner(t, "u2", "Bistro Y")
	foreignTable := f.addTable(t, other.ID, 1)
	foreignItem := f.addMenuItem(t, other.ID, "Soup", "4.00", true)
	soldOut := f.addMenuItem(t, f.rest.ID, "Pie", "5.00", false)

	tests := []struct {
		name   string
		modify func(in *service.CreateOrderInput)
		field  string
	}{
		{name: "unknown restaurant", modify: func(in *service.CreateOrderInput) { in.RestaurantID = 999 }, field: "restaurant"},
		{name: "missing restaurant", modify: func(in *service.CreateOrderInput) { in.RestaurantID = 0 }, field: "restaurant"},
		{name: "unknown table", modify: func(in *service.CreateOrderInput) { in.TableID = 999 }, field: "table"},
		{name: "table of another restaurant", modify: func(in *service.CreateOrderInput) { in.TableID = foreignTable.ID }, field: "table"},
		{name: "no items", modify: func(in *service.CreateOrderInput) { in.Items = nil }, field: "items"},
		{name: "zero quantity", modify: func(in *service.CreateOrderInput) { in.Items[1].Quantity = 0 }, field: "quantity"},
		{name: "negative quantity", modify: func(in *service.CreateOrderInput) { in.Items[0].Quantity = -1 }, field: "quantity"},
		{name: "unknown menu item", modify: func(in *service.CreateOrderInput) { in.Items[0].MenuItemID = 999 }, field: "menu_item"},
		{name: "menu item of another restaurant", modify: func(in *service.CreateOrderInput) { in.Items[1].MenuItemID = foreignItem.ID }, field: "menu_item"},
		{name: "unavailable menu item", modify: func(in *service.CreateOrderInput) { in.Items[1].MenuItemID = soldOut.ID }, field: "menu_item"},
	}

	svc := service.NewOrderService(f.repo, f.gateway, nil, nil).WithClock(fixedClock)
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			in := f.input()
			testCase.modify(&in)

			_, err := svc.Create(f.ctx, in)
			assertField(t, err, domain.ErrValidation, testCase.field)
		})
	}

	orders, err := svc.List(f.ctx, f.owner, service.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_SameSecondCollision(t *testing.T) {
	f := newOrderFixture(t)
	svc := service.NewOrderService(f.repo, f.gateway, nil, nil).WithClock(fixedClock)

	_, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)

	_, err = svc.Create(f.ctx, f.input())
	assertField(t, err, domain.ErrDuplicate, "order_id")
}

func TestOrderService_PublishFailureKeepsOrder(t *testing.T) {
	f := newOrderFixture(t)
	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	svc := service.NewOrderService(f.repo, f.gateway, publisher, nil).WithClock(fixedClock)

	order, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)

	_, err = f.repo.GetOrder(f.ctx, order.OrderID)
	assert.NoError(t, err)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	staff, _ := f.addStaff(t, "s1", f.rest.ID)
	_, other := f.addOwner(t, "u2", "Bistro Y")
	otherStaff, _ := f.addStaff(t, "s2", other.ID)

	publisher := mocks.NewEventPublisher(t)
	publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(ev domain.OrderEvent) bool {
		return ev.Type == domain.EventOrderCreated
	})).Return(nil).Once()
	publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(ev domain.OrderEvent) bool {
		return ev.Type == domain.EventOrderCompleted
	})).Return(nil).Once()
	svc := service.NewOrderService(f.repo, f.gateway, publisher, nil).WithClock(fixedClock)

	order, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(f.ctx, service.AnonymousPrincipal(), order.OrderID, domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.UpdateStatus(f.ctx, otherStaff, order.OrderID, domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = svc.UpdateStatus(f.ctx, staff, order.OrderID, domain.StatusPending)
	assertField(t, err, domain.ErrValidation, "status")

	_, err = svc.UpdateStatus(f.ctx, staff, order.OrderID, "Cancelled")
	assertField(t, err, domain.ErrValidation, "status")

	updated, err := svc.UpdateStatus(f.ctx, staff, order.OrderID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(f.ctx, f.owner, order.OrderID, domain.StatusCompleted)
	assertField(t, err, domain.ErrValidation, "status")

	_, err = svc.UpdateStatus(f.ctx, f.owner, "T1-19990101000000", domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_ListScoping(t *testing.T) {
	f := newOrderFixture(t)
	staff, _ := f.addStaff(t, "s1", f.rest.ID)
	otherOwner, other := f.addOwner(t, "u2", "Bistro Y")
	otherTable := f.addTable(t, other.ID, 1)
	soup := f.addMenuItem(t, other.ID, "Soup", "4.00", true)

	clock := orderClock
	svc := service.NewOrderService(f.repo, f.gateway, nil, nil).WithClock(func() time.Time { return clock })

	first, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	second, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)
	_, err = svc.Create(f.ctx, service.CreateOrderInput{
		RestaurantID: other.ID,
		TableID:      otherTable.ID,
		Items:        []service.OrderItemInput{{MenuItemID: soup.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := svc.List(f.ctx, f.owner, service.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderID, orders[0].OrderID)
	assert.Equal(t, first.OrderID, orders[1].OrderID)

	orders, err = svc.List(f.ctx, f.owner, service.OrderFilter{RestaurantID: other.ID})
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = svc.List(f.ctx, otherOwner, service.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = svc.List(f.ctx, staff, service.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = svc.List(f.ctx, staff, service.OrderFilter{RestaurantID: other.ID})
	assert.ErrorIs(t, err, domain.ErrPermission)

	orders, err = svc.List(f.ctx, service.OtherPrincipal(12345), service.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = svc.List(f.ctx, service.AnonymousPrincipal(), service.OrderFilter{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.UpdateStatus(f.ctx, staff, first.OrderID, domain.StatusCompleted)
	require.NoError(t, err)
	orders, err = svc.List(f.ctx, staff, service.OrderFilter{Status: domain.StatusPending})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.OrderID, orders[0].OrderID)

	_, err = svc.List(f.ctx, staff, service.OrderFilter{Status: "Unknown"})
	assertField(t, err, domain.ErrValidation, "status")
}

func TestOrderService_Delete(t *testing.T) {
	f := newOrderFixture(t)
	staff, _ := f.addStaff(t, "s1", f.rest.ID)
	svc := service.NewOrderService(f.repo, f.gateway, nil, nil).WithClock(fixedClock)

	order, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(f.ctx, staff, order.OrderID), domain.ErrPermission)
	require.NoError(t, svc.Delete(f.ctx, f.owner, order.OrderID))

	_, err = svc.Get(f.ctx, f.owner, order.OrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_TableDeletionRemovesOrders(t *testing.T) {
	f := newOrderFixture(t)
	svc := service.NewOrderService(f.repo, f.gateway, nil, nil).WithClock(fixedClock)
	registry := service.NewTableRegistry(f.repo, f.gateway, nil, nil)

	order, err := svc.Create(f.ctx, f.input())
	require.NoError(t, err)
	require.NoError(t, registry.Delete(f.ctx, f.owner, f.table.ID))

	_, err = svc.Get(f.ctx, f.owner, order.OrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
