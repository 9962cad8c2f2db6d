package mocks

import (
	"context"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type AuthServiceInterface struct {
	mock.Mock
}

func (_m *AuthServiceInterface) RegisterOwner(ctx context.Context, in service.RegisterOwnerInput) (*domain.User, error) {
	ret := _m.Called(ctx, in)

	var r0 *domain.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *AuthServiceInterface) Login(ctx context.Context, username, password string) (string, error) {
	ret := _m.Called(ctx, username, password)
	return ret.String(0), ret.Error(1)
}

func (_m *AuthServiceInterface) Authenticate(ctx context.Context, token string) (service.Principal, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(service.Principal), ret.Error(1)
}

func (_m *AuthServiceInterface) Me(ctx context.Context, p service.Principal) (*service.Me, error) {
	ret := _m.Called(ctx, p)

	var r0 *service.Me
	if v := ret.Get(0); v != nil {
		r0 = v.(*service.Me)
	}
	return r0, ret.Error(1)
}

func NewAuthServiceInterface(t testingT) *AuthServiceInterface {
	m := &AuthServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type OrderServiceInterface struct {
	mock.Mock
}

func (_m *OrderServiceInterface) Create(ctx context.Context, in service.CreateOrderInput) (*domain.Order, error) {
	ret := _m.Called(ctx, in)

	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) List(ctx context.Context, p service.Principal, filter service.OrderFilter) ([]domain.Order, error) {
	ret := _m.Called(ctx, p, filter)

	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Get(ctx context.Context, p service.Principal, orderID string) (*domain.Order, error) {
	ret := _m.Called(ctx, p, orderID)

	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) UpdateStatus(ctx context.Context, p service.Principal, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	ret := _m.Called(ctx, p, orderID, status)

	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Delete(ctx context.Context, p service.Principal, orderID string) error {
	ret := _m.Called(ctx, p, orderID)
	return ret.Error(0)
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type TableServiceInterface struct {
	mock.Mock
}

func (_m *TableServiceInterface) Allocate(ctx context.Context, p service.Principal, restaurantID int) (*domain.Table, error) {
	ret := _m.Called(ctx, p, restaurantID)

	var r0 *domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) List(ctx context.Context, p service.Principal, restaurantID int) ([]domain.Table, error) {
	ret := _m.Called(ctx, p, restaurantID)

	var r0 []domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) Get(ctx context.Context, p service.Principal, id int) (*domain.Table, error) {
	ret := _m.Called(ctx, p, id)

	var r0 *domain.Table
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) Delete(ctx context.Context, p service.Principal, id int) error {
	ret := _m.Called(ctx, p, id)
	return ret.Error(0)
}

func NewTableServiceInterface(t testingT) *TableServiceInterface {
	m := &TableServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ service.EventPublisher        = (*EventPublisher)(nil)
	_ service.MenuCache             = (*MenuCache)(nil)
	_ service.StatsReader           = (*StatsReader)(nil)
	_ service.AuthServiceInterface  = (*AuthServiceInterface)(nil)
	_ service.OrderServiceInterface = (*OrderServiceInterface)(nil)
	_ service.TableServiceInterface = (*TableServiceInterface)(nil)
)
