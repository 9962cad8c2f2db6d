package mocks

import (
	"context"

	"qr-dine/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)

	if rf, ok := ret.Get(0).(func(context.Context, domain.OrderEvent) error); ok {
		return rf(ctx, event)
	}
	return ret.Error(0)
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MenuCache struct {
	mock.Mock
}

func (_m *MenuCache) GetMenu(ctx context.Context, restaurantID int) (*domain.Menu, bool, error) {
	ret := _m.Called(ctx, restaurantID)

	var r0 *domain.Menu
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Menu)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *MenuCache) SetMenu(ctx context.Context, restaurantID int, menu *domain.Menu) error {
	ret := _m.Called(ctx, restaurantID, menu)
	return ret.Error(0)
}

func (_m *MenuCache) Invalidate(ctx context.Context, restaurantID int) error {
	ret := _m.Called(ctx, restaurantID)
	return ret.Error(0)
}

func NewMenuCache(t testingT) *MenuCache {
	m := &MenuCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type StatsReader struct {
	mock.Mock
}

func (_m *StatsReader) DailyStats(ctx context.Context, restaurantID int, day string) (*domain.DailyStats, error) {
	ret := _m.Called(ctx, restaurantID, day)

	var r0 *domain.DailyStats
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.DailyStats)
	}
	return r0, ret.Error(1)
}

func NewStatsReader(t testingT) *StatsReader {
	m := &StatsReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
