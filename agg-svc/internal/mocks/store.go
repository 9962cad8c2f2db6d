package mocks

import (
	"context"

	"qr-dine/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) RecordOrderCreated(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	ret := _m.Called(ctx, ev)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) RecordOrderCompleted(ctx context.Context, ev domain.OrderEvent) (bool, error) {
	ret := _m.Called(ctx, ev)
	return ret.Bool(0), ret.Error(1)
}

func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MessageReader struct {
	mock.Mock
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)

	if rf, ok := ret.Get(0).(func(context.Context) (kafka.Message, error)); ok {
		return rf(ctx)
	}
	return ret.Get(0).(kafka.Message), ret.Error(1)
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
