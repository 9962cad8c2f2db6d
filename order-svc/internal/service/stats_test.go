package service_test

import (
	"testing"
	"time"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/mocks"
	"qr-dine/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Daily(t *testing.T) {
	f := newFixture()
	owner, rest := f.addOwner(t, "alice", "Cafe X")
	stranger, _ := f.addOwner(t, "bob", "Bistro Y")
	staff, _ := f.addStaff(t, "carol", rest.ID)

	want := &domain.DailyStats{
		RestaurantID: rest.ID,
		Date:         "2024-03-05",
		Orders:       3,
		Revenue:      decimal.RequireFromString("41.50"),
		TopItems:     []domain.ItemCount{{MenuItemID: 7, Quantity: 4}},
	}
	reader := mocks.NewStatsReader(t)
	reader.On("DailyStats", mock.Anything, rest.ID, "2024-03-05").Return(want, nil).Twice()

	svc := service.NewStatsService(reader, f.gateway).WithClock(fixedClock)

	got, err := svc.Daily(f.ctx, owner, rest.ID, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Daily(f.ctx, staff, rest.ID, "")
	require.NoError(t, err)

	_, err = svc.Daily(f.ctx, stranger, rest.ID, "2024-03-05")
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = svc.Daily(f.ctx, owner, rest.ID, "05/03/2024")
	assertField(t, err, domain.ErrValidation, "date")

	_, err = svc.Daily(f.ctx, owner, 999, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsService_WithoutReader(t *testing.T) {
	f := newFixture()
	owner, rest := f.addOwner(t, "alice", "Cafe X")
	svc := service.NewStatsService(nil, f.gateway).WithClock(func() time.Time {
		return time.Date(2024, 3, 5, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	})

	got, err := svc.Daily(f.ctx, owner, rest.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", got.Date)
	assert.Zero(t, got.Orders)
	assert.True(t, got.Revenue.IsZero())
	assert.Empty(t, got.TopItems)
}
