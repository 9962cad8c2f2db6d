package service

import (
	"context"
	"time"

	"qr-dine/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const statsDateLayout = "2006-01-02"

type StatsService struct {
	reader  StatsReader
	gateway *Gateway
	now     func() time.Time
}

// NewStatsService returns a service answering daily order statistics. With a
// nil reader every day reads as empty.
func NewStatsService(reader StatsReader, gateway *Gateway) *StatsService {
	return &StatsService{reader: reader, gateway: gateway, now: time.Now}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Daily returns the counters for one UTC day; an empty day means today.
func (s *StatsService) Daily(ctx context.Context, p Principal, restaurantID int, day string) (*domain.DailyStats, error) {
	if _, err := s.gateway.Check(ctx, p, ActionViewStats, restaurantID); err != nil {
		return nil, err
	}
	if day == "" {
		day = s.now().UTC().Format(statsDateLayout)
	}
	if _, err := time.Parse(statsDateLayout, day); err != nil {
		return nil, domain.Validation("date", "expected a date formatted as YYYY-MM-DD")
	}

	if s.reader == nil {
		return &domain.DailyStats{RestaurantID: restaurantID, Date: day, Revenue: decimal.Zero, TopItems: []domain.ItemCount{}}, nil
	}
	return s.reader.DailyStats(ctx, restaurantID, day)
}
