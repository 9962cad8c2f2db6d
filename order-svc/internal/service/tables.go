package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/pkg/logger"
)

const (
	tableIDPrefix       = "T"
	maxAllocateAttempts = 5
)

// NextTableNumber returns one past the highest numeric suffix among tableIDs.
// Identifiers that do not parse as T<digits> are ignored.
func NextTableNumber(tableIDs []string) int {
	max := 0
	for _, id := range tableIDs {
		if !strings.HasPrefix(id, tableIDPrefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(tableIDPrefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

func FormatTableID(n int) string {
	return fmt.Sprintf("%s%03d", tableIDPrefix, n)
}

func TableName(n int) string {
	return fmt.Sprintf("Table %d", n)
}

type TableRegistry struct {
	repo    TableRepository
	gateway *Gateway
	locks   Locker
	log     *logger.Logger
}

func NewTableRegistry(repo TableRepository, gateway *Gateway, locks Locker, log *logger.Logger) *TableRegistry {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &TableRegistry{repo: repo, gateway: gateway, locks: locks, log: log}
}

// Allocate creates the next sequential table of a restaurant. Allocation is
// serialized per restaurant in-process; across processes the unique
// (restaurant, table_id) constraint rejects the loser, which re-reads and
// retries.
func (r *TableRegistry) Allocate(ctx context.Context, p Principal, restaurantID int) (*domain.Table, error) {
	if _, err := r.gateway.CheckPayload(ctx, p, ActionManageTables, "restaurant_id", restaurantID); err != nil {
		return nil, err
	}

	unlock := r.locks.Lock(strconv.Itoa(restaurantID))
	defer unlock()

	for attempt := 1; attempt <= maxAllocateAttempts; attempt++ {
		existing, err := r.repo.ListTableIDs(ctx, restaurantID)
		if err != nil {
			return nil, err
		}

		n := NextTableNumber(existing)
		table := &domain.Table{
			RestaurantID: restaurantID,
			TableID:      FormatTableID(n),
			Name:         TableName(n),
		}

		err = r.repo.InsertTable(ctx, table)
		if err == nil {
			r.log.Info("allocate_table", logger.RequestID(ctx), "table allocated",
				slog.Int("restaurant_id", restaurantID), slog.String("table_id", table.TableID))
			return table, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		r.log.Warn("allocate_table", logger.RequestID(ctx), "table id taken concurrently, retrying",
			slog.Int("restaurant_id", restaurantID), slog.String("table_id", table.TableID), slog.Int("attempt", attempt))
	}

	return nil, domain.Validation("table_id", "could not allocate a unique table id for restaurant %d", restaurantID)
}

func (r *TableRegistry) List(ctx context.Context, p Principal, restaurantID int) ([]domain.Table, error) {
	scope, err := ScopeFor(p, ActionViewTables, restaurantID)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.Table{}, nil
	}
	return r.repo.ListTables(ctx, scope)
}

func (r *TableRegistry) Get(ctx context.Context, p Principal, id int) (*domain.Table, error) {
	if p.Kind == Anonymous {
		return nil, domain.Unauthenticated("authentication required")
	}
	table, err := r.repo.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.gateway.Check(ctx, p, ActionViewTables, table.RestaurantID); err != nil {
		return nil, err
	}
	return table, nil
}

func (r *TableRegistry) Delete(ctx context.Context, p Principal, id int) error {
	if p.Kind == Anonymous {
		return domain.Unauthenticated("authentication required")
	}
	table, err := r.repo.GetTable(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.gateway.Check(ctx, p, ActionManageTables, table.RestaurantID); err != nil {
		return err
	}
	return r.repo.DeleteTable(ctx, id)
}
