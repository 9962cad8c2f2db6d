package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"
	"qr-dine/order-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx     context.Context
	repo    *storage.MemoryRepository
	gateway *service.Gateway
}

func newFixture() *fixture {
	repo := storage.NewMemoryRepository()
	return &fixture{ctx: context.Background(), repo: repo, gateway: service.NewGateway(repo)}
}

// addOwner stores an owner with one restaurant named restaurantName.
func (f *fixture) addOwner(t *testing.T, username, restaurantName string) (service.Principal, *domain.Restaurant) {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	rest := &domain.Restaurant{Name: restaurantName, Address: "1 Main St"}
	require.NoError(t, f.repo.CreateUserWithRestaurant(f.ctx, user, rest))
	rid := rest.ID
	require.NoError(t, f.repo.CreateProfile(f.ctx, &domain.Profile{UserID: user.ID, Role: domain.RoleOwner, RestaurantID: &rid}))
	return service.OwnerPrincipal(user.ID), rest
}

func (f *fixture) addStaff(t *testing.T, username string, restaurantID int) (service.Principal, *domain.StaffMember) {
	t.Helper()
	member, err := f.repo.CreateStaff(f.ctx, &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}, restaurantID)
	require.NoError(t, err)
	return service.StaffPrincipal(member.UserID, restaurantID), member
}

func (f *fixture) addTable(t *testing.T, restaurantID, n int) *domain.Table {
	t.Helper()
	table := &domain.Table{RestaurantID: restaurantID, TableID: service.FormatTableID(n), Name: service.TableName(n)}
	require.NoError(t, f.repo.InsertTable(f.ctx, table))
	return table
}

func (f *fixture) addCategory(t *testing.T, restaurantID int, name string) *domain.FoodCategory {
	t.Helper()
	cat := &domain.FoodCategory{RestaurantID: restaurantID, Name: name}
	require.NoError(t, f.repo.CreateCategory(f.ctx, cat))
	return cat
}

func (f *fixture) addMenuItem(t *testing.T, restaurantID int, name, price string, available bool) *domain.MenuItem {
	t.Helper()
	item := &domain.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    available,
	}
	require.NoError(t, f.repo.CreateMenuItem(f.ctx, item))
	return item
}

func assertField(t *testing.T, err error, kind error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), fmt.Sprintf("expected %v, got %v", kind, err))
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, field, derr.Field)
}
