package service_test

import (
	"context"
	"testing"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	own := service.Resource{RestaurantID: 1, OwnerID: 10}
	foreign := service.Resource{RestaurantID: 2, OwnerID: 20}

	tests := []struct {
		name   string
		p      service.Principal
		action service.Action
		res    service.Resource
		want   bool
	}{
		{name: "anonymous may place orders", p: service.AnonymousPrincipal(), action: service.ActionCreateOrder, res: own, want: true},
		{name: "anonymous may not view orders", p: service.AnonymousPrincipal(), action: service.ActionViewOrders, res: own},
		{name: "owner manages own catalog", p: service.OwnerPrincipal(10), action: service.ActionManageCatalog, res: own, want: true},
		{name: "owner cannot touch foreign restaurant", p: service.OwnerPrincipal(10), action: service.ActionViewOrders, res: foreign},
		{name: "staff view own orders", p: service.StaffPrincipal(11, 1), action: service.ActionViewOrders, res: own, want: true},
		{name: "staff complete own orders", p: service.StaffPrincipal(11, 1), action: service.ActionUpdateOrder, res: own, want: true},
		{name: "staff never manage catalog", p: service.StaffPrincipal(11, 1), action: service.ActionManageCatalog, res: own},
		{name: "staff never manage tables", p: service.StaffPrincipal(11, 1), action: service.ActionManageTables, res: own},
		{name: "staff never manage staff", p: service.StaffPrincipal(11, 1), action: service.ActionManageStaff, res: own},
		{name: "staff never delete orders", p: service.StaffPrincipal(11, 1), action: service.ActionDeleteOrder, res: own},
		{name: "staff of another restaurant", p: service.StaffPrincipal(11, 1), action: service.ActionViewOrders, res: foreign},
		{name: "other role sees nothing", p: service.OtherPrincipal(12), action: service.ActionViewOrders, res: own},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, service.Authorize(testCase.p, testCase.action, testCase.res))
		})
	}
}

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name      string
		p         service.Principal
		requested int
		want      domain.Scope
		wantErr   error
	}{
		{name: "anonymous", p: service.AnonymousPrincipal(), wantErr: domain.ErrUnauthenticated},
		{name: "owner unfiltered", p: service.OwnerPrincipal(10), want: domain.Scope{OwnerID: 10}},
		{name: "owner filtered", p: service.OwnerPrincipal(10), requested: 3, want: domain.Scope{OwnerID: 10, RestaurantID: 3}},
		{name: "staff unfiltered", p: service.StaffPrincipal(11, 1), want: domain.Scope{RestaurantID: 1}},
		{name: "staff own restaurant", p: service.StaffPrincipal(11, 1), requested: 1, want: domain.Scope{RestaurantID: 1}},
		{name: "staff other restaurant", p: service.StaffPrincipal(11, 1), requested: 2, wantErr: domain.ErrPermission},
		{name: "other role", p: service.OtherPrincipal(12), requested: 1, want: domain.Scope{None: true}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			scope, err := service.ScopeFor(testCase.p, service.ActionViewOrders, testCase.requested)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, scope)
		})
	}
}

func TestScopeFor_StaffManagementIsOwnerOnly(t *testing.T) {
	_, err := service.ScopeFor(service.StaffPrincipal(11, 1), service.ActionManageStaff, 1)
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestPrincipalFromProfile(t *testing.T) {
	rid := 4

	assert.Equal(t, service.OtherPrincipal(1), service.PrincipalFromProfile(1, nil))
	assert.Equal(t, service.OwnerPrincipal(1), service.PrincipalFromProfile(1, &domain.Profile{Role: domain.RoleOwner}))
	assert.Equal(t, service.StaffPrincipal(1, 4), service.PrincipalFromProfile(1, &domain.Profile{Role: domain.RoleStaff, RestaurantID: &rid}))
	assert.Equal(t, service.OtherPrincipal(1), service.PrincipalFromProfile(1, &domain.Profile{Role: domain.RoleStaff}))
	assert.Equal(t, service.OtherPrincipal(1), service.PrincipalFromProfile(1, &domain.Profile{Role: domain.RoleOther}))
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, service.Anonymous, service.PrincipalFrom(ctx).Kind)

	ctx = service.WithPrincipal(ctx, service.StaffPrincipal(3, 9))
	assert.Equal(t, service.StaffPrincipal(3, 9), service.PrincipalFrom(ctx))
}

func TestGateway_Check(t *testing.T) {
	f := newFixture()
	owner, rest := f.addOwner(t, "alice", "Cafe X")
	stranger, _ := f.addOwner(t, "bob", "Bistro Y")
	staff, _ := f.addStaff(t, "carol", rest.ID)

	got, err := f.gateway.Check(f.ctx, owner, service.ActionManageCatalog, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe X", got.Name)

	_, err = f.gateway.Check(f.ctx, stranger, service.ActionViewRestaurant, rest.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = f.gateway.Check(f.ctx, staff, service.ActionViewOrders, rest.ID)
	assert.NoError(t, err)

	_, err = f.gateway.Check(f.ctx, staff, service.ActionManageCatalog, rest.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = f.gateway.Check(f.ctx, service.AnonymousPrincipal(), service.ActionViewOrders, rest.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.gateway.Check(f.ctx, owner, service.ActionViewRestaurant, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGateway_CheckPayload(t *testing.T) {
	f := newFixture()
	owner, _ := f.addOwner(t, "alice", "Cafe X")

	_, err := f.gateway.CheckPayload(f.ctx, owner, service.ActionManageTables, "restaurant_id", 999)
	assertField(t, err, domain.ErrValidation, "restaurant_id")

	_, err = f.gateway.CheckPayload(f.ctx, owner, service.ActionManageTables, "restaurant_id", 0)
	assertField(t, err, domain.ErrValidation, "restaurant_id")

	_, err = f.gateway.CheckPayload(f.ctx, service.AnonymousPrincipal(), service.ActionManageTables, "restaurant_id", 0)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
