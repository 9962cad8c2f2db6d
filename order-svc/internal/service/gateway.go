package service

import (
	"context"
	"errors"

	"qr-dine/order-svc/internal/domain"
)

type PrincipalKind int

const (
	Anonymous PrincipalKind = iota
	Owner
	Staff
	// Other covers authenticated users whose profile carries neither role, as
	// well as users with no profile at all.
	Other
)

func (k PrincipalKind) String() string {
	switch k {
	case Anonymous:
		return "anonymous"
	case Owner:
		return "owner"
	case Staff:
		return "staff"
	}
	return "other"
}

// Principal is the caller of a request as seen by the access gateway.
type Principal struct {
	Kind         PrincipalKind
	UserID       int
	RestaurantID int
}

func AnonymousPrincipal() Principal { return Principal{Kind: Anonymous} }

func OwnerPrincipal(userID int) Principal { return Principal{Kind: Owner, UserID: userID} }

func StaffPrincipal(userID, restaurantID int) Principal {
	return Principal{Kind: Staff, UserID: userID, RestaurantID: restaurantID}
}

func OtherPrincipal(userID int) Principal { return Principal{Kind: Other, UserID: userID} }

// PrincipalFromProfile maps a stored profile onto a principal variant. A nil
// profile yields Other.
func PrincipalFromProfile(userID int, profile *domain.Profile) Principal {
	if profile == nil {
		return OtherPrincipal(userID)
	}
	switch profile.Role {
	case domain.RoleOwner:
		return OwnerPrincipal(userID)
	case domain.RoleStaff:
		if profile.RestaurantID == nil {
			return OtherPrincipal(userID)
		}
		return StaffPrincipal(userID, *profile.RestaurantID)
	}
	return OtherPrincipal(userID)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or an anonymous one.
func PrincipalFrom(ctx context.Context) Principal {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return AnonymousPrincipal()
	}
	return p
}

type Action int

const (
	ActionCreateOrder Action = iota
	ActionViewOrders
	ActionUpdateOrder
	ActionDeleteOrder
	ActionViewRestaurant
	ActionManageRestaurant
	ActionViewCatalog
	ActionManageCatalog
	ActionViewTables
	ActionManageTables
	ActionManageStaff
	ActionViewStats
)

// staffActions are the only actions staff may perform, and only against the
// restaurant they are assigned to.
var staffActions = map[Action]bool{
	ActionCreateOrder:    true,
	ActionViewOrders:     true,
	ActionUpdateOrder:    true,
	ActionViewRestaurant: true,
	ActionViewCatalog:    true,
	ActionViewTables:     true,
	ActionViewStats:      true,
}

// Resource identifies the restaurant an action targets.
type Resource struct {
	RestaurantID int
	OwnerID      int
}

// Authorize is the single capability check for every surface of the API.
// Placing an order is open to everyone; everything else depends on the
// principal variant.
func Authorize(p Principal, action Action, res Resource) bool {
	if action == ActionCreateOrder {
		return true
	}
	switch p.Kind {
	case Owner:
		return res.OwnerID == p.UserID
	case Staff:
		return staffActions[action] && res.RestaurantID == p.RestaurantID
	}
	return false
}

// ScopeFor builds the list filter for a principal. requested is the
// restaurant_id query parameter, or 0 when absent.
func ScopeFor(p Principal, action Action, requested int) (domain.Scope, error) {
	switch p.Kind {
	case Anonymous:
		if action == ActionCreateOrder {
			return domain.Scope{}, nil
		}
		return domain.Scope{}, domain.Unauthenticated("authentication required")
	case Owner:
		return domain.Scope{OwnerID: p.UserID, RestaurantID: requested}, nil
	case Staff:
		if !staffActions[action] {
			return domain.Scope{}, domain.Permission("staff are not allowed to perform this action")
		}
		if requested != 0 && requested != p.RestaurantID {
			return domain.Scope{}, domain.Permission("you are not allowed to access restaurant %d", requested)
		}
		return domain.Scope{RestaurantID: p.RestaurantID}, nil
	}
	return domain.Scope{None: true}, nil
}

type restaurantLookup interface {
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
}

// Gateway applies Authorize to concrete restaurants.
type Gateway struct {
	restaurants restaurantLookup
}

func NewGateway(restaurants restaurantLookup) *Gateway {
	return &Gateway{restaurants: restaurants}
}

// Check loads the target restaurant and authorizes the action against it.
// Anonymous callers are rejected before any lookup.
func (g *Gateway) Check(ctx context.Context, p Principal, action Action, restaurantID int) (*domain.Restaurant, error) {
	if p.Kind == Anonymous && action != ActionCreateOrder {
		return nil, domain.Unauthenticated("authentication required")
	}
	if p.Kind == Staff && !staffActions[action] {
		return nil, domain.Permission("staff are not allowed to perform this action")
	}
	rest, err := g.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !Authorize(p, action, Resource{RestaurantID: rest.ID, OwnerID: rest.OwnerID}) {
		return nil, domain.Permission("you are not allowed to access restaurant %d", rest.ID)
	}
	return rest, nil
}

// CheckPayload is Check for restaurant ids taken from a request body, where an
// unknown restaurant is a validation failure on field rather than a 404.
func (g *Gateway) CheckPayload(ctx context.Context, p Principal, action Action, field string, restaurantID int) (*domain.Restaurant, error) {
	if restaurantID <= 0 {
		if p.Kind == Anonymous && action != ActionCreateOrder {
			return nil, domain.Unauthenticated("authentication required")
		}
		return nil, domain.Validation(field, "this field is required")
	}
	rest, err := g.Check(ctx, p, action, restaurantID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Validation(field, "restaurant %d does not exist", restaurantID)
	}
	return rest, err
}
