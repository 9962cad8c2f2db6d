package domain

// Scope restricts a list query to the restaurants a caller may see. The zero
// value is unrestricted and is only built by internal callers; the access
// gateway always sets OwnerID, RestaurantID or None.
type Scope struct {
	OwnerID      int
	RestaurantID int
	None         bool
}

// Allows reports whether a restaurant owned by ownerID falls inside the scope.
func (s Scope) Allows(restaurantID, ownerID int) bool {
	if s.None {
		return false
	}
	if s.OwnerID != 0 && s.OwnerID != ownerID {
		return false
	}
	if s.RestaurantID != 0 && s.RestaurantID != restaurantID {
		return false
	}
	return true
}
