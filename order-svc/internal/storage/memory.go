package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"qr-dine/order-svc/internal/domain"
)

// MemoryRepository keeps everything in process memory with the same
// uniqueness and deletion rules as the Postgres schema. It backs
// STORAGE_DRIVER=memory and the service tests.
type MemoryRepository struct {
	mu sync.RWMutex

	nextID      int
	users       map[int]domain.User
	profiles    map[int]domain.Profile
	restaurants map[int]domain.Restaurant
	categories  map[int]domain.FoodCategory
	menuItems   map[int]domain.MenuItem
	tables      map[int]domain.Table
	orders      map[string]domain.Order
	orderLines  map[string][]memoryLine
}

type memoryLine struct {
	MenuItemID int
	Quantity   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[int]domain.User),
		profiles:    make(map[int]domain.Profile),
		restaurants: make(map[int]domain.Restaurant),
		categories:  make(map[int]domain.FoodCategory),
		menuItems:   make(map[int]domain.MenuItem),
		tables:      make(map[int]domain.Table),
		orders:      make(map[string]domain.Order),
		orderLines:  make(map[string][]memoryLine),
	}
}

func (m *MemoryRepository) id() int {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) inScope(scope domain.Scope, restaurantID int) bool {
	rest, ok := m.restaurants[restaurantID]
	return ok && scope.Allows(rest.ID, rest.OwnerID)
}

func (m *MemoryRepository) CreateUserWithRestaurant(_ context.Context, user *domain.User, rest *domain.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUser(user); err != nil {
		return err
	}
	if rest != nil && m.restaurantNameTaken(rest.Name, 0) {
		return domain.Duplicate("restaurant_name", "restaurant with this name already exists")
	}

	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user

	if rest != nil {
		rest.ID = m.id()
		rest.OwnerID = user.ID
		rest.CreatedAt = user.CreatedAt
		m.restaurants[rest.ID] = *rest
	}
	return nil
}

func (m *MemoryRepository) checkUser(user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.Duplicate("username", "user with this username already exists")
		}
		if u.Email == user.Email {
			return domain.Duplicate("email", "user with this email already exists")
		}
	}
	return nil
}

func (m *MemoryRepository) CreateProfile(_ context.Context, profile *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[profile.UserID]; !ok {
		return domain.Validation("non_field_errors", "profile references a row that does not exist")
	}
	for _, p := range m.profiles {
		if p.UserID == profile.UserID {
			return domain.Duplicate("user_id", "profile with this user already exists")
		}
	}
	profile.ID = m.id()
	m.profiles[profile.ID] = *profile
	return nil
}

// DeleteUser removes the user, their profile and every restaurant they own.
func (m *MemoryRepository) DeleteUser(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return domain.NotFound("user")
	}
	m.deleteUser(userID)
	return nil
}

func (m *MemoryRepository) deleteUser(userID int) {
	delete(m.users, userID)
	for id, p := range m.profiles {
		if p.UserID == userID {
			delete(m.profiles, id)
		}
	}
	for id, r := range m.restaurants {
		if r.OwnerID == userID {
			m.deleteRestaurant(id)
		}
	}
}

func (m *MemoryRepository) GetUser(_ context.Context, id int) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user")
	}
	return &u, nil
}

func (m *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.NotFound("user")
}

func (m *MemoryRepository) GetProfile(_ context.Context, userID int) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, domain.NotFound("profile")
}

func (m *MemoryRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) CreateStaff(_ context.Context, user *domain.User, restaurantID int) (*domain.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rest, ok := m.restaurants[restaurantID]
	if !ok {
		return nil, domain.Validation("non_field_errors", "staff member references a row that does not exist")
	}
	if err := m.checkUser(user); err != nil {
		return nil, err
	}

	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = *user

	rid := restaurantID
	profile := domain.Profile{ID: m.id(), UserID: user.ID, Role: domain.RoleStaff, RestaurantID: &rid}
	m.profiles[profile.ID] = profile

	return &domain.StaffMember{
		ID:             profile.ID,
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
	}, nil
}

func (m *MemoryRepository) staffMember(p domain.Profile) (domain.StaffMember, bool) {
	if p.Role != domain.RoleStaff || p.RestaurantID == nil {
		return domain.StaffMember{}, false
	}
	u, ok := m.users[p.UserID]
	if !ok {
		return domain.StaffMember{}, false
	}
	rest, ok := m.restaurants[*p.RestaurantID]
	if !ok {
		return domain.StaffMember{}, false
	}
	return domain.StaffMember{
		ID:             p.ID,
		UserID:         u.ID,
		Username:       u.Username,
		Email:          u.Email,
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
	}, true
}

func (m *MemoryRepository) GetStaff(_ context.Context, profileID int) (*domain.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[profileID]
	if !ok {
		return nil, domain.NotFound("staff member")
	}
	member, ok := m.staffMember(p)
	if !ok {
		return nil, domain.NotFound("staff member")
	}
	return &member, nil
}

func (m *MemoryRepository) ListStaff(_ context.Context, scope domain.Scope) ([]domain.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	staff := []domain.StaffMember{}
	for _, p := range m.profiles {
		member, ok := m.staffMember(p)
		if ok && m.inScope(scope, member.RestaurantID) {
			staff = append(staff, member)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].ID < staff[j].ID })
	return staff, nil
}

func (m *MemoryRepository) DeleteStaff(_ context.Context, profileID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[profileID]
	if !ok || p.Role != domain.RoleStaff {
		return domain.NotFound("staff member")
	}
	m.deleteUser(p.UserID)
	return nil
}

func (m *MemoryRepository) restaurantNameTaken(name string, exceptID int) bool {
	for _, r := range m.restaurants {
		if r.Name == name && r.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) CreateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[rest.OwnerID]; !ok {
		return domain.Validation("non_field_errors", "restaurant references a row that does not exist")
	}
	if m.restaurantNameTaken(rest.Name, 0) {
		return domain.Duplicate("name", "restaurant with this name already exists")
	}
	rest.ID = m.id()
	rest.CreatedAt = time.Now().UTC()
	m.restaurants[rest.ID] = *rest
	return nil
}

func (m *MemoryRepository) GetRestaurant(_ context.Context, id int) (*domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.restaurants[id]
	if !ok {
		return nil, domain.NotFound("restaurant")
	}
	return &r, nil
}

func (m *MemoryRepository) ListRestaurants(_ context.Context, scope domain.Scope) ([]domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Restaurant{}
	for _, r := range m.restaurants {
		if scope.Allows(r.ID, r.OwnerID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) UpdateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.restaurants[rest.ID]
	if !ok {
		return domain.NotFound("restaurant")
	}
	if m.restaurantNameTaken(rest.Name, rest.ID) {
		return domain.Duplicate("name", "restaurant with this name already exists")
	}
	existing.Name = rest.Name
	existing.Address = rest.Address
	m.restaurants[rest.ID] = existing
	*rest = existing
	return nil
}

func (m *MemoryRepository) DeleteRestaurant(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[id]; !ok {
		return domain.NotFound("restaurant")
	}
	m.deleteRestaurant(id)
	return nil
}

// deleteRestaurant removes staff profiles, clears owner profile references
// and cascades to everything the restaurant owns.
func (m *MemoryRepository) deleteRestaurant(id int) {
	for pid, p := range m.profiles {
		if p.RestaurantID == nil || *p.RestaurantID != id {
			continue
		}
		if p.Role == domain.RoleStaff {
			delete(m.profiles, pid)
			continue
		}
		p.RestaurantID = nil
		m.profiles[pid] = p
	}
	for tid, t := range m.tables {
		if t.RestaurantID == id {
			m.deleteTable(tid)
		}
	}
	for mid, item := range m.menuItems {
		if item.RestaurantID == id {
			m.deleteMenuItem(mid)
		}
	}
	for cid, c := range m.categories {
		if c.RestaurantID == id {
			delete(m.categories, cid)
		}
	}
	delete(m.restaurants, id)
}

func (m *MemoryRepository) RestaurantNameExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restaurantNameTaken(name, 0), nil
}

func (m *MemoryRepository) CreateCategory(_ context.Context, cat *domain.FoodCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[cat.RestaurantID]; !ok {
		return domain.Validation("non_field_errors", "category references a row that does not exist")
	}
	cat.ID = m.id()
	m.categories[cat.ID] = *cat
	return nil
}

func (m *MemoryRepository) GetCategory(_ context.Context, id int) (*domain.FoodCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, domain.NotFound("category")
	}
	return &c, nil
}

func (m *MemoryRepository) ListCategories(_ context.Context, scope domain.Scope) ([]domain.FoodCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.FoodCategory{}
	for _, c := range m.categories {
		if m.inScope(scope, c.RestaurantID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) UpdateCategory(_ context.Context, cat *domain.FoodCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[cat.ID]
	if !ok {
		return domain.NotFound("category")
	}
	existing.Name = cat.Name
	existing.Description = cat.Description
	m.categories[cat.ID] = existing
	return nil
}

func (m *MemoryRepository) DeleteCategory(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return domain.NotFound("category")
	}
	delete(m.categories, id)
	for mid, item := range m.menuItems {
		if item.CategoryID != nil && *item.CategoryID == id {
			item.CategoryID = nil
			m.menuItems[mid] = item
		}
	}
	return nil
}

func (m *MemoryRepository) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[item.RestaurantID]; !ok {
		return domain.Validation("non_field_errors", "menu item references a row that does not exist")
	}
	if item.CategoryID != nil {
		if _, ok := m.categories[*item.CategoryID]; !ok {
			return domain.Validation("non_field_errors", "menu item references a row that does not exist")
		}
	}
	item.ID = m.id()
	m.menuItems[item.ID] = copyMenuItem(*item)
	return nil
}

func copyMenuItem(item domain.MenuItem) domain.MenuItem {
	if item.CategoryID != nil {
		id := *item.CategoryID
		item.CategoryID = &id
	}
	return item
}

func (m *MemoryRepository) GetMenuItem(_ context.Context, id int) (*domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.menuItems[id]
	if !ok {
		return nil, domain.NotFound("menu item")
	}
	item = copyMenuItem(item)
	return &item, nil
}

func (m *MemoryRepository) GetMenuItems(_ context.Context, ids []int) (map[int]domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int]domain.MenuItem, len(ids))
	for _, id := range ids {
		if item, ok := m.menuItems[id]; ok {
			out[id] = copyMenuItem(item)
		}
	}
	return out, nil
}

func (m *MemoryRepository) ListMenuItems(_ context.Context, scope domain.Scope, categoryID int) ([]domain.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.MenuItem{}
	for _, item := range m.menuItems {
		if !m.inScope(scope, item.RestaurantID) {
			continue
		}
		if categoryID != 0 && (item.CategoryID == nil || *item.CategoryID != categoryID) {
			continue
		}
		out = append(out, copyMenuItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.menuItems[item.ID]
	if !ok {
		return domain.NotFound("menu item")
	}
	updated := copyMenuItem(*item)
	updated.RestaurantID = existing.RestaurantID
	m.menuItems[item.ID] = updated
	return nil
}

func (m *MemoryRepository) DeleteMenuItem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.menuItems[id]; !ok {
		return domain.NotFound("menu item")
	}
	m.deleteMenuItem(id)
	return nil
}

func (m *MemoryRepository) deleteMenuItem(id int) {
	delete(m.menuItems, id)
	for orderID, lines := range m.orderLines {
		kept := lines[:0]
		for _, l := range lines {
			if l.MenuItemID != id {
				kept = append(kept, l)
			}
		}
		m.orderLines[orderID] = kept
	}
}

func (m *MemoryRepository) ListTableIDs(_ context.Context, restaurantID int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := []string{}
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID {
			ids = append(ids, t.TableID)
		}
	}
	return ids, nil
}

func (m *MemoryRepository) InsertTable(_ context.Context, table *domain.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.restaurants[table.RestaurantID]; !ok {
		return domain.Validation("non_field_errors", "table references a row that does not exist")
	}
	for _, t := range m.tables {
		if t.RestaurantID == table.RestaurantID && t.TableID == table.TableID {
			return domain.Duplicate("table_id", "table with this table id already exists")
		}
	}
	table.ID = m.id()
	m.tables[table.ID] = *table
	return nil
}

func (m *MemoryRepository) GetTable(_ context.Context, id int) (*domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[id]
	if !ok {
		return nil, domain.NotFound("table")
	}
	return &t, nil
}

func (m *MemoryRepository) ListTables(_ context.Context, scope domain.Scope) ([]domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Table{}
	for _, t := range m.tables {
		if m.inScope(scope, t.RestaurantID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RestaurantID != out[j].RestaurantID {
			return out[i].RestaurantID < out[j].RestaurantID
		}
		return out[i].TableID < out[j].TableID
	})
	return out, nil
}

func (m *MemoryRepository) DeleteTable(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[id]; !ok {
		return domain.NotFound("table")
	}
	m.deleteTable(id)
	return nil
}

func (m *MemoryRepository) deleteTable(id int) {
	delete(m.tables, id)
	for orderID, o := range m.orders {
		if o.TableID == id {
			delete(m.orders, orderID)
			delete(m.orderLines, orderID)
		}
	}
}

func (m *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[order.OrderID]; ok {
		return domain.Duplicate("order_id", "order with this order id already exists")
	}
	if _, ok := m.restaurants[order.RestaurantID]; !ok {
		return domain.Validation("non_field_errors", "order references a row that does not exist")
	}
	if _, ok := m.tables[order.TableID]; !ok {
		return domain.Validation("non_field_errors", "order references a row that does not exist")
	}
	lines := make([]memoryLine, 0, len(order.Items))
	for _, item := range order.Items {
		if _, ok := m.menuItems[item.MenuItemID]; !ok {
			return domain.Validation("non_field_errors", "order item references a row that does not exist")
		}
		lines = append(lines, memoryLine{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}

	stored := *order
	stored.Items = nil
	m.orders[order.OrderID] = stored
	m.orderLines[order.OrderID] = lines
	return nil
}

// hydrate fills table details and lines priced at the current menu price.
func (m *MemoryRepository) hydrate(o domain.Order) domain.Order {
	if t, ok := m.tables[o.TableID]; ok {
		o.TableName = t.Name
		o.TableCode = t.TableID
	}
	o.Items = []domain.OrderItem{}
	for _, l := range m.orderLines[o.OrderID] {
		item := m.menuItems[l.MenuItemID]
		o.Items = append(o.Items, domain.OrderItem{
			MenuItemID:   l.MenuItemID,
			MenuItemName: item.Name,
			Quantity:     l.Quantity,
			Price:        item.Price,
		})
	}
	return o
}

func (m *MemoryRepository) GetOrder(_ context.Context, orderID string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.NotFound("order")
	}
	o = m.hydrate(o)
	return &o, nil
}

func (m *MemoryRepository) ListOrders(_ context.Context, scope domain.Scope, status domain.OrderStatus) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Order{}
	for _, o := range m.orders {
		if !m.inScope(scope, o.RestaurantID) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, m.hydrate(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderTime.Equal(out[j].OrderTime) {
			return out[i].OrderTime.After(out[j].OrderTime)
		}
		return out[i].OrderID > out[j].OrderID
	})
	return out, nil
}

func (m *MemoryRepository) UpdateOrderStatus(_ context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return false, domain.NotFound("order")
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	m.orders[orderID] = o
	return true, nil
}

func (m *MemoryRepository) DeleteOrder(_ context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[orderID]; !ok {
		return domain.NotFound("order")
	}
	delete(m.orders, orderID)
	delete(m.orderLines, orderID)
	return nil
}
