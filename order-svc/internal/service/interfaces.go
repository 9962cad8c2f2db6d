package service

import (
	"context"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/order-svc/internal/storage"
)

type UserRepository interface {
	CreateUserWithRestaurant(ctx context.Context, user *domain.User, rest *domain.Restaurant) error
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	DeleteUser(ctx context.Context, userID int) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetProfile(ctx context.Context, userID int) (*domain.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateStaff(ctx context.Context, user *domain.User, restaurantID int) (*domain.StaffMember, error)
	GetStaff(ctx context.Context, profileID int) (*domain.StaffMember, error)
	ListStaff(ctx context.Context, scope domain.Scope) ([]domain.StaffMember, error)
	DeleteStaff(ctx context.Context, profileID int) error
}

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context, scope domain.Scope) ([]domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	DeleteRestaurant(ctx context.Context, id int) error
	RestaurantNameExists(ctx context.Context, name string) (bool, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, cat *domain.FoodCategory) error
	GetCategory(ctx context.Context, id int) (*domain.FoodCategory, error)
	ListCategories(ctx context.Context, scope domain.Scope) ([]domain.FoodCategory, error)
	UpdateCategory(ctx context.Context, cat *domain.FoodCategory) error
	DeleteCategory(ctx context.Context, id int) error
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []int) (map[int]domain.MenuItem, error)
	ListMenuItems(ctx context.Context, scope domain.Scope, categoryID int) ([]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int) error
}

type TableRepository interface {
	ListTableIDs(ctx context.Context, restaurantID int) ([]string, error)
	InsertTable(ctx context.Context, table *domain.Table) error
	GetTable(ctx context.Context, id int) (*domain.Table, error)
	ListTables(ctx context.Context, scope domain.Scope) ([]domain.Table, error)
	DeleteTable(ctx context.Context, id int) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, scope domain.Scope, status domain.OrderStatus) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// Repository is everything the services need from persistence.
type Repository interface {
	UserRepository
	RestaurantRepository
	CategoryRepository
	MenuRepository
	TableRepository
	OrderRepository
}

type MenuCache interface {
	GetMenu(ctx context.Context, restaurantID int) (*domain.Menu, bool, error)
	SetMenu(ctx context.Context, restaurantID int, menu *domain.Menu) error
	Invalidate(ctx context.Context, restaurantID int) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type StatsReader interface {
	DailyStats(ctx context.Context, restaurantID int, day string) (*domain.DailyStats, error)
}

type Locker interface {
	Lock(key string) (unlock func())
}

type AuthServiceInterface interface {
	RegisterOwner(ctx context.Context, in RegisterOwnerInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (Principal, error)
	Me(ctx context.Context, p Principal) (*Me, error)
}

type StaffServiceInterface interface {
	Create(ctx context.Context, p Principal, in CreateStaffInput) (*domain.StaffMember, error)
	List(ctx context.Context, p Principal, restaurantID int) ([]domain.StaffMember, error)
	Delete(ctx context.Context, p Principal, id int) error
}

type RestaurantServiceInterface interface {
	Create(ctx context.Context, p Principal, rest *domain.Restaurant) error
	List(ctx context.Context, p Principal) ([]domain.Restaurant, error)
	Get(ctx context.Context, p Principal, id int) (*domain.Restaurant, error)
	Update(ctx context.Context, p Principal, rest *domain.Restaurant) error
	Delete(ctx context.Context, p Principal, id int) error
}

type CategoryServiceInterface interface {
	Create(ctx context.Context, p Principal, cat *domain.FoodCategory) error
	List(ctx context.Context, p Principal, restaurantID int) ([]domain.FoodCategory, error)
	Get(ctx context.Context, p Principal, id int) (*domain.FoodCategory, error)
	Update(ctx context.Context, p Principal, cat *domain.FoodCategory) error
	Delete(ctx context.Context, p Principal, id int) error
}

type MenuServiceInterface interface {
	Create(ctx context.Context, p Principal, item *domain.MenuItem) error
	List(ctx context.Context, p Principal, restaurantID, categoryID int) ([]domain.MenuItem, error)
	Get(ctx context.Context, p Principal, id int) (*domain.MenuItem, error)
	Update(ctx context.Context, p Principal, item *domain.MenuItem) error
	Delete(ctx context.Context, p Principal, id int) error
	OrderPage(ctx context.Context, restaurantID, tableID int) (*domain.OrderPage, error)
}

type TableServiceInterface interface {
	Allocate(ctx context.Context, p Principal, restaurantID int) (*domain.Table, error)
	List(ctx context.Context, p Principal, restaurantID int) ([]domain.Table, error)
	Get(ctx context.Context, p Principal, id int) (*domain.Table, error)
	Delete(ctx context.Context, p Principal, id int) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	List(ctx context.Context, p Principal, filter OrderFilter) ([]domain.Order, error)
	Get(ctx context.Context, p Principal, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, p Principal, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, p Principal, orderID string) error
}

type StatsServiceInterface interface {
	Daily(ctx context.Context, p Principal, restaurantID int, day string) (*domain.DailyStats, error)
}

var (
	_ Repository     = (*storage.PostgresRepository)(nil)
	_ Repository     = (*storage.MemoryRepository)(nil)
	_ MenuCache      = (*storage.RedisMenuCache)(nil)
	_ StatsReader    = (*storage.RedisStatsReader)(nil)
	_ EventPublisher = (*storage.KafkaPublisher)(nil)
	_ Locker         = (*KeyedMutex)(nil)

	_ AuthServiceInterface       = (*AuthService)(nil)
	_ StaffServiceInterface      = (*StaffService)(nil)
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
	_ CategoryServiceInterface   = (*CategoryService)(nil)
	_ MenuServiceInterface       = (*MenuService)(nil)
	_ TableServiceInterface      = (*TableRegistry)(nil)
	_ OrderServiceInterface      = (*OrderService)(nil)
	_ StatsServiceInterface      = (*StatsService)(nil)
)
