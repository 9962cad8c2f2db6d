package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"qr-dine/order-svc/internal/domain"
	"qr-dine/pkg/logger"

	"github.com/shopspring/decimal"
)

type RestaurantService struct {
	repo    RestaurantRepository
	gateway *Gateway
	cache   MenuCache
}

func NewRestaurantService(repo RestaurantRepository, gateway *Gateway, cache MenuCache) *RestaurantService {
	return &RestaurantService{repo: repo, gateway: gateway, cache: cache}
}

func (s *RestaurantService) Create(ctx context.Context, p Principal, rest *domain.Restaurant) error {
	switch p.Kind {
	case Anonymous:
		return domain.Unauthenticated("authentication required")
	case Owner:
	default:
		return domain.Permission("only restaurant owners can create restaurants")
	}
	rest.Name = strings.TrimSpace(rest.Name)
	if rest.Name == "" {
		return domain.Validation("name", "this field is required")
	}
	rest.OwnerID = p.UserID
	return s.repo.CreateRestaurant(ctx, rest)
}

func (s *RestaurantService) List(ctx context.Context, p Principal) ([]domain.Restaurant, error) {
	scope, err := ScopeFor(p, ActionViewRestaurant, 0)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.Restaurant{}, nil
	}
	return s.repo.ListRestaurants(ctx, scope)
}

func (s *RestaurantService) Get(ctx context.Context, p Principal, id int) (*domain.Restaurant, error) {
	return s.gateway.Check(ctx, p, ActionViewRestaurant, id)
}

func (s *RestaurantService) Update(ctx context.Context, p Principal, rest *domain.Restaurant) error {
	existing, err := s.gateway.Check(ctx, p, ActionManageRestaurant, rest.ID)
	if err != nil {
		return err
	}
	rest.Name = strings.TrimSpace(rest.Name)
	if rest.Name == "" {
		return domain.Validation("name", "this field is required")
	}
	rest.OwnerID = existing.OwnerID
	rest.CreatedAt = existing.CreatedAt
	if err := s.repo.UpdateRestaurant(ctx, rest); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, rest.ID)
	return nil
}

// Delete removes the restaurant together with everything it owns.
func (s *RestaurantService) Delete(ctx context.Context, p Principal, id int) error {
	if _, err := s.gateway.Check(ctx, p, ActionManageRestaurant, id); err != nil {
		return err
	}
	if err := s.repo.DeleteRestaurant(ctx, id); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, id)
	return nil
}

type CategoryService struct {
	repo    CategoryRepository
	gateway *Gateway
	cache   MenuCache
}

func NewCategoryService(repo CategoryRepository, gateway *Gateway, cache MenuCache) *CategoryService {
	return &CategoryService{repo: repo, gateway: gateway, cache: cache}
}

func (s *CategoryService) Create(ctx context.Context, p Principal, cat *domain.FoodCategory) error {
	if _, err := s.gateway.CheckPayload(ctx, p, ActionManageCatalog, "restaurant_id", cat.RestaurantID); err != nil {
		return err
	}
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		return domain.Validation("name", "this field is required")
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, cat.RestaurantID)
	return nil
}

func (s *CategoryService) List(ctx context.Context, p Principal, restaurantID int) ([]domain.FoodCategory, error) {
	scope, err := ScopeFor(p, ActionViewCatalog, restaurantID)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.FoodCategory{}, nil
	}
	return s.repo.ListCategories(ctx, scope)
}

func (s *CategoryService) Get(ctx context.Context, p Principal, id int) (*domain.FoodCategory, error) {
	return s.authorized(ctx, p, ActionViewCatalog, id)
}

// Update changes name and description. A category never moves between
// restaurants.
func (s *CategoryService) Update(ctx context.Context, p Principal, cat *domain.FoodCategory) error {
	existing, err := s.authorized(ctx, p, ActionManageCatalog, cat.ID)
	if err != nil {
		return err
	}
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Name == "" {
		return domain.Validation("name", "this field is required")
	}
	cat.RestaurantID = existing.RestaurantID
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, cat.RestaurantID)
	return nil
}

// Delete removes the category; menu items that referenced it stay on the menu
// uncategorized.
func (s *CategoryService) Delete(ctx context.Context, p Principal, id int) error {
	existing, err := s.authorized(ctx, p, ActionManageCatalog, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, existing.RestaurantID)
	return nil
}

func (s *CategoryService) authorized(ctx context.Context, p Principal, action Action, id int) (*domain.FoodCategory, error) {
	if p.Kind == Anonymous {
		return nil, domain.Unauthenticated("authentication required")
	}
	cat, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.gateway.Check(ctx, p, action, cat.RestaurantID); err != nil {
		return nil, err
	}
	return cat, nil
}

type menuStore interface {
	MenuRepository
	GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error)
	GetCategory(ctx context.Context, id int) (*domain.FoodCategory, error)
	ListCategories(ctx context.Context, scope domain.Scope) ([]domain.FoodCategory, error)
	GetTable(ctx context.Context, id int) (*domain.Table, error)
}

type MenuService struct {
	repo    menuStore
	gateway *Gateway
	cache   MenuCache
	log     *logger.Logger
}

// NewMenuService wires menu management and the public order page. cache may
// be nil.
func NewMenuService(repo menuStore, gateway *Gateway, cache MenuCache, log *logger.Logger) *MenuService {
	if log == nil {
		log = logger.Discard()
	}
	return &MenuService{repo: repo, gateway: gateway, cache: cache, log: log}
}

func (s *MenuService) Create(ctx context.Context, p Principal, item *domain.MenuItem) error {
	if _, err := s.gateway.CheckPayload(ctx, p, ActionManageCatalog, "restaurant_id", item.RestaurantID); err != nil {
		return err
	}
	if err := s.validate(ctx, item); err != nil {
		return err
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, item.RestaurantID)
	return nil
}

func (s *MenuService) List(ctx context.Context, p Principal, restaurantID, categoryID int) ([]domain.MenuItem, error) {
	scope, err := ScopeFor(p, ActionViewCatalog, restaurantID)
	if err != nil {
		return nil, err
	}
	if scope.None {
		return []domain.MenuItem{}, nil
	}
	return s.repo.ListMenuItems(ctx, scope, categoryID)
}

func (s *MenuService) Get(ctx context.Context, p Principal, id int) (*domain.MenuItem, error) {
	return s.authorized(ctx, p, ActionViewCatalog, id)
}

func (s *MenuService) Update(ctx context.Context, p Principal, item *domain.MenuItem) error {
	existing, err := s.authorized(ctx, p, ActionManageCatalog, item.ID)
	if err != nil {
		return err
	}
	item.RestaurantID = existing.RestaurantID
	if err := s.validate(ctx, item); err != nil {
		return err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, item.RestaurantID)
	return nil
}

// Delete removes the menu item and the order lines that reference it.
func (s *MenuService) Delete(ctx context.Context, p Principal, id int) error {
	existing, err := s.authorized(ctx, p, ActionManageCatalog, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	invalidateMenu(ctx, s.cache, existing.RestaurantID)
	return nil
}

var maxPrice = decimal.NewFromInt(10000)

func (s *MenuService) validate(ctx context.Context, item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return domain.Validation("name", "this field is required")
	}
	if item.Price.IsNegative() {
		return domain.Validation("price", "ensure this value is greater than or equal to 0")
	}
	if !item.Price.Equal(item.Price.Round(2)) {
		return domain.Validation("price", "ensure that there are no more than 2 decimal places")
	}
	if item.Price.GreaterThanOrEqual(maxPrice) {
		return domain.Validation("price", "ensure that there are no more than 6 digits in total")
	}

	if item.CategoryID == nil {
		return nil
	}
	cat, err := s.repo.GetCategory(ctx, *item.CategoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Validation("category_id", "category %d does not exist", *item.CategoryID)
	}
	if err != nil {
		return err
	}
	if cat.RestaurantID != item.RestaurantID {
		return domain.Validation("category_id", "category %d belongs to another restaurant", cat.ID)
	}
	return nil
}

func (s *MenuService) authorized(ctx context.Context, p Principal, action Action, id int) (*domain.MenuItem, error) {
	if p.Kind == Anonymous {
		return nil, domain.Unauthenticated("authentication required")
	}
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.gateway.Check(ctx, p, action, item.RestaurantID); err != nil {
		return nil, err
	}
	return item, nil
}

// OrderPage returns what a customer sees after scanning a table's QR code:
// the restaurant, the table and the currently available menu.
func (s *MenuService) OrderPage(ctx context.Context, restaurantID, tableID int) (*domain.OrderPage, error) {
	rest, err := s.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	table, err := s.repo.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table.RestaurantID != restaurantID {
		return nil, domain.NotFound("table")
	}

	menu, err := s.menu(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	return &domain.OrderPage{
		Restaurant: *rest,
		Table:      *table,
		Categories: menu.Categories,
		MenuItems:  menu.Items,
	}, nil
}

func (s *MenuService) menu(ctx context.Context, restaurantID int) (*domain.Menu, error) {
	if s.cache != nil {
		menu, ok, err := s.cache.GetMenu(ctx, restaurantID)
		if err != nil {
			s.log.Warn("menu_cache", logger.RequestID(ctx), "menu cache read failed",
				slog.Int("restaurant_id", restaurantID), slog.String("error", err.Error()))
		} else if ok {
			return menu, nil
		}
	}

	scope := domain.Scope{RestaurantID: restaurantID}
	categories, err := s.repo.ListCategories(ctx, scope)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListMenuItems(ctx, scope, 0)
	if err != nil {
		return nil, err
	}

	menu := &domain.Menu{Categories: categories, Items: make([]domain.MenuItem, 0, len(items))}
	for _, item := range items {
		if item.Available {
			menu.Items = append(menu.Items, item)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, restaurantID, menu); err != nil {
			s.log.Warn("menu_cache", logger.RequestID(ctx), "menu cache write failed",
				slog.Int("restaurant_id", restaurantID), slog.String("error", err.Error()))
		}
	}
	return menu, nil
}

// invalidateMenu drops the cached public menu. A failure only delays
// freshness until the entry expires.
func invalidateMenu(ctx context.Context, cache MenuCache, restaurantID int) {
	if cache == nil {
		return
	}
	_ = cache.Invalidate(ctx, restaurantID)
}
