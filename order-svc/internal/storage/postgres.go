package storage

import (
	"context"
	"database/sql"
	"fmt"

	"qr-dine/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO restaurants (name, address, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at",
		rest.Name, rest.Address, rest.OwnerID,
	).Scan(&rest.ID, &rest.CreatedAt)
	return translate(err, "restaurant")
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, address, owner_id, created_at
		FROM restaurants
		WHERE id = $1`, id).
		Scan(&rest.ID, &rest.Name, &rest.Address, &rest.OwnerID, &rest.CreatedAt)
	if err != nil {
		return nil, translate(err, "restaurant")
	}
	return &rest, nil
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context, scope domain.Scope) ([]domain.Restaurant, error) {
	where, args := scopeClause(scope, nil)
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.name, r.address, r.owner_id, r.created_at
		FROM restaurants r`+where+`
		ORDER BY r.id`, args...)
	if err != nil {
		return nil, translate(err, "restaurant")
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.OwnerID, &rest.CreatedAt); err != nil {
			return nil, translate(err, "restaurant")
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx,
		"UPDATE restaurants SET name=$1, address=$2 WHERE id=$3 RETURNING owner_id, created_at",
		rest.Name, rest.Address, rest.ID).
		Scan(&rest.OwnerID, &rest.CreatedAt)
	return translate(err, "restaurant")
}

// DeleteRestaurant removes everything the restaurant owns, drops its staff
// profiles and detaches owner profiles, all in one transaction.
func (r *PostgresRepository) DeleteRestaurant(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := removeRestaurant(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func removeRestaurant(ctx context.Context, tx *sql.Tx, id int) error {
	steps := []struct {
		query string
		args  []any
	}{
		{"DELETE FROM order_items WHERE order_id IN (SELECT order_id FROM orders WHERE restaurant_id=$1)", []any{id}},
		{"DELETE FROM orders WHERE restaurant_id=$1", []any{id}},
		{"DELETE FROM dining_tables WHERE restaurant_id=$1", []any{id}},
		{"DELETE FROM order_items WHERE menu_item_id IN (SELECT id FROM menu_items WHERE restaurant_id=$1)", []any{id}},
		{"DELETE FROM menu_items WHERE restaurant_id=$1", []any{id}},
		{"DELETE FROM food_categories WHERE restaurant_id=$1", []any{id}},
		{"DELETE FROM profiles WHERE restaurant_id=$1 AND role=$2", []any{id, string(domain.RoleStaff)}},
		{"UPDATE profiles SET restaurant_id=NULL WHERE restaurant_id=$1", []any{id}},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
			return translate(err, "restaurant")
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM restaurants WHERE id=$1", id)
	return affectedOne(result, err, "restaurant")
}

// deleteWithDependents runs the dependent statements and then the final
// delete in one transaction. Every statement takes id as its only argument.
func (r *PostgresRepository) deleteWithDependents(ctx context.Context, what string, id any, dependents []string, final string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range dependents {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return translate(err, what)
		}
	}
	result, err := tx.ExecContext(ctx, final, id)
	if err := affectedOne(result, err, what); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresRepository) RestaurantNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM restaurants WHERE name=$1)", name).Scan(&exists)
	return exists, translate(err, "restaurant")
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, cat *domain.FoodCategory) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO food_categories (restaurant_id, name, description) VALUES ($1, $2, $3) RETURNING id",
		cat.RestaurantID, cat.Name, cat.Description,
	).Scan(&cat.ID)
	return translate(err, "category")
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int) (*domain.FoodCategory, error) {
	var cat domain.FoodCategory
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, restaurant_id, name, description FROM food_categories WHERE id = $1", id).
		Scan(&cat.ID, &cat.RestaurantID, &cat.Name, &cat.Description)
	if err != nil {
		return nil, translate(err, "category")
	}
	return &cat, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, scope domain.Scope) ([]domain.FoodCategory, error) {
	where, args := scopeClause(scope, nil)
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.restaurant_id, c.name, c.description
		FROM food_categories c
		JOIN restaurants r ON r.id = c.restaurant_id`+where+`
		ORDER BY c.id`, args...)
	if err != nil {
		return nil, translate(err, "category")
	}
	defer rows.Close()

	categories := []domain.FoodCategory{}
	for rows.Next() {
		var cat domain.FoodCategory
		if err := rows.Scan(&cat.ID, &cat.RestaurantID, &cat.Name, &cat.Description); err != nil {
			return nil, translate(err, "category")
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, cat *domain.FoodCategory) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE food_categories SET name=$1, description=$2 WHERE id=$3",
		cat.Name, cat.Description, cat.ID)
	return affectedOne(result, err, "category")
}

// DeleteCategory leaves the category's menu items in place with no category.
func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int) error {
	return r.deleteWithDependents(ctx, "category", id,
		[]string{"UPDATE menu_items SET category_id=NULL WHERE category_id=$1"},
		"DELETE FROM food_categories WHERE id=$1")
}

const menuItemColumns = "m.id, m.restaurant_id, m.name, m.description, m.price, m.category_id, m.available, m.image_url"

func scanMenuItem(row interface{ Scan(...any) error }) (domain.MenuItem, error) {
	var (
		item       domain.MenuItem
		categoryID sql.NullInt64
	)
	err := row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &categoryID, &item.Available, &item.ImageURL)
	if categoryID.Valid {
		id := int(categoryID.Int64)
		item.CategoryID = &id
	}
	return item, err
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category_id, available, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.RestaurantID, item.Name, item.Description, item.Price, nullableInt(item.CategoryID), item.Available, item.ImageURL,
	).Scan(&item.ID)
	return translate(err, "menu item")
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items m WHERE m.id = $1", id))
	if err != nil {
		return nil, translate(err, "menu item")
	}
	return &item, nil
}

// GetMenuItems loads the given items keyed by id. Unknown ids are absent from
// the result.
func (r *PostgresRepository) GetMenuItems(ctx context.Context, ids []int) (map[int]domain.MenuItem, error) {
	items := make(map[int]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, int64(id))
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuItemColumns+" FROM menu_items m WHERE m.id = ANY($1)", pq.Array(keys))
	if err != nil {
		return nil, translate(err, "menu item")
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, translate(err, "menu item")
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, scope domain.Scope, categoryID int) ([]domain.MenuItem, error) {
	where, args := scopeClause(scope, nil)
	if categoryID != 0 {
		args = append(args, categoryID)
		where = and(where, fmt.Sprintf("m.category_id = $%d", len(args)))
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items m
		JOIN restaurants r ON r.id = m.restaurant_id`+where+`
		ORDER BY m.id`, args...)
	if err != nil {
		return nil, translate(err, "menu item")
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, translate(err, "menu item")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE menu_items
		SET name=$1, description=$2, price=$3, category_id=$4, available=$5, image_url=$6
		WHERE id=$7`,
		item.Name, item.Description, item.Price, nullableInt(item.CategoryID), item.Available, item.ImageURL, item.ID)
	return affectedOne(result, err, "menu item")
}

// DeleteMenuItem also removes order lines that reference the item.
func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) error {
	return r.deleteWithDependents(ctx, "menu item", id,
		[]string{"DELETE FROM order_items WHERE menu_item_id=$1"},
		"DELETE FROM menu_items WHERE id=$1")
}

func affectedOne(result sql.Result, err error, what string) error {
	if err != nil {
		return translate(err, what)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(what)
	}
	return nil
}
