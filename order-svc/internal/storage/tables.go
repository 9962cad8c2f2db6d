package storage

import (
	"context"

	"qr-dine/order-svc/internal/domain"
)

func (r *PostgresRepository) ListTableIDs(ctx context.Context, restaurantID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT table_id FROM dining_tables WHERE restaurant_id = $1", restaurantID)
	if err != nil {
		return nil, translate(err, "table")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "table")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertTable fails with domain.ErrDuplicate when table.TableID is already
// taken in the restaurant.
func (r *PostgresRepository) InsertTable(ctx context.Context, table *domain.Table) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO dining_tables (restaurant_id, name, table_id) VALUES ($1, $2, $3) RETURNING id",
		table.RestaurantID, table.Name, table.TableID,
	).Scan(&table.ID)
	return translate(err, "table")
}

func (r *PostgresRepository) GetTable(ctx context.Context, id int) (*domain.Table, error) {
	var t domain.Table
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, restaurant_id, name, table_id FROM dining_tables WHERE id = $1", id).
		Scan(&t.ID, &t.RestaurantID, &t.Name, &t.TableID)
	if err != nil {
		return nil, translate(err, "table")
	}
	return &t, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context, scope domain.Scope) ([]domain.Table, error) {
	where, args := scopeClause(scope, nil)
	rows, err := r.DB.QueryContext(ctx, `
		SELECT t.id, t.restaurant_id, t.name, t.table_id
		FROM dining_tables t
		JOIN restaurants r ON r.id = t.restaurant_id`+where+`
		ORDER BY t.restaurant_id, t.table_id`, args...)
	if err != nil {
		return nil, translate(err, "table")
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.TableID); err != nil {
			return nil, translate(err, "table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// DeleteTable also removes the table's orders.
func (r *PostgresRepository) DeleteTable(ctx context.Context, id int) error {
	return r.deleteWithDependents(ctx, "table", id,
		[]string{
			"DELETE FROM order_items WHERE order_id IN (SELECT order_id FROM orders WHERE table_id=$1)",
			"DELETE FROM orders WHERE table_id=$1",
		},
		"DELETE FROM dining_tables WHERE id=$1")
}
