package storage

import (
	"context"
	"fmt"

	"qr-dine/order-svc/internal/domain"

	"github.com/lib/pq"
)

// CreateOrder stores the order and its lines in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_id, restaurant_id, table_id, order_time, status, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.OrderID, order.RestaurantID, order.TableID, order.OrderTime, string(order.Status), order.TotalCost,
	); err != nil {
		return translate(err, "order")
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity)
			VALUES ($1, $2, $3)`,
			order.OrderID, item.MenuItemID, item.Quantity,
		); err != nil {
			return translate(err, "order item")
		}
	}

	return tx.Commit()
}

const orderSelect = `
		SELECT o.order_id, o.restaurant_id, o.table_id, t.name, t.table_id, o.order_time, o.status, o.total_cost
		FROM orders o
		JOIN dining_tables t ON t.id = o.table_id
		JOIN restaurants r ON r.id = o.restaurant_id`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.OrderID, &o.RestaurantID, &o.TableID, &o.TableName, &o.TableCode, &o.OrderTime, &status, &o.TotalCost)
	o.Status = domain.OrderStatus(status)
	o.Items = []domain.OrderItem{}
	return o, err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+`
		WHERE o.order_id = $1`, orderID))
	if err != nil {
		return nil, translate(err, "order")
	}

	orders := []domain.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListOrders returns matching orders most recent first, each with its lines.
func (r *PostgresRepository) ListOrders(ctx context.Context, scope domain.Scope, status domain.OrderStatus) ([]domain.Order, error) {
	where, args := scopeClause(scope, nil)
	if status != "" {
		args = append(args, string(status))
		where = and(where, fmt.Sprintf("o.status = $%d", len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, orderSelect+where+`
		ORDER BY o.order_time DESC, o.order_id DESC`, args...)
	if err != nil {
		return nil, translate(err, "order")
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, translate(err, "order")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the lines of all given orders with one query. Line
// prices are the menu items' current prices.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.OrderID)
		index[o.OrderID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT oi.order_id, oi.menu_item_id, m.name, oi.quantity, m.price
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, pq.Array(ids))
	if err != nil {
		return translate(err, "order item")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.MenuItemID, &item.MenuItemName, &item.Quantity, &item.Price); err != nil {
			return translate(err, "order item")
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

// UpdateOrderStatus moves an order from one status to another and reports
// false when the order was not in status from.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=$1 WHERE order_id=$2 AND status=$3",
		string(to), orderID, string(from))
	if err != nil {
		return false, translate(err, "order")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteOrder removes the order together with its lines.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, orderID string) error {
	return r.deleteWithDependents(ctx, "order", orderID,
		[]string{"DELETE FROM order_items WHERE order_id=$1"},
		"DELETE FROM orders WHERE order_id=$1")
}
