package storage

import (
	"context"
	"fmt"
)

// The repository deletes dependent rows itself; the ON DELETE rules below
// only keep rows written outside this service consistent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(150) NOT NULL,
		email         VARCHAR(254) NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT users_username_key UNIQUE (username),
		CONSTRAINT users_email_key UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(100) NOT NULL,
		address    TEXT NOT NULL DEFAULT '',
		owner_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT restaurants_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id            SERIAL PRIMARY KEY,
		user_id       INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		role          VARCHAR(10) NOT NULL,
		restaurant_id INTEGER REFERENCES restaurants(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS food_categories (
		id            SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name          VARCHAR(100) NOT NULL,
		description   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name          VARCHAR(200) NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		price         NUMERIC(6, 2) NOT NULL,
		category_id   INTEGER REFERENCES food_categories(id) ON DELETE SET NULL,
		available     BOOLEAN NOT NULL DEFAULT TRUE,
		image_url     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS dining_tables (
		id            SERIAL PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		name          VARCHAR(50) NOT NULL,
		table_id      VARCHAR(20) NOT NULL,
		CONSTRAINT dining_tables_restaurant_id_table_id_key UNIQUE (restaurant_id, table_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id      VARCHAR(30) NOT NULL,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		table_id      INTEGER NOT NULL REFERENCES dining_tables(id) ON DELETE CASCADE,
		order_time    TIMESTAMPTZ NOT NULL,
		status        VARCHAR(20) NOT NULL DEFAULT 'Pending',
		total_cost    NUMERIC(8, 2) NOT NULL DEFAULT 0,
		CONSTRAINT orders_pkey PRIMARY KEY (order_id)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_restaurant_time_idx ON orders (restaurant_id, order_time DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           SERIAL PRIMARY KEY,
		order_id     VARCHAR(30) NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		menu_item_id INTEGER NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
		quantity     INTEGER NOT NULL CHECK (quantity > 0)
	)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
