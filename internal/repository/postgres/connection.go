package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
)

// NewConnection creates a new PostgreSQL database connection
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		stock_quantity INT NOT NULL DEFAULT 0,
		limit_per_customer INT NOT NULL DEFAULT 0,
		cf INT NOT NULL DEFAULT 0,
		paid INT NOT NULL DEFAULT 0,
		remaining INT NOT NULL DEFAULT 0,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		create_date TIMESTAMPTZ NOT NULL,
		update_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sale_orders (
		id UUID PRIMARY KEY,
		customer_fb_id TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		picture_payment TEXT,
		address TEXT NOT NULL DEFAULT '',
		sub_district TEXT NOT NULL DEFAULT '',
		sub_area TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		postcode TEXT NOT NULL DEFAULT '',
		tel TEXT NOT NULL DEFAULT '',
		channel TEXT NOT NULL DEFAULT 'Facebook',
		complete BOOLEAN NOT NULL DEFAULT FALSE,
		sent BOOLEAN NOT NULL DEFAULT FALSE,
		date_added TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_orders_customer_name ON sale_orders (customer_name)`,
	`CREATE TABLE IF NOT EXISTS sale_order_items (
		id UUID PRIMARY KEY,
		sale_order_id UUID NOT NULL REFERENCES sale_orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_order_items_product ON sale_order_items (product_id)`,
	`CREATE TABLE IF NOT EXISTS daily_stocks (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'new',
		channel TEXT NOT NULL DEFAULT 'Facebook',
		products JSONB NOT NULL DEFAULT '[]',
		price_total NUMERIC(12,2) NOT NULL DEFAULT 0,
		date_added TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		facebook_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		picture_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		picture_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// RunMigrations creates the schema if it does not exist yet
func RunMigrations(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
