package storage

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables the service owns. Statements are
// idempotent so repeated startups against an existing database are safe.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			owner_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_partners (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			is_online BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
			customer_id INTEGER NOT NULL,
			delivery_partner_id INTEGER REFERENCES delivery_partners(id),
			status TEXT NOT NULL DEFAULT 'pending',
			delivery_status TEXT NOT NULL DEFAULT 'unassigned',
			rejection_reason TEXT,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			accepted_at TIMESTAMPTZ,
			ready_at TIMESTAMPTZ,
			handed_over_at TIMESTAMPTZ,
			assigned_at TIMESTAMPTZ,
			reached_restaurant_at TIMESTAMPTZ,
			picked_up_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ,
			released_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS device_tokens (
			id SERIAL PRIMARY KEY,
			token TEXT NOT NULL UNIQUE,
			owner_id INTEGER,
			customer_id INTEGER,
			delivery_partner_id INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (num_nonnulls(owner_id, customer_id, delivery_partner_id) = 1)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			owner_id INTEGER,
			customer_id INTEGER,
			delivery_partner_id INTEGER,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			notification_type TEXT NOT NULL,
			order_id INTEGER,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (num_nonnulls(owner_id, customer_id, delivery_partner_id) = 1)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_restaurant ON orders(restaurant_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_partner ON orders(delivery_partner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at)`,
		// Older deployments wrote mixed-case statuses; normalize once so the
		// closed lowercase enum holds everywhere.
		`UPDATE orders SET status = LOWER(status), delivery_status = LOWER(delivery_status)
			WHERE status <> LOWER(status) OR delivery_status <> LOWER(delivery_status)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
