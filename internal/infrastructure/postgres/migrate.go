package postgres

import (
	"context"
	"fmt"
)

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		id           TEXT PRIMARY KEY,
		product_name TEXT NOT NULL DEFAULT '',
		code         TEXT NOT NULL,
		price        DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		model        TEXT NOT NULL DEFAULT '',
		product_url  TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS product_events (
		pk            TEXT NOT NULL,
		sk            TEXT NOT NULL,
		event_type    TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		request_id    TEXT NOT NULL DEFAULT '',
		product_id    TEXT NOT NULL DEFAULT '',
		product_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL,
		expires_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (pk, sk)
	);

	CREATE INDEX IF NOT EXISTS product_events_expires_at_idx ON product_events (expires_at);
`

// Migrate creates the products and product_events tables when missing.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
