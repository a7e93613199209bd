package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

// EventRepository stores event records in product_events. Postgres has no
// row TTL, so expired rows are removed by PurgeExpired (see worker.Sweeper).
type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Put(ctx context.Context, rec event.Record) error {
	const sql = `
		INSERT INTO product_events (pk, sk, event_type, email, request_id, product_id, product_price, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, sql,
		rec.PK, rec.SK, string(rec.EventType), rec.Email, rec.RequestID,
		rec.Info.ProductID, rec.Info.Price, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert product event: %w", err)
	}

	return nil
}

func (r *EventRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const sql = `DELETE FROM product_events WHERE expires_at <= $1`

	tag, err := r.db.Exec(ctx, sql, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired product events: %w", err)
	}

	return tag.RowsAffected(), nil
}
