package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skateshop/storefront/internal/infrastructure/db"
)

// CartStorageRepository persists serialized carts in Postgres, one row per storage key.
type CartStorageRepository struct {
	db  *db.Database
	ttl time.Duration
}

// NewCartStorageRepository creates a Postgres cart storage. Rows untouched for longer
// than ttl read as absent; ttl <= 0 keeps them forever.
func NewCartStorageRepository(database *db.Database, ttl time.Duration) *CartStorageRepository {
	return &CartStorageRepository{db: database, ttl: ttl}
}

// Read implements ports.CartStorage.
func (r *CartStorageRepository) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var row struct {
		Payload   []byte    `db:"payload"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	query := `SELECT payload, updated_at FROM cart_storage WHERE storage_key = $1`

	err := r.db.DB.GetContext(ctx, &row, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cart %s: %w", key, err)
	}
	if r.ttl > 0 && time.Since(row.UpdatedAt) > r.ttl {
		return nil, false, nil
	}
	return row.Payload, true, nil
}

// Write implements ports.CartStorage.
func (r *CartStorageRepository) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO cart_storage (storage_key, payload, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (storage_key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := r.db.DB.ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("failed to write cart %s: %w", key, err)
	}
	return nil
}

// DeleteExpired removes carts untouched for longer than the configured ttl.
func (r *CartStorageRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}
	res, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM cart_storage WHERE updated_at < $1`, time.Now().Add(-r.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired carts: %w", err)
	}
	return res.RowsAffected()
}
