package fetchcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/folkz/storeadmin/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string, now time.Time) (*Entry, error) {
	var (
		e         Entry
		fetchedMs int64
		ttlMs     int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT key, resource, store_id, payload, fetched_at, ttl_ms
		FROM fetch_cache WHERE key = ?
	`, key).Scan(&e.Key, &e.Resource, &e.StoreID, &e.Payload, &fetchedMs, &ttlMs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry[%s]: %w", key, err)
	}
	e.FetchedAt = time.UnixMilli(fetchedMs)
	e.TTL = time.Duration(ttlMs) * time.Millisecond

	if !e.Valid(now) {
		if err := r.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &e, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fetch_cache (key, resource, store_id, payload, fetched_at, ttl_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			resource = excluded.resource,
			store_id = excluded.store_id,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			ttl_ms = excluded.ttl_ms
	`, e.Key, e.Resource, e.StoreID, e.Payload, e.FetchedAt.UnixMilli(), e.TTL.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to put cache entry[%s]: %w", e.Key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fetch_cache WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByStore(ctx context.Context, storeID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fetch_cache WHERE store_id = ?`, storeID)
	if err != nil {
		return fmt.Errorf("failed to delete cache entries for store %d: %w", storeID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fetch_cache`)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
