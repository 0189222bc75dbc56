package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
)

type KVRepository struct {
	db *sql.DB
}

func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// EnsureSchema creates the kv table when missing.
func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS kv_entries (
  k          TEXT        PRIMARY KEY,
  v          BYTEA       NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k=$1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set inserts or updates key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (k, v, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (k) DO UPDATE SET
  v=EXCLUDED.v,
  updated_at=EXCLUDED.updated_at;`
	if value == nil {
		value = []byte{}
	}
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UTC())
	return err
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE k=$1`, key)
	return err
}

func (r *KVRepository) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
