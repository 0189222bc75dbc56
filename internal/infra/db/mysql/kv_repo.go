package mysql

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
  k          VARCHAR(255) NOT NULL PRIMARY KEY,
  v          LONGBLOB     NOT NULL,
  updated_at DATETIME(3)  NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT v FROM kv_entries WHERE k=?`
	var v []byte
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set upserts key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (k, v, updated_at)
VALUES (?,?,?)
ON DUPLICATE KEY UPDATE
  v=VALUES(v), updated_at=VALUES(updated_at);`
	if value == nil {
		value = []byte{}
	}
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UTC())
	return err
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE k=?`, key)
	return err
}

func (r *KVRepository) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
