package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/growthaudit/internal/domain/kv"
)

// KVRepository is the default durable store: a single sqlite file.
type KVRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*KVRepository, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv_entries (
  k          TEXT     PRIMARY KEY,
  v          BLOB     NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`); err != nil {
		db.Close()
		return nil, err
	}
	return &KVRepository{db: db}, nil
}

func (r *KVRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k=?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (k, v, updated_at)
VALUES (?,?,?)
ON CONFLICT(k) DO UPDATE SET
  v=excluded.v,
  updated_at=excluded.updated_at;`
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
	return r.db.PingContext(ctx)
}
