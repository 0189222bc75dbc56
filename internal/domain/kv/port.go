package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store port (persisted key-value state, the server side of browser localStorage)
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Checker is implemented by stores that can report their health.
type Checker interface {
	Check(ctx context.Context) error
}

// Fixed keys, one set per session.
const (
	KeyHistory        = "analysisHistory"
	KeyUnlocked       = "isUnlocked"
	KeyCookieAccepted = "cookieAccepted"
)

// SessionKey namespaces key under a session id.
func SessionKey(session, key string) string {
	return session + "/" + key
}
