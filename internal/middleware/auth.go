package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	ClientKey  contextKey = "client"
	SessionKey contextKey = "session"
)

// SessionHeader carries the caller's session id.
const SessionHeader = "X-Session-ID"

// DefaultSession is used when the caller sends no session header.
const DefaultSession = "anonymous"

func isProbe(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/healthz/")
}

// APIKeyAuth validates the API key from the Authorization header. keys maps
// client name to key; an empty map disables the check.
func APIKeyAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// "Bearer <key>" atau "<key>"
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			var client string
			for name, key := range keys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					client = name
					break
				}
			}
			if client == "" {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClientKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientFromContext returns the authenticated client name, if any.
func GetClientFromContext(ctx context.Context) string {
	if c, ok := ctx.Value(ClientKey).(string); ok {
		return c
	}
	return ""
}

// Session reads X-Session-ID into the request context, rejecting malformed ids.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := strings.TrimSpace(r.Header.Get(SessionHeader))
		if session == "" {
			session = DefaultSession
		} else if err := ValidateSessionID(session); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext returns the session id set by Session.
func GetSessionFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(SessionKey).(string); ok {
		return s
	}
	return DefaultSession
}
