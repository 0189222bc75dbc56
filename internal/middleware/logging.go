package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/growthaudit/internal/logging"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		entry := logging.Log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     wrapped.statusCode,
			"duration":   time.Since(start).String(),
			"bytes":      wrapped.written,
			"ip":         clientIP(r),
			"session":    GetSessionFromContext(r.Context()),
			"user_agent": r.UserAgent(),
		})
		switch {
		case wrapped.statusCode >= 500:
			entry.Error("request")
		case wrapped.statusCode >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	})
}
