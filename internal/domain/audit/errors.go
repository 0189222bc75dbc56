package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	ErrEmptyInput      = errors.New("input is empty")
	ErrLocked          = errors.New("session is locked, follow to unlock")
	ErrSuperseded      = errors.New("analysis superseded by a newer submission")
	ErrHistoryNotFound = errors.New("history item not found")
)

// AnalysisError is the single failure a remote analysis can produce.
// Network, parse and schema failures all collapse into it; Cause is kept
// for diagnostics only.
type AnalysisError struct {
	Provider string
	Cause    error
}

func (e *AnalysisError) Error() string {
	if e.Provider == "" {
		return "analysis failed"
	}
	return fmt.Sprintf("analysis failed (%s)", e.Provider)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// NewAnalysisError wraps cause, leaving an existing AnalysisError untouched.
func NewAnalysisError(provider string, cause error) error {
	var ae *AnalysisError
	if errors.As(cause, &ae) {
		if ae.Provider == "" {
			ae.Provider = provider
		}
		return ae
	}
	return &AnalysisError{Provider: provider, Cause: cause}
}

// ValidationError describes a result that violates the response shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
