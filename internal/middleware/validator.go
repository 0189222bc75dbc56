package middleware

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// MaxInputLength bounds the handle/link text accepted for an audit.
const MaxInputLength = 512

var (
	sessionPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	historyIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)
)

// ValidateSessionID validates session id format
func ValidateSessionID(session string) error {
	if session == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if !sessionPattern.MatchString(session) {
		return fmt.Errorf("invalid session ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateHistoryID validates history entry id format
func ValidateHistoryID(id string) error {
	if id == "" {
		return fmt.Errorf("history ID cannot be empty")
	}
	if !historyIDPattern.MatchString(id) {
		return fmt.Errorf("invalid history ID format")
	}
	return nil
}

// ValidateInput rejects audit input that is too long to be a handle or link.
// Empty input is left to the service so the client gets the localized message.
func ValidateInput(input string) error {
	if utf8.RuneCountInString(input) > MaxInputLength {
		return fmt.Errorf("input too long (max %d characters)", MaxInputLength)
	}
	return nil
}

// ValidateLimit clamps a list limit into [1, upper], def when unset.
func ValidateLimit(limit, def, upper int) int {
	if limit <= 0 {
		return def
	}
	if limit > upper {
		return upper
	}
	return limit
}
