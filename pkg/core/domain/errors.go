package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both missing records and records the caller may not see.
	ErrNotFound        = errors.New("not found")
	ErrDataIntegrity   = errors.New("data integrity violation")
	ErrUnknownInterval = errors.New("unknown interval")
)

// ValidationError collects per-field input problems.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add keeps the first message recorded for a field.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns nil when nothing was recorded so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
