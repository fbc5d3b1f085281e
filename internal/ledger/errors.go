// Package ledger holds the pure parts of the trip budget ledger: split
// computation, summary aggregation, input validation and the error taxonomy
// shared by the server service and the client pipeline. Callers match the
// sentinel errors with errors.Is and ValidationError with errors.As.
package ledger

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotAuthorized means the requester is not an active member of the
	// trip. Surfaced as 404 so trip existence is not leaked.
	ErrNotAuthorized = errors.New("not an active trip member")

	// ErrForbidden means the requester is a member but may not touch the item.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound = errors.New("not found")

	// ErrUpstream wraps failures of the authoritative store.
	ErrUpstream = errors.New("upstream failure")

	// ErrPartialFailure marks an item that was stored without (all of) its splits.
	ErrPartialFailure = errors.New("partial failure")

	ErrUnauthenticated = errors.New("unauthenticated")

	ErrNoMembers = errors.New("no active members to split between")

	// ErrTripFull rejects a join once max_members active members exist.
	ErrTripFull = errors.New("trip is full")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a message for field, keeping the first one if already set.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
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
	return "validation error: " + strings.Join(parts, "; ")
}

// orNil returns nil when no field failed.
func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
