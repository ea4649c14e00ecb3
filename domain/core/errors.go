package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound          = errors.New("resource not found")
	ErrFacultyNotFound   = fmt.Errorf("%w: faculty", ErrNotFound)
	ErrSourceUnavailable = errors.New("tabular source unavailable")
	ErrStoreFailed       = errors.New("document store failure")
	ErrUnauthorized      = errors.New("unauthorized")
)

// FacultyNotFoundError reports a lookup for an unknown faculty id together
// with the ids that are known.
type FacultyNotFoundError struct {
	ID    string
	Known []string
}

func (e *FacultyNotFoundError) Error() string {
	return fmt.Sprintf("faculty %q not found; available ids: [%s]", e.ID, strings.Join(e.Known, ", "))
}

func (e *FacultyNotFoundError) Unwrap() error {
	return ErrFacultyNotFound
}

// NewFacultyNotFoundError builds the not-found error for id.
func NewFacultyNotFoundError(id string, known []string) error {
	return &FacultyNotFoundError{ID: id, Known: append([]string(nil), known...)}
}

// NewSourceError wraps a tabular source failure for table.
func NewSourceError(table string, err error) error {
	return fmt.Errorf("%w: table %s: %w", ErrSourceUnavailable, table, err)
}

// NewStoreError wraps a document store failure.
func NewStoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailed, op, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailed)
}
