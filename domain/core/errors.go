package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrDatabaseNotFound  = fmt.Errorf("%w: database", ErrNotFound)
	ErrDimensionNotFound = fmt.Errorf("%w: dimension", ErrNotFound)
	ErrRowNotFound       = fmt.Errorf("%w: row", ErrNotFound)
	ErrOrderingNotFound  = fmt.Errorf("%w: axis ordering", ErrNotFound)

	// Load errors
	ErrStructural   = errors.New("structural error")
	ErrAxisOrdering = errors.New("axis ordering warning")
	ErrIngestion    = errors.New("ingestion failure")
	ErrStaleLoad    = errors.New("load superseded by a newer request")

	// Session errors
	ErrNoDataset    = errors.New("no dataset loaded")
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

func NewIngestionError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIngestion, path, err)
}

func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStructuralError(err error) bool {
	return errors.Is(err, ErrStructural)
}

func IsIngestionError(err error) bool {
	return errors.Is(err, ErrIngestion)
}

func IsStaleLoad(err error) bool {
	return errors.Is(err, ErrStaleLoad)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
