package catalog

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching at the HTTP and CLI boundaries
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("condition already exists")
	ErrPersistence = errors.New("catalog persistence failed")
)

// ValidationError reports a missing or malformed required field on insert
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError reports an insert whose normalized key is already present
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("condition %q already exists", e.Name)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
