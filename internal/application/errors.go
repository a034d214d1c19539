package application

import (
	"errors"
	"fmt"

	"anchorbar/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound            = domain.ErrNotFound
	ErrDuplicateAnnotation = domain.ErrDuplicateAnnotation
	ErrIntegrity           = domain.ErrIntegrity
	ErrUnknownHemisphere   = domain.ErrUnknownHemisphere
	ErrHemisphereMismatch  = errors.New("annotations belong to different hemispheres")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IntegrityError is returned when a mutation would orphan vertex rows
type IntegrityError = domain.IntegrityError

// ImportError represents the failure of one file in an import batch
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("cannot import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
