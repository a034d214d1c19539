package domain

import (
	"errors"
	"fmt"
)

// Catalog errors shared by the store and the application layer
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateAnnotation = errors.New("annotation already imported")
	ErrIntegrity           = errors.New("referential integrity violation")
)

// IntegrityError reports a mutation rejected because it would leave a
// vertex pointing at a missing label
type IntegrityError struct {
	AnnotationID int64
	LabelKey     int
	Err          error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("annotation %d label %d: %v", e.AnnotationID, e.LabelKey, e.Err)
	}
	return fmt.Sprintf("annotation %d label %d: %s", e.AnnotationID, e.LabelKey, ErrIntegrity)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
