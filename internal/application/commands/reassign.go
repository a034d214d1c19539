package commands

import (
	"context"
	"fmt"

	"anchorbar/internal/application"
	"anchorbar/internal/ports"
)

// ReassignResult contains the result of a reassign operation
type ReassignResult struct {
	AnnotationID int64
	OldKey       int
	NewKey       int
	Moved        int64
	Message      string
}

// ReassignCommand moves every vertex of one label onto another label of the
// same annotation and removes the old label
type ReassignCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
	OldKey       int
	NewKey       int
}

// NewReassignCommand creates a new ReassignCommand
func NewReassignCommand(catalog ports.Catalog, annotationID int64, oldKey, newKey int) *ReassignCommand {
	return &ReassignCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
		OldKey:       oldKey,
		NewKey:       newKey,
	}
}

// Validate checks the keys
func (c *ReassignCommand) Validate() error {
	if err := application.ValidateID("annotationID", c.AnnotationID); err != nil {
		return err
	}
	if err := application.ValidateLabelKey("oldKey", c.OldKey); err != nil {
		return err
	}
	if err := application.ValidateLabelKey("newKey", c.NewKey); err != nil {
		return err
	}
	if c.OldKey == c.NewKey {
		return &application.ValidationError{
			Field:   "newKey",
			Message: fmt.Sprintf("cannot reassign label %d to itself", c.OldKey),
		}
	}
	return nil
}

// Execute runs the reassign command
func (c *ReassignCommand) Execute(ctx context.Context) (*ReassignResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	moved, err := c.catalog.ReassignLabel(ctx, c.AnnotationID, c.OldKey, c.NewKey)
	if err != nil {
		return nil, err
	}

	return &ReassignResult{
		AnnotationID: c.AnnotationID,
		OldKey:       c.OldKey,
		NewKey:       c.NewKey,
		Moved:        moved,
		Message: fmt.Sprintf("Reassigned %d vertices of annotation %d from label %d to label %d",
			moved, c.AnnotationID, c.OldKey, c.NewKey),
	}, nil
}
