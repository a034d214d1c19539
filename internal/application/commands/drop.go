package commands

import (
	"context"
	"fmt"

	"anchorbar/internal/application"
	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

// DropResult contains the result of a drop operation
type DropResult struct {
	Annotation domain.Annotation
	Vertices   int64
	Labels     int64
	Message    string
}

// DropCommand removes an annotation with all of its labels and vertices
type DropCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
}

// NewDropCommand creates a new DropCommand
func NewDropCommand(catalog ports.Catalog, annotationID int64) *DropCommand {
	return &DropCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
	}
}

// Validate checks the annotation id
func (c *DropCommand) Validate() error {
	return application.ValidateID("annotationID", c.AnnotationID)
}

// Execute runs the drop command
func (c *DropCommand) Execute(ctx context.Context) (*DropResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	annot, err := c.catalog.GetAnnotation(ctx, c.AnnotationID)
	if err != nil {
		return nil, err
	}

	stats, err := c.catalog.DropAnnotation(ctx, c.AnnotationID)
	if err != nil {
		return nil, err
	}

	return &DropResult{
		Annotation: *annot,
		Vertices:   stats.Vertices,
		Labels:     stats.Labels,
		Message: fmt.Sprintf("Dropped annotation %d (%s %s): %d labels, %d vertices",
			annot.ID, annot.Hemisphere, annot.ShortName, stats.Labels, stats.Vertices),
	}, nil
}
