package commands

import (
	"context"

	"anchorbar/internal/application"
	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

// ListAnnotationsCommand lists every cataloged annotation
type ListAnnotationsCommand struct {
	catalog ports.Catalog
}

// NewListAnnotationsCommand creates a new ListAnnotationsCommand
func NewListAnnotationsCommand(catalog ports.Catalog) *ListAnnotationsCommand {
	return &ListAnnotationsCommand{catalog: catalog}
}

// Execute runs the list annotations command
func (c *ListAnnotationsCommand) Execute(ctx context.Context) ([]domain.Annotation, error) {
	return c.catalog.ListAnnotations(ctx)
}

// ListLabelsCommand lists the labels of one annotation
type ListLabelsCommand struct {
	catalog      ports.Catalog
	AnnotationID int64
}

// NewListLabelsCommand creates a new ListLabelsCommand
func NewListLabelsCommand(catalog ports.Catalog, annotationID int64) *ListLabelsCommand {
	return &ListLabelsCommand{
		catalog:      catalog,
		AnnotationID: annotationID,
	}
}

// Validate checks the annotation id
func (c *ListLabelsCommand) Validate() error {
	return application.ValidateID("annotationID", c.AnnotationID)
}

// Execute runs the list labels command. An unknown annotation is ErrNotFound.
func (c *ListLabelsCommand) Execute(ctx context.Context) ([]domain.Label, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := c.catalog.GetAnnotation(ctx, c.AnnotationID); err != nil {
		return nil, err
	}
	return c.catalog.ListLabels(ctx, c.AnnotationID)
}
