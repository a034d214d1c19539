package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"anchorbar/internal/application"
	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

// ExportResult contains the result of an export
type ExportResult struct {
	Path     string
	Labels   int
	Vertices int
	Message  string
}

// ExportCommand writes a stored annotation back to an .annot file
type ExportCommand struct {
	catalog      ports.Catalog
	codec        ports.AnnotationCodec
	AnnotationID int64
	VertexCount  int
	OutputDir    string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(catalog ports.Catalog, codec ports.AnnotationCodec, annotationID int64) *ExportCommand {
	return &ExportCommand{
		catalog:      catalog,
		codec:        codec,
		AnnotationID: annotationID,
		VertexCount:  domain.DefaultVertexCount,
		OutputDir:    ".",
	}
}

// Validate checks the annotation id
func (c *ExportCommand) Validate() error {
	if err := application.ValidateID("annotationID", c.AnnotationID); err != nil {
		return err
	}
	if c.VertexCount <= 0 {
		return &application.ValidationError{
			Field:   "vertexCount",
			Message: fmt.Sprintf("vertex count must be positive, got %d", c.VertexCount),
		}
	}
	return nil
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	annot, err := c.catalog.GetAnnotation(ctx, c.AnnotationID)
	if err != nil {
		return nil, err
	}
	labels, err := c.catalog.ListLabels(ctx, c.AnnotationID)
	if err != nil {
		return nil, err
	}
	vertices, err := c.catalog.VertexAssignments(ctx, c.AnnotationID)
	if err != nil {
		return nil, err
	}

	file, err := domain.BuildAnnotationFile(labels, vertices, c.VertexCount)
	if err != nil {
		return nil, fmt.Errorf("failed to export annotation %d: %w", c.AnnotationID, err)
	}

	path := filepath.Join(c.OutputDir, domain.ExportFilename(*annot))
	if err := c.codec.Write(path, file); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return &ExportResult{
		Path:     path,
		Labels:   len(labels),
		Vertices: len(vertices),
		Message:  fmt.Sprintf("Exported annotation %d to %s", c.AnnotationID, path),
	}, nil
}
