package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"anchorbar/internal/application"
	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

// SetOperationResult contains the result of an intersect or union
type SetOperationResult struct {
	Path     string
	Vertices int // Vertices carrying a merged label
	Labels   int // Merged labels, excluding Unlabeled
	Message  string
}

// SetOperationCommand intersects or unions two annotations and writes the
// merged annotation file
type SetOperationCommand struct {
	catalog     ports.Catalog
	codec       ports.AnnotationCodec
	Policy      domain.Policy
	LeftID      int64
	RightID     int64
	VertexCount int
	OutputDir   string
}

// NewSetOperationCommand creates a new SetOperationCommand
func NewSetOperationCommand(catalog ports.Catalog, codec ports.AnnotationCodec, policy domain.Policy, leftID, rightID int64) *SetOperationCommand {
	return &SetOperationCommand{
		catalog:     catalog,
		codec:       codec,
		Policy:      policy,
		LeftID:      leftID,
		RightID:     rightID,
		VertexCount: domain.DefaultVertexCount,
		OutputDir:   ".",
	}
}

// Validate checks the operands
func (c *SetOperationCommand) Validate() error {
	if c.Policy != domain.PolicyIntersect && c.Policy != domain.PolicyUnion {
		return &application.ValidationError{
			Field:   "policy",
			Message: fmt.Sprintf("unsupported set operation: %s", c.Policy),
		}
	}
	if err := application.ValidateID("leftID", c.LeftID); err != nil {
		return err
	}
	if err := application.ValidateID("rightID", c.RightID); err != nil {
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

// Execute runs the set operation
func (c *SetOperationCommand) Execute(ctx context.Context) (*SetOperationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	left, err := c.catalog.GetAnnotation(ctx, c.LeftID)
	if err != nil {
		return nil, err
	}
	right, err := c.catalog.GetAnnotation(ctx, c.RightID)
	if err != nil {
		return nil, err
	}
	if left.Hemisphere != right.Hemisphere {
		return nil, fmt.Errorf("%d (%s) and %d (%s): %w",
			left.ID, left.Hemisphere, right.ID, right.Hemisphere, application.ErrHemisphereMismatch)
	}

	var rows []domain.MergeRow
	switch c.Policy {
	case domain.PolicyIntersect:
		rows, err = c.catalog.IntersectRows(ctx, c.LeftID, c.RightID)
	case domain.PolicyUnion:
		rows, err = c.catalog.UnionRows(ctx, c.LeftID, c.RightID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s rows: %w", c.Policy, err)
	}

	merged, err := domain.Merge(rows, domain.MergeOptions{Policy: c.Policy, VertexCount: c.VertexCount})
	if err != nil {
		return nil, fmt.Errorf("failed to %s annotations %d and %d: %w", c.Policy, c.LeftID, c.RightID, err)
	}

	name := domain.MergedFilename(left.Hemisphere, left.ShortName, right.ShortName, c.Policy)
	path := filepath.Join(c.OutputDir, name)
	if err := c.codec.Write(path, merged.File()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return &SetOperationResult{
		Path:     path,
		Vertices: merged.Count(),
		Labels:   merged.Table.Len() - 1,
		Message:  fmt.Sprintf("Saved annotation set operation to %s", path),
	}, nil
}
