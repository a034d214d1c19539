package ports

import (
	"context"

	"anchorbar/internal/domain"
)

// DropStats counts the rows removed when an annotation is dropped
type DropStats struct {
	Vertices int64
	Labels   int64
}

// Catalog provides persistent, referentially consistent storage of annotations.
// Every multi-row mutation runs in a single transaction.
type Catalog interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Import inserts an annotation with its labels and vertices atomically.
	// Returns ErrDuplicateAnnotation when the fingerprint is already stored.
	Import(ctx context.Context, imp *domain.AnnotationImport) (int64, error)

	// Queries
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Annotation, error)
	GetAnnotation(ctx context.Context, id int64) (*domain.Annotation, error)
	ListAnnotations(ctx context.Context) ([]domain.Annotation, error)
	ListLabels(ctx context.Context, annotationID int64) ([]domain.Label, error)
	VertexAssignments(ctx context.Context, annotationID int64) ([]domain.VertexAssignment, error)

	// Edits
	RenameAnnotation(ctx context.Context, id int64, shortName string) error
	RenameLabel(ctx context.Context, annotationID int64, key int, name string) error
	SetLabelAbbrev(ctx context.Context, annotationID int64, key int, abbrev string) error
	ReassignLabel(ctx context.Context, annotationID int64, oldKey, newKey int) (int64, error)
	DropAnnotation(ctx context.Context, id int64) (*DropStats, error)

	// Set-operation inputs, oriented so Left is always annotation a
	IntersectRows(ctx context.Context, a, b int64) ([]domain.MergeRow, error)
	UnionRows(ctx context.Context, a, b int64) ([]domain.MergeRow, error)
}
