package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"anchorbar/internal/domain"
)

// meshImport labels every vertex of a full-size mesh in runs of 64 vertices,
// cycling through the labels starting at shift
func meshImport(fingerprint string, labels, shift int) *domain.AnnotationImport {
	imp := &domain.AnnotationImport{Annotation: domain.Annotation{
		Fingerprint: fingerprint,
		ShortName:   fingerprint,
		Hemisphere:  domain.HemisphereLeft,
		Path:        "/bench",
		Filename:    "lh." + fingerprint + ".annot",
	}}
	for key := 0; key <= labels; key++ {
		imp.Labels = append(imp.Labels, domain.Label{
			Key:        key,
			Hemisphere: domain.HemisphereLeft,
			Name:       fmt.Sprintf("%s_%d", fingerprint, key),
			Color:      domain.Color{R: key % 256, G: (key * 7) % 256, B: (key * 13) % 256},
		})
	}
	for v := 0; v < domain.DefaultVertexCount; v++ {
		imp.Vertices = append(imp.Vertices, domain.VertexAssignment{
			Vertex:   v,
			LabelKey: 1 + (v/64+shift)%labels,
		})
	}
	return imp
}

// BenchmarkImport benchmarks importing one fully labeled hemisphere
func BenchmarkImport(b *testing.B) {
	c := NewCatalog(nil)
	if err := c.Open(filepath.Join(b.TempDir(), "bench.db")); err != nil {
		b.Fatalf("failed to open catalog: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			b.Fatalf("failed to close catalog: %v", err)
		}
	}()

	ctx := context.Background()
	i := 0
	for b.Loop() {
		imp := meshImport(fmt.Sprintf("a%d", i), 180, 0)
		if _, err := c.Import(ctx, imp); err != nil {
			b.Fatalf("import failed: %v", err)
		}
		i++
	}
}

// BenchmarkMerge benchmarks the set queries plus the merge of two full
// hemispheres (DB already populated)
func BenchmarkMerge(b *testing.B) {
	c := NewCatalog(nil)
	if err := c.Open(filepath.Join(b.TempDir(), "bench.db")); err != nil {
		b.Fatalf("failed to open catalog: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	left, err := c.Import(ctx, meshImport("aparc", 36, 0))
	if err != nil {
		b.Fatalf("import failed: %v", err)
	}
	right, err := c.Import(ctx, meshImport("glasser", 180, 5))
	if err != nil {
		b.Fatalf("import failed: %v", err)
	}

	for _, p := range []domain.Policy{domain.PolicyIntersect, domain.PolicyUnion} {
		b.Run(p.String(), func(b *testing.B) {
			for b.Loop() {
				var rows []domain.MergeRow
				if p == domain.PolicyIntersect {
					rows, err = c.IntersectRows(ctx, left, right)
				} else {
					rows, err = c.UnionRows(ctx, left, right)
				}
				if err != nil {
					b.Fatalf("query failed: %v", err)
				}
				if _, err := domain.Merge(rows, domain.MergeOptions{Policy: p}); err != nil {
					b.Fatalf("merge failed: %v", err)
				}
			}
		})
	}
}
