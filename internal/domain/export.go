package domain

import (
	"fmt"
	"sort"
)

// ExportFilename returns the file name an annotation is exported under
func ExportFilename(a Annotation) string {
	return fmt.Sprintf("%s.%s%s", a.Hemisphere, a.ShortName, annotExt)
}

// BuildAnnotationFile rebuilds an annotation file from stored labels and
// vertex rows. Keys are compacted into colortable indices: index 0 holds the
// stored key 0 label, or Unlabeled when there is none, and the remaining
// labels follow in key order. Vertices without a row get index 0.
func BuildAnnotationFile(labels []Label, vertices []VertexAssignment, vertexCount int) (*AnnotationFile, error) {
	if vertexCount <= 0 {
		vertexCount = DefaultVertexCount
	}

	sorted := make([]Label, len(labels))
	copy(sorted, labels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	f := &AnnotationFile{VertexLabels: make([]int32, vertexCount)}
	index := make(map[int]int32, len(sorted)+1)

	if len(sorted) == 0 || sorted[0].Key != UnlabeledKey {
		f.ColorTable = append(f.ColorTable, ColorTableEntry{Color: UnlabeledColor})
		f.Names = append(f.Names, UnlabeledName)
		index[UnlabeledKey] = 0
	}
	for _, l := range sorted {
		index[l.Key] = int32(len(f.ColorTable))
		f.ColorTable = append(f.ColorTable, ColorTableEntry{Color: l.Color, Flag: l.Flag})
		f.Names = append(f.Names, l.Name)
	}

	for _, va := range vertices {
		if va.Vertex < 0 || va.Vertex >= vertexCount {
			return nil, fmt.Errorf("vertex %d outside [0, %d): %w", va.Vertex, vertexCount, ErrVertexOutOfRange)
		}
		idx, ok := index[va.LabelKey]
		if !ok {
			return nil, &IntegrityError{AnnotationID: va.AnnotationID, LabelKey: va.LabelKey}
		}
		f.VertexLabels[va.Vertex] = idx
	}
	return f, nil
}
