package domain

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Merge errors
var (
	ErrVertexOutOfRange  = errors.New("vertex index outside the mesh")
	ErrConflictingVertex = errors.New("vertex assigned to conflicting merged labels")
	ErrMissingSide       = errors.New("merge row missing a label side")
)

// Policy selects how two annotations are combined
type Policy int

const (
	PolicyIntersect Policy = iota + 1
	PolicyUnion
)

func (p Policy) String() string {
	switch p {
	case PolicyIntersect:
		return "intersect"
	case PolicyUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Operator returns the marker joining the operand names in a merged filename
func (p Policy) Operator() string {
	switch p {
	case PolicyIntersect:
		return ".AND."
	case PolicyUnion:
		return ".OR."
	default:
		return "_"
	}
}

// MergedFilename derives the output file name of a set operation,
// e.g. lh.aparc.AND.HCP-MMP1.annot
func MergedFilename(h Hemisphere, left, right string, p Policy) string {
	return h.String() + "." + left + p.Operator() + right + annotExt
}

// LabelSide is one annotation's contribution to a merged vertex. Present is
// false for the missing side of a union row.
type LabelSide struct {
	Present bool
	Name    string
	Abbrev  string
	Color   Color
}

// token is the part of the merged name contributed by this side
func (s LabelSide) token() string {
	switch {
	case s.Abbrev != "":
		return s.Abbrev
	case s.Name != "":
		return s.Name
	default:
		return "NULL"
	}
}

// MergeRow is one joined vertex as produced by the catalog's set queries
type MergeRow struct {
	Vertex     int
	Hemisphere Hemisphere
	Left       LabelSide
	Right      LabelSide
}

// oriented puts a lone label on the left so one-sided union vertices are
// named the same whichever operand they came from
func (r MergeRow) oriented() MergeRow {
	if !r.Left.Present && r.Right.Present {
		r.Left, r.Right = r.Right, r.Left
	}
	return r
}

// MergedName returns "<left>_<right>" using abbreviations where assigned
func (r MergeRow) MergedName() string {
	return r.Left.token() + "_" + r.Right.token()
}

// MergedColor returns the component-wise mean of both sides; a missing side counts as black
func (r MergeRow) MergedColor() Color {
	return r.Left.Color.Mean(r.Right.Color)
}

// MergedLabel is one entry of a LabelTable
type MergedLabel struct {
	Key   int
	Name  string
	Color Color
	Flag  int
}

// LabelTable maps merged names to sequential keys in insertion order.
// Key 0 is always the Unlabeled entry.
type LabelTable struct {
	keys    map[string]int
	entries []MergedLabel
}

// NewLabelTable returns a table holding only the Unlabeled entry
func NewLabelTable() *LabelTable {
	t := &LabelTable{keys: make(map[string]int)}
	t.keys[UnlabeledName] = UnlabeledKey
	t.entries = append(t.entries, MergedLabel{
		Key:   UnlabeledKey,
		Name:  UnlabeledName,
		Color: UnlabeledColor,
	})
	return t
}

// Lookup returns the key assigned to name
func (t *LabelTable) Lookup(name string) (int, bool) {
	key, ok := t.keys[name]
	return key, ok
}

// Assign returns the key for name, minting the next key with the given color
// the first time name is seen
func (t *LabelTable) Assign(name string, c Color) int {
	if key, ok := t.Lookup(name); ok {
		return key
	}
	key := len(t.entries)
	t.keys[name] = key
	t.entries = append(t.entries, MergedLabel{Key: key, Name: name, Color: c})
	return key
}

// Len returns the number of entries including Unlabeled
func (t *LabelTable) Len() int {
	return len(t.entries)
}

// Entries returns the table in key order
func (t *LabelTable) Entries() []MergedLabel {
	out := make([]MergedLabel, len(t.entries))
	copy(out, t.entries)
	return out
}

// MergeOptions configures a merge
type MergeOptions struct {
	Policy      Policy
	VertexCount int // Mesh size; DefaultVertexCount when zero
}

// MergeResult is a merged annotation ready for serialization
type MergeResult struct {
	Policy       Policy
	VertexLabels []int32
	Table        *LabelTable
	Assigned     *roaring.Bitmap
}

// Count returns the number of vertices that received a merged label
func (r *MergeResult) Count() int {
	return int(r.Assigned.GetCardinality())
}

// File converts the result into the annotation file model
func (r *MergeResult) File() *AnnotationFile {
	entries := r.Table.Entries()
	f := &AnnotationFile{
		VertexLabels: r.VertexLabels,
		ColorTable:   make([]ColorTableEntry, len(entries)),
		Names:        make([]string, len(entries)),
	}
	for _, e := range entries {
		f.ColorTable[e.Key] = ColorTableEntry{Color: e.Color, Flag: e.Flag}
		f.Names[e.Key] = e.Name
	}
	return f
}

// Merge builds a merged annotation from joined rows.
//
// Rows must already be restricted to the policy by the caller: intersect rows
// carry both sides, union rows at least one. Every vertex starts unlabeled.
// A row with only its right side present is named as if that side were on
// the left. Rows repeating a vertex under the same merged name are ignored; a
// vertex seen again under a different merged name is rejected with
// ErrConflictingVertex, so the first assignment of a vertex is never
// overwritten.
func Merge(rows []MergeRow, opts MergeOptions) (*MergeResult, error) {
	n := opts.VertexCount
	if n <= 0 {
		n = DefaultVertexCount
	}

	for _, r := range rows {
		if r.Vertex < 0 || r.Vertex >= n {
			return nil, fmt.Errorf("vertex %d (mesh has %d): %w", r.Vertex, n, ErrVertexOutOfRange)
		}
		if err := checkSides(r, opts.Policy); err != nil {
			return nil, err
		}
	}

	res := &MergeResult{
		Policy:       opts.Policy,
		VertexLabels: make([]int32, n),
		Table:        NewLabelTable(),
		Assigned:     roaring.New(),
	}
	for i := range res.VertexLabels {
		res.VertexLabels[i] = UnlabeledKey
	}

	for _, r := range rows {
		r = r.oriented()
		name := r.MergedName()
		if res.Assigned.Contains(uint32(r.Vertex)) {
			prev := res.VertexLabels[r.Vertex]
			if key, ok := res.Table.Lookup(name); ok && int32(key) == prev {
				continue
			}
			return nil, fmt.Errorf("vertex %d: %q vs %q: %w", r.Vertex, res.Table.entries[prev].Name, name, ErrConflictingVertex)
		}

		key := res.Table.Assign(name, r.MergedColor())
		res.VertexLabels[r.Vertex] = int32(key)
		res.Assigned.Add(uint32(r.Vertex))
	}

	return res, nil
}

func checkSides(r MergeRow, p Policy) error {
	switch p {
	case PolicyIntersect:
		if !r.Left.Present || !r.Right.Present {
			return fmt.Errorf("intersect row for vertex %d: %w", r.Vertex, ErrMissingSide)
		}
	case PolicyUnion:
		if !r.Left.Present && !r.Right.Present {
			return fmt.Errorf("union row for vertex %d: %w", r.Vertex, ErrMissingSide)
		}
	default:
		return fmt.Errorf("unsupported merge policy %d", int(p))
	}
	return nil
}
