package domain

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func side(name, abbrev string, r, g, b int) LabelSide {
	return LabelSide{Present: true, Name: name, Abbrev: abbrev, Color: Color{R: r, G: g, B: b}}
}

func TestMerge_IntersectExample(t *testing.T) {
	rows := []MergeRow{{
		Vertex:     10,
		Hemisphere: HemisphereLeft,
		Left:       side("V1", "", 100, 20, 40),
		Right:      side("MT", "", 50, 60, 71),
	}}

	res, err := Merge(rows, MergeOptions{Policy: PolicyIntersect})
	require.NoError(t, err)

	require.Len(t, res.VertexLabels, DefaultVertexCount)
	assert.Equal(t, int32(1), res.VertexLabels[10])
	assert.Equal(t, 1, res.Count())

	entries := res.Table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, MergedLabel{Key: 0, Name: UnlabeledName, Color: Color{25, 5, 25}}, entries[0])
	assert.Equal(t, "V1_MT", entries[1].Name)
	assert.Equal(t, Color{R: 75, G: 40, B: 55}, entries[1].Color)
}

func TestMerge_NameTokens(t *testing.T) {
	tests := []struct {
		name  string
		left  LabelSide
		right LabelSide
		want  string
	}{
		{
			name:  "full names",
			left:  side("precentral", "", 0, 0, 0),
			right: side("Area4", "", 0, 0, 0),
			want:  "precentral_Area4",
		},
		{
			name:  "abbreviation preferred",
			left:  side("precentral", "PreC", 0, 0, 0),
			right: side("Area4", "A4", 0, 0, 0),
			want:  "PreC_A4",
		},
		{
			name:  "empty side becomes NULL",
			left:  side("", "", 0, 0, 0),
			right: side("Area4", "", 0, 0, 0),
			want:  "NULL_Area4",
		},
		{
			name:  "absent union side",
			left:  side("V1", "", 0, 0, 0),
			right: LabelSide{},
			want:  "V1_NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := MergeRow{Left: tt.left, Right: tt.right}
			assert.Equal(t, tt.want, row.MergedName())
		})
	}
}

func TestMerge_ReusesKeyForSameName(t *testing.T) {
	rows := []MergeRow{
		{Vertex: 1, Left: side("V1", "", 10, 10, 10), Right: side("MT", "", 30, 30, 30)},
		{Vertex: 2, Left: side("V2", "", 0, 0, 0), Right: side("MT", "", 0, 0, 0)},
		{Vertex: 3, Left: side("V1", "", 200, 200, 200), Right: side("MT", "", 0, 0, 0)},
	}

	res, err := Merge(rows, MergeOptions{Policy: PolicyIntersect, VertexCount: 8})
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1, 2, 1, 0, 0, 0, 0}, res.VertexLabels)
	require.Equal(t, 3, res.Table.Len())

	// First sighting fixes the color
	assert.Equal(t, Color{20, 20, 20}, res.Table.Entries()[1].Color)
}

func TestMerge_UnionAbsentSideColor(t *testing.T) {
	rows := []MergeRow{
		{Vertex: 0, Left: side("V1", "", 100, 50, 10), Right: LabelSide{}},
		{Vertex: 1, Left: LabelSide{}, Right: side("MT", "", 20, 40, 60)},
	}

	res, err := Merge(rows, MergeOptions{Policy: PolicyUnion, VertexCount: 4})
	require.NoError(t, err)

	entries := res.Table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "V1_NULL", entries[1].Name)
	assert.Equal(t, Color{50, 25, 5}, entries[1].Color)
	assert.Equal(t, "MT_NULL", entries[2].Name)
	assert.Equal(t, Color{10, 20, 30}, entries[2].Color)
}

func TestMerge_Errors(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		rows    []MergeRow
		wantErr error
	}{
		{
			name:    "negative vertex",
			policy:  PolicyIntersect,
			rows:    []MergeRow{{Vertex: -1, Left: side("a", "", 0, 0, 0), Right: side("b", "", 0, 0, 0)}},
			wantErr: ErrVertexOutOfRange,
		},
		{
			name:    "vertex past mesh",
			policy:  PolicyUnion,
			rows:    []MergeRow{{Vertex: 4, Left: side("a", "", 0, 0, 0)}},
			wantErr: ErrVertexOutOfRange,
		},
		{
			name:    "intersect row missing right side",
			policy:  PolicyIntersect,
			rows:    []MergeRow{{Vertex: 1, Left: side("a", "", 0, 0, 0)}},
			wantErr: ErrMissingSide,
		},
		{
			name:    "union row with no side",
			policy:  PolicyUnion,
			rows:    []MergeRow{{Vertex: 1}},
			wantErr: ErrMissingSide,
		},
		{
			name:   "divergent duplicate vertex",
			policy: PolicyUnion,
			rows: []MergeRow{
				{Vertex: 2, Left: side("a", "", 0, 0, 0), Right: side("b", "", 0, 0, 0)},
				{Vertex: 2, Left: side("b", "", 0, 0, 0), Right: side("a", "", 0, 0, 0)},
			},
			wantErr: ErrConflictingVertex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Merge(tt.rows, MergeOptions{Policy: tt.policy, VertexCount: 4})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, res)
		})
	}
}

func TestMerge_ExactDuplicatesIgnored(t *testing.T) {
	row := MergeRow{Vertex: 3, Hemisphere: HemisphereRight, Left: side("a", "", 2, 2, 2), Right: side("b", "", 4, 4, 4)}

	res, err := Merge([]MergeRow{row, row}, MergeOptions{Policy: PolicyUnion, VertexCount: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 2, res.Table.Len())
}

func TestMerge_UnassignedVerticesUnlabeled(t *testing.T) {
	rows := []MergeRow{{Vertex: 7, Left: side("a", "", 0, 0, 0), Right: side("b", "", 0, 0, 0)}}

	res, err := Merge(rows, MergeOptions{Policy: PolicyIntersect, VertexCount: 16})
	require.NoError(t, err)

	f := res.File()
	for v, key := range f.VertexLabels {
		if v == 7 {
			continue
		}
		require.Equal(t, int32(UnlabeledKey), key, "vertex %d", v)
	}
	assert.Equal(t, UnlabeledName, f.Names[0])
	assert.Equal(t, ColorTableEntry{Color: UnlabeledColor}, f.ColorTable[0])
}

// Two annotations over an 8-vertex mesh; zero means unlabeled.
var (
	annotA = map[int]string{0: "V1", 1: "V1", 2: "V2", 5: "MT"}
	annotB = map[int]string{1: "A", 2: "B", 3: "B", 5: "C", 6: "D"}
)

func joinRows(a, b map[int]string, union bool) []MergeRow {
	var rows []MergeRow
	for v, an := range a {
		bn, ok := b[v]
		if !ok && !union {
			continue
		}
		row := MergeRow{Vertex: v, Left: side(an, "", 10, 10, 10)}
		if ok {
			row.Right = side(bn, "", 30, 30, 30)
		}
		rows = append(rows, row)
	}
	if union {
		for v, bn := range b {
			if _, ok := a[v]; ok {
				continue
			}
			rows = append(rows, MergeRow{Vertex: v, Right: side(bn, "", 30, 30, 30)})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Vertex < rows[j].Vertex })
	return rows
}

// labelsByVertex maps each assigned vertex to its merged name
func labelsByVertex(res *MergeResult) map[int]string {
	names := make(map[int]string)
	entries := res.Table.Entries()
	it := res.Assigned.Iterator()
	for it.HasNext() {
		v := int(it.Next())
		names[v] = entries[res.VertexLabels[v]].Name
	}
	return names
}

func TestMerge_SetProperties(t *testing.T) {
	opts := func(p Policy) MergeOptions { return MergeOptions{Policy: p, VertexCount: 8} }

	inter, err := Merge(joinRows(annotA, annotB, false), opts(PolicyIntersect))
	require.NoError(t, err)
	ab, err := Merge(joinRows(annotA, annotB, true), opts(PolicyUnion))
	require.NoError(t, err)
	ba, err := Merge(joinRows(annotB, annotA, true), opts(PolicyUnion))
	require.NoError(t, err)

	t.Run("intersection holds only shared vertices", func(t *testing.T) {
		assert.Equal(t, []uint32{1, 2, 5}, inter.Assigned.ToArray())
	})

	t.Run("intersection is a subset of union", func(t *testing.T) {
		assert.True(t, inter.Assigned.AndCardinality(ab.Assigned) == inter.Assigned.GetCardinality())
	})

	t.Run("union covers both annotations", func(t *testing.T) {
		assert.Equal(t, []uint32{0, 1, 2, 3, 5, 6}, ab.Assigned.ToArray())
	})

	t.Run("union is symmetric", func(t *testing.T) {
		assert.True(t, ab.Assigned.Equals(ba.Assigned))

		abNames, baNames := labelsByVertex(ab), labelsByVertex(ba)
		for v, name := range abNames {
			_, inA := annotA[v]
			_, inB := annotB[v]
			if inA && inB {
				tokens := strings.Split(baNames[v], "_")
				assert.Equal(t, tokens[1]+"_"+tokens[0], name, "vertex %d", v)
				continue
			}
			// One-sided vertices do not depend on operand order
			assert.Equal(t, baNames[v], name, "vertex %d", v)
			assert.True(t, strings.HasSuffix(name, "_NULL"), "vertex %d: %s", v, name)
		}
	})
}

func TestMergedFilename(t *testing.T) {
	assert.Equal(t, "lh.aparc.AND.HCP.annot", MergedFilename(HemisphereLeft, "aparc", "HCP", PolicyIntersect))
	assert.Equal(t, "rh.aparc.OR.HCP.annot", MergedFilename(HemisphereRight, "aparc", "HCP", PolicyUnion))
}
