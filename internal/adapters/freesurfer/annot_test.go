package freesurfer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchorbar/internal/domain"
)

func sampleAnnotation() *domain.AnnotationFile {
	return &domain.AnnotationFile{
		VertexLabels: []int32{0, 1, 1, 2, -1, 0},
		ColorTable: []domain.ColorTableEntry{
			{Color: domain.Color{R: 25, G: 5, B: 25}},
			{Color: domain.Color{R: 220, G: 20, B: 10}},
			{Color: domain.Color{R: 20, G: 30, B: 140}, Flag: 7},
		},
		Names: []string{"unknown", "V1", "MT"},
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh.visual.annot")
	codec := NewCodec()

	require.NoError(t, codec.Write(path, sampleAnnotation()))

	got, err := codec.Read(path)
	require.NoError(t, err)

	want := sampleAnnotation()
	// Vertex 4 had no entry and was written as packed 0, which matches nothing
	assert.Equal(t, want.VertexLabels, got.VertexLabels)
	assert.Equal(t, want.ColorTable, got.ColorTable)
	assert.Equal(t, want.Names, got.Names)

	// No temp files left next to the output
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEncode_Layout(t *testing.T) {
	annot := &domain.AnnotationFile{
		VertexLabels: []int32{1},
		ColorTable:   []domain.ColorTableEntry{{}, {Color: domain.Color{R: 1, G: 2, B: 3}}},
		Names:        []string{"a", "b"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, annot))

	var want bytes.Buffer
	put := func(vs ...int32) {
		for _, v := range vs {
			binary.Write(&want, binary.BigEndian, v)
		}
	}
	put(1, 0, 1+2<<8+3<<16)
	put(1, -2, 2, 11)
	want.WriteString("NOFILENAME\x00")
	put(2)
	put(0, 2)
	want.WriteString("a\x00")
	put(0, 0, 0, 0)
	put(1, 2)
	want.WriteString("b\x00")
	put(1, 2, 3, 0)

	assert.Equal(t, want.Bytes(), buf.Bytes())
}

func TestDecode_OriginalColortableLayout(t *testing.T) {
	var buf bytes.Buffer
	put := func(vs ...int32) {
		for _, v := range vs {
			binary.Write(&buf, binary.BigEndian, v)
		}
	}
	str := func(s string) {
		put(int32(len(s) + 1))
		buf.WriteString(s + "\x00")
	}

	put(3)
	put(0, 10, 1, 0, 2, 10)
	put(1) // colortable tag
	put(2) // entry count
	str("colortable.txt")
	str("ten")
	put(10, 0, 0, 0)
	str("zero")
	put(0, 0, 0, 0)

	annot, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0}, annot.VertexLabels)
	assert.Equal(t, []string{"ten", "zero"}, annot.Names)
}

func TestDecode_SparseVersion2Table(t *testing.T) {
	var buf bytes.Buffer
	put := func(vs ...int32) {
		for _, v := range vs {
			binary.Write(&buf, binary.BigEndian, v)
		}
	}
	str := func(s string) {
		put(int32(len(s) + 1))
		buf.WriteString(s + "\x00")
	}

	put(3)
	put(1, 5, 0, 99, 2, 0)
	put(1, -2, 4)
	str("x")
	put(2)
	put(0)
	str("unknown")
	put(25, 5, 25, 0)
	put(3)
	str("five")
	put(5, 0, 0, 0)

	annot, err := Decode(&buf)
	require.NoError(t, err)
	// Packed 0 must not match the empty slots 1 and 2
	assert.Equal(t, []int32{-1, 3, -1}, annot.VertexLabels)
	assert.Len(t, annot.ColorTable, 4)
	assert.Equal(t, []bool{true, false, false, true}, annot.Present)
	assert.Equal(t, "five", annot.Names[3])
	assert.False(t, annot.HasEntry(1))

	imp, err := domain.NewAnnotationImport(domain.Annotation{Hemisphere: domain.HemisphereLeft}, annot)
	require.NoError(t, err)
	var keys []int
	for _, l := range imp.Labels {
		keys = append(keys, l.Key)
	}
	assert.Equal(t, []int{0, 3}, keys)
	assert.Equal(t, []domain.VertexAssignment{{Vertex: 1, LabelKey: 3}}, imp.Vertices)
}

func TestCodec_SparseTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lh.sparse.annot")
	annot := &domain.AnnotationFile{
		VertexLabels: []int32{2, -1, 0},
		ColorTable: []domain.ColorTableEntry{
			{Color: domain.Color{R: 25, G: 5, B: 25}},
			{},
			{Color: domain.Color{R: 9, G: 8, B: 7}},
		},
		Names:   []string{"unknown", "", "V1"},
		Present: []bool{true, false, true},
	}

	require.NoError(t, NewCodec().Write(path, annot))
	got, err := NewCodec().Read(path)
	require.NoError(t, err)
	assert.Equal(t, annot.VertexLabels, got.VertexLabels)
	assert.Equal(t, annot.Present, got.Present)
	assert.Equal(t, annot.Names, got.Names)
}

func TestCodec_WriteRejectsEmptySlot(t *testing.T) {
	dir := t.TempDir()
	annot := sampleAnnotation()
	annot.Present = []bool{true, false, true}

	err := NewCodec().Write(filepath.Join(dir, "lh.gap.annot"), annot)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		values []int32
	}{
		{name: "negative vertex count", values: []int32{-4}},
		{name: "vertex out of range", values: []int32{1, 3, 0}},
		{name: "missing colortable", values: []int32{1, 0, 0, 0}},
		{name: "unknown version", values: []int32{1, 0, 0, 1, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			for _, v := range tt.values {
				binary.Write(&buf, binary.BigEndian, v)
			}
			_, err := Decode(&buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte{0, 0, 0, 2, 0, 0}))
		assert.Error(t, err)
	})
}

func TestCodec_WriteRejectsBadIndex(t *testing.T) {
	dir := t.TempDir()
	annot := sampleAnnotation()
	annot.VertexLabels[0] = 9

	err := NewCodec().Write(filepath.Join(dir, "lh.bad.annot"), annot)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
