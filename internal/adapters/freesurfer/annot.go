// Package freesurfer reads and writes FreeSurfer .annot surface annotation files.
//
// An .annot file is a stream of big-endian int32 values: the vertex count,
// one (vertex, packed rgb) pair per vertex, a colortable tag and the
// colortable itself. The packed value of a vertex is r + g<<8 + b<<16 of the
// colortable entry it belongs to.
package freesurfer

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"anchorbar/internal/domain"
	"anchorbar/internal/ports"
)

const (
	colortableTag     = 1
	colortableVersion = 2
	noFilename        = "NOFILENAME"

	// Upper bounds guarding allocations against corrupt headers
	maxVertices = 1 << 24
	maxEntries  = 1 << 16
	maxString   = 1 << 12
)

var ErrMalformed = errors.New("malformed annotation file")

// Codec implements ports.AnnotationCodec for the FreeSurfer format
type Codec struct{}

var _ ports.AnnotationCodec = Codec{}

// NewCodec creates a new codec
func NewCodec() Codec {
	return Codec{}
}

// Read parses an annotation file
func (Codec) Read(path string) (*domain.AnnotationFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	annot, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return annot, nil
}

// Write serializes an annotation file. The file is written next to its
// destination and renamed into place, so a failed write leaves nothing behind.
func (Codec) Write(path string, annot *domain.AnnotationFile) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, annot); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) int32() int32 {
	if r.err != nil {
		return 0
	}
	var v int32
	r.err = binary.Read(r.r, binary.BigEndian, &v)
	return v
}

func (r *reader) string() string {
	n := r.int32()
	if r.err != nil {
		return ""
	}
	if n < 0 || n > maxString {
		r.err = fmt.Errorf("%w: string length %d", ErrMalformed, n)
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return ""
	}
	// Stored length includes the trailing NUL
	for len(buf) > 0 && buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}

// Decode reads an annotation from r. Vertices whose packed color matches no
// colortable entry get index -1.
func Decode(in io.Reader) (*domain.AnnotationFile, error) {
	r := &reader{r: in}

	vnum := r.int32()
	if r.err != nil {
		return nil, r.err
	}
	if vnum < 0 || vnum > maxVertices {
		return nil, fmt.Errorf("%w: vertex count %d", ErrMalformed, vnum)
	}

	packed := make([]int32, vnum)
	for i := int32(0); i < vnum; i++ {
		vno := r.int32()
		value := r.int32()
		if r.err != nil {
			return nil, r.err
		}
		if vno < 0 || vno >= vnum {
			return nil, fmt.Errorf("%w: vertex %d outside [0, %d)", ErrMalformed, vno, vnum)
		}
		packed[vno] = value
	}

	tag := r.int32()
	if r.err != nil {
		return nil, r.err
	}
	if tag != colortableTag {
		return nil, fmt.Errorf("%w: no colortable (tag %d)", ErrMalformed, tag)
	}

	annot := &domain.AnnotationFile{VertexLabels: make([]int32, vnum)}
	if err := readColortable(r, annot); err != nil {
		return nil, err
	}

	// First entry wins when two entries share a color; empty slots never match
	lookup := make(map[int32]int32, len(annot.ColorTable))
	for i := len(annot.ColorTable) - 1; i >= 0; i-- {
		if annot.HasEntry(i) {
			lookup[annot.ColorTable[i].Color.Packed()] = int32(i)
		}
	}

	for v, value := range packed {
		idx, ok := lookup[value]
		if !ok {
			idx = -1
		}
		annot.VertexLabels[v] = idx
	}
	return annot, nil
}

func readColortable(r *reader, annot *domain.AnnotationFile) error {
	n := r.int32()
	if r.err != nil {
		return r.err
	}

	if n > 0 {
		// Original layout: entry count, source filename, then entries in order
		if n > maxEntries {
			return fmt.Errorf("%w: %d colortable entries", ErrMalformed, n)
		}
		r.string()
		annot.ColorTable = make([]domain.ColorTableEntry, n)
		annot.Names = make([]string, n)
		for i := range annot.ColorTable {
			annot.Names[i] = r.string()
			annot.ColorTable[i] = readEntry(r)
		}
		return r.err
	}

	if version := -n; version != colortableVersion {
		return fmt.Errorf("%w: unsupported colortable version %d", ErrMalformed, version)
	}
	size := r.int32()
	r.string()
	count := r.int32()
	if r.err != nil {
		return r.err
	}
	if size < 0 || size > maxEntries || count < 0 || count > size {
		return fmt.Errorf("%w: colortable size %d with %d entries", ErrMalformed, size, count)
	}

	annot.ColorTable = make([]domain.ColorTableEntry, size)
	annot.Names = make([]string, size)
	present := make([]bool, size)
	for i := int32(0); i < count; i++ {
		idx := r.int32()
		name := r.string()
		entry := readEntry(r)
		if r.err != nil {
			return r.err
		}
		if idx < 0 || idx >= size {
			return fmt.Errorf("%w: colortable index %d outside [0, %d)", ErrMalformed, idx, size)
		}
		annot.ColorTable[idx] = entry
		annot.Names[idx] = name
		present[idx] = true
	}
	if count < size {
		annot.Present = present
	}
	return nil
}

func readEntry(r *reader) domain.ColorTableEntry {
	var e domain.ColorTableEntry
	e.Color.R = int(r.int32())
	e.Color.G = int(r.int32())
	e.Color.B = int(r.int32())
	e.Flag = int(r.int32())
	return e
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) int32(v int32) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.BigEndian, v)
}

func (w *writer) string(s string) {
	w.int32(int32(len(s) + 1))
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s+"\x00")
}

// Encode writes an annotation with a version 2 colortable. Vertices with a
// negative index are written with packed value 0.
func Encode(out io.Writer, annot *domain.AnnotationFile) error {
	if len(annot.Names) != len(annot.ColorTable) {
		return fmt.Errorf("colortable has %d entries but %d names", len(annot.ColorTable), len(annot.Names))
	}

	if annot.Present != nil && len(annot.Present) != len(annot.ColorTable) {
		return fmt.Errorf("colortable has %d entries but %d presence flags", len(annot.ColorTable), len(annot.Present))
	}

	w := &writer{w: out}
	w.int32(int32(len(annot.VertexLabels)))
	for v, idx := range annot.VertexLabels {
		var value int32
		if idx >= 0 {
			if !annot.HasEntry(int(idx)) {
				return fmt.Errorf("vertex %d references colortable entry %d of %d", v, idx, len(annot.ColorTable))
			}
			value = annot.ColorTable[idx].Color.Packed()
		}
		w.int32(int32(v))
		w.int32(value)
	}

	count := 0
	for i := range annot.ColorTable {
		if annot.HasEntry(i) {
			count++
		}
	}

	w.int32(colortableTag)
	w.int32(-colortableVersion)
	w.int32(int32(len(annot.ColorTable)))
	w.string(noFilename)
	w.int32(int32(count))
	for i, e := range annot.ColorTable {
		if !annot.HasEntry(i) {
			continue
		}
		w.int32(int32(i))
		w.string(annot.Names[i])
		w.int32(int32(e.Color.R))
		w.int32(int32(e.Color.G))
		w.int32(int32(e.Color.B))
		w.int32(int32(e.Flag))
	}
	return w.err
}
