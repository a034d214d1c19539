package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownHemisphere is returned when a filename carries neither the lh. nor the rh. prefix
var ErrUnknownHemisphere = errors.New("could not infer hemisphere from filename")

// Hemisphere identifies the brain surface an annotation belongs to.
// The numeric values are the ones persisted in the catalog.
type Hemisphere int

const (
	HemisphereUnknown Hemisphere = 0
	HemisphereLeft    Hemisphere = -1
	HemisphereRight   Hemisphere = 1
)

const annotExt = ".annot"

// String returns the filename prefix for the hemisphere
func (h Hemisphere) String() string {
	switch h {
	case HemisphereLeft:
		return "lh"
	case HemisphereRight:
		return "rh"
	default:
		return "unknown"
	}
}

// HemisphereFromFilename infers the hemisphere from the lh./rh. filename prefix
func HemisphereFromFilename(filename string) (Hemisphere, error) {
	base := filepath.Base(filename)
	switch {
	case strings.HasPrefix(base, "lh."):
		return HemisphereLeft, nil
	case strings.HasPrefix(base, "rh."):
		return HemisphereRight, nil
	default:
		return HemisphereUnknown, fmt.Errorf("%s: %w (expected an 'lh.' or 'rh.' prefix)", base, ErrUnknownHemisphere)
	}
}

// ShortName strips the hemisphere prefix and .annot extension from a filename,
// e.g. "lh.aparc.a2009s.annot" -> "aparc.a2009s"
func ShortName(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimPrefix(name, "lh.")
	name = strings.TrimPrefix(name, "rh.")
	return strings.TrimSuffix(name, annotExt)
}

// Annotation is a cataloged annotation file
type Annotation struct {
	ID          int64
	Fingerprint string // SHA-1 hex digest of the source file
	ShortName   string
	Hemisphere  Hemisphere
	Path        string // Directory the file was imported from
	Filename    string
}

// Label is one colortable entry of an annotation
type Label struct {
	AnnotationID int64
	Key          int
	Hemisphere   Hemisphere
	Name         string
	Abbrev       string // Empty when no abbreviation was assigned
	Color        Color
	Flag         int
}

// DisplayName returns the abbreviation when present, otherwise the name
func (l Label) DisplayName() string {
	if l.Abbrev != "" {
		return l.Abbrev
	}
	return l.Name
}

// VertexAssignment maps one mesh vertex to a label key of its annotation
type VertexAssignment struct {
	AnnotationID int64
	Vertex       int
	LabelKey     int
}

// AnnotationImport is everything inserted by a single atomic import
type AnnotationImport struct {
	Annotation Annotation
	Labels     []Label
	Vertices   []VertexAssignment
}

// ColorTableEntry is one row of an annotation file colortable
type ColorTableEntry struct {
	Color Color
	Flag  int
}

// AnnotationFile is the in-memory content of an .annot file: a per-vertex
// colortable index (-1 when a vertex matches no entry), the colortable and
// the label names parallel to it.
//
// A sparse version 2 colortable leaves slots without an entry. Present marks
// the filled slots; nil means every slot is filled.
type AnnotationFile struct {
	VertexLabels []int32
	ColorTable   []ColorTableEntry
	Names        []string
	Present      []bool
}

// HasEntry reports whether colortable slot i holds an entry
func (f *AnnotationFile) HasEntry(i int) bool {
	if i < 0 || i >= len(f.ColorTable) {
		return false
	}
	return f.Present == nil || f.Present[i]
}

// NewAnnotationImport builds the catalog rows for a parsed annotation file.
// Only vertices carrying a key above UnlabeledKey are kept; absent vertices
// resolve to the unlabeled key when read back.
func NewAnnotationImport(annot Annotation, file *AnnotationFile) (*AnnotationImport, error) {
	if len(file.Names) != len(file.ColorTable) {
		return nil, fmt.Errorf("colortable has %d entries but %d names", len(file.ColorTable), len(file.Names))
	}
	if file.Present != nil && len(file.Present) != len(file.ColorTable) {
		return nil, fmt.Errorf("colortable has %d entries but %d presence flags", len(file.ColorTable), len(file.Present))
	}

	imp := &AnnotationImport{
		Annotation: annot,
		Labels:     make([]Label, 0, len(file.Names)),
	}
	for key, name := range file.Names {
		if !file.HasEntry(key) {
			continue
		}
		entry := file.ColorTable[key]
		imp.Labels = append(imp.Labels, Label{
			Key:        key,
			Hemisphere: annot.Hemisphere,
			Name:       name,
			Color:      entry.Color,
			Flag:       entry.Flag,
		})
	}

	for vertex, key := range file.VertexLabels {
		if key <= UnlabeledKey {
			continue
		}
		if !file.HasEntry(int(key)) {
			return nil, fmt.Errorf("vertex %d references label %d outside the colortable", vertex, key)
		}
		imp.Vertices = append(imp.Vertices, VertexAssignment{
			Vertex:   vertex,
			LabelKey: int(key),
		})
	}

	return imp, nil
}
