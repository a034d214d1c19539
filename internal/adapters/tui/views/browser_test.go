package views

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"anchorbar/internal/adapters/sqlite"
	"anchorbar/internal/domain"
)

func seededCatalog(t *testing.T) *sqlite.Catalog {
	t.Helper()

	c := sqlite.NewCatalog(nil)
	if err := c.Open(filepath.Join(t.TempDir(), "labels.db")); err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	for _, short := range []string{"visual", "motion"} {
		imp := &domain.AnnotationImport{Annotation: domain.Annotation{
			Fingerprint: short,
			ShortName:   short,
			Hemisphere:  domain.HemisphereLeft,
			Path:        "/data",
			Filename:    "lh." + short + ".annot",
		}}
		for key, name := range []string{"unknown", "V1", "V2"} {
			imp.Labels = append(imp.Labels, domain.Label{Key: key, Hemisphere: domain.HemisphereLeft, Name: name})
		}
		imp.Vertices = []domain.VertexAssignment{{Vertex: 0, LabelKey: 1}}
		if _, err := c.Import(context.Background(), imp); err != nil {
			t.Fatalf("failed to import %s: %v", short, err)
		}
	}
	return c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds any resulting message back into the model
func press(t *testing.T, m tea.Model, k tea.KeyMsg) tea.Msg {
	t.Helper()

	_, cmd := m.Update(k)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func loadedBrowser(t *testing.T) *BrowserModel {
	t.Helper()

	m := NewBrowserModel(seededCatalog(t))
	m.SetSize(80, 40)
	m.Update(m.Init()())
	return m
}

func TestBrowser_LoadsAnnotations(t *testing.T) {
	m := loadedBrowser(t)

	if len(m.flat) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.flat))
	}
	view := m.View()
	if !strings.Contains(view, "1 visual") || !strings.Contains(view, "2 motion") {
		t.Errorf("expected both annotations in view, got:\n%s", view)
	}
}

func TestBrowser_ExpandAndCollapse(t *testing.T) {
	m := loadedBrowser(t)

	press(t, m, runes("l"))
	if len(m.flat) != 5 {
		t.Fatalf("expected annotation with 3 labels plus second annotation, got %d rows", len(m.flat))
	}
	if !strings.Contains(m.View(), "V2") {
		t.Error("expected labels in view after expanding")
	}

	// Down onto a label, then back to its annotation
	press(t, m, runes("j"))
	press(t, m, runes("j"))
	if node := m.selectedNode(); node == nil || !node.isLabel() || node.label.Name != "V1" {
		t.Fatalf("expected V1 selected, got %+v", node)
	}
	press(t, m, runes("h"))
	if m.window.Cursor() != 0 {
		t.Errorf("expected cursor on annotation, got %d", m.window.Cursor())
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.flat) != 2 {
		t.Errorf("expected collapsed tree, got %d rows", len(m.flat))
	}
}

func TestBrowser_Copy(t *testing.T) {
	m := loadedBrowser(t)
	var copied []string
	m.copy = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	press(t, m, runes("y"))
	press(t, m, runes("l"))
	press(t, m, runes("j"))
	press(t, m, runes("j"))
	press(t, m, runes("y"))

	want := []string{"/data/lh.visual.annot", "1 V1"}
	if strings.Join(copied, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q copied, got %q", want, copied)
	}
	if !strings.Contains(m.Message, "Copied 1 V1") || m.MessageErr {
		t.Errorf("unexpected message %q", m.Message)
	}
}

func TestBrowser_DropRequestsConfirmation(t *testing.T) {
	m := loadedBrowser(t)

	press(t, m, runes("j"))
	_, cmd := m.Update(runes("d"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(SwitchToDropMsg)
	if !ok || msg.Annotation.ShortName != "motion" {
		t.Errorf("expected drop request for motion, got %#v", msg)
	}
}

func TestDropModel_Confirm(t *testing.T) {
	c := seededCatalog(t)
	m := NewDropModel(c)
	m.SetTarget(domain.Annotation{ID: 1, ShortName: "visual"})

	if !strings.Contains(m.View(), "visual") {
		t.Error("expected target in view")
	}

	_, cmd := m.Update(runes("y"))
	msg, ok := cmd().(DropSuccessMsg)
	if !ok {
		t.Fatalf("expected DropSuccessMsg, got %#v", msg)
	}

	annotations, err := c.ListAnnotations(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(annotations) != 1 {
		t.Errorf("expected 1 annotation left, got %d", len(annotations))
	}

	// Dropping again reports the missing annotation
	_, cmd = m.Update(runes("y"))
	if _, ok := cmd().(DropErrMsg); !ok {
		t.Error("expected DropErrMsg for a dropped annotation")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Error("expected esc to return to the browser")
	}
}

func TestScrollWindow(t *testing.T) {
	w := NewScrollWindow(3)
	w.SetTotal(10)

	for i := 0; i < 4; i++ {
		w.Down()
	}
	if start, end := w.Visible(); w.Cursor() != 4 || start != 2 || end != 5 {
		t.Errorf("expected cursor 4 in [2,5), got %d in [%d,%d)", w.Cursor(), start, end)
	}

	w.SetTotal(2)
	if start, end := w.Visible(); w.Cursor() != 1 || start != 0 || end != 2 {
		t.Errorf("expected cursor 1 in [0,2), got %d in [%d,%d)", w.Cursor(), start, end)
	}

	if w.Down() {
		t.Error("expected Down at the end to fail")
	}
	w.SetTotal(0)
	if w.Up() || w.Cursor() != 0 {
		t.Error("expected empty window to stay at 0")
	}
}

func TestBrowserModel_LabelRowPrefersAbbreviation(t *testing.T) {
	m := &BrowserModel{}

	row := m.renderNode(&catalogNode{label: &domain.Label{Key: 4, Name: "precentral", Abbrev: "PrC"}}, false)
	if !strings.Contains(row, "PrC (precentral)") {
		t.Errorf("expected abbreviation first, got %q", row)
	}

	row = m.renderNode(&catalogNode{label: &domain.Label{Key: 5, Name: "V1"}}, false)
	if !strings.Contains(row, "V1") || strings.Contains(row, "(") {
		t.Errorf("expected bare name, got %q", row)
	}
}
