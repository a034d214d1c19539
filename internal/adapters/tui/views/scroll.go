package views

// ScrollWindow tracks a cursor over a list taller than the screen and the
// first row currently shown
type ScrollWindow struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewScrollWindow creates a window showing size rows
func NewScrollWindow(size int) *ScrollWindow {
	if size <= 0 {
		size = 10
	}
	return &ScrollWindow{size: size}
}

// SetSize changes the number of visible rows
func (w *ScrollWindow) SetSize(size int) {
	if size <= 0 {
		size = 1
	}
	w.size = size
	w.follow()
}

// SetTotal sets the list length and clamps the cursor into it
func (w *ScrollWindow) SetTotal(total int) {
	w.total = total
	w.SetCursor(w.cursor)
}

// Cursor returns the absolute cursor position
func (w *ScrollWindow) Cursor() int {
	return w.cursor
}

// SetCursor moves the cursor, clamped to the list
func (w *ScrollWindow) SetCursor(pos int) {
	if pos >= w.total {
		pos = w.total - 1
	}
	if pos < 0 {
		pos = 0
	}
	w.cursor = pos
	w.follow()
}

// Up moves the cursor up by one
func (w *ScrollWindow) Up() bool {
	if w.cursor == 0 {
		return false
	}
	w.SetCursor(w.cursor - 1)
	return true
}

// Down moves the cursor down by one
func (w *ScrollWindow) Down() bool {
	if w.cursor >= w.total-1 {
		return false
	}
	w.SetCursor(w.cursor + 1)
	return true
}

// Visible returns the [start, end) range of rows on screen
func (w *ScrollWindow) Visible() (start, end int) {
	return w.offset, min(w.offset+w.size, w.total)
}

// follow scrolls just far enough to keep the cursor on screen
func (w *ScrollWindow) follow() {
	if w.cursor < w.offset {
		w.offset = w.cursor
	} else if w.cursor >= w.offset+w.size {
		w.offset = w.cursor - w.size + 1
	}
	if maxOffset := max(w.total-w.size, 0); w.offset > maxOffset {
		w.offset = maxOffset
	}
}
