// Package termfake is a minimal in-memory implementation of term.Terminal,
// used by the other packages' tests so they can exercise the render,
// surface, and selection pipelines without a real VT engine (spec §9's
// capability-interface design note).
package termfake

import (
	"sync"

	"golang.org/x/text/width"

	"github.com/phantty/phantty/internal/term"
)

// Terminal is a small scrollback-backed grid: no real VT parsing, just
// direct cell pokes plus the dirty/mode bookkeeping the core depends on.
type Terminal struct {
	mu sync.Mutex

	cols, rows int
	cursor     term.Cursor
	atBottom   bool

	// rows is addressed by absolute (scrollback-anchored) index; rows
	// below len(grid) don't exist yet and read back as blank.
	grid [][]term.Cell
	// topAbs is the absolute row index of the first row currently in
	// grid (i.e. grid[0] is logical row topAbs).
	topAbs int64

	styles map[uint32]term.Style

	terminalDirty bool
	screenDirty   bool
	rowDirty      map[int64]bool

	modes map[term.Mode]bool
}

// New returns a Terminal sized cols x rows, fully blank, viewport pinned
// to the bottom.
func New(cols, rows int) *Terminal {

	f := &Terminal{
		cols:     cols,
		rows:     rows,
		atBottom: true,
		styles:   make(map[uint32]term.Style),
		rowDirty: make(map[int64]bool),
		modes:    make(map[term.Mode]bool),
	}
	f.growTo(int64(rows))
	return f
}

func (f *Terminal) growTo(n int64) {
	for int64(len(f.grid)) < n {
		f.grid = append(f.grid, make([]term.Cell, f.cols))
	}
}

func (f *Terminal) Resize(cols, rows int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cols != f.cols {
		for i := range f.grid {
			row := make([]term.Cell, cols)
			copy(row, f.grid[i])
			f.grid[i] = row
		}
		f.cols = cols
	}
	f.rows = rows
	f.growTo(f.topAbs + int64(rows))
	f.terminalDirty = true
	f.screenDirty = true
}

// Feed is a no-op: termfake has no VT parser, tests poke cells directly
// via SetCell.
func (f *Terminal) Feed(chunk []byte) {}

func (f *Terminal) Cols() int { f.mu.Lock(); defer f.mu.Unlock(); return f.cols }
func (f *Terminal) Rows() int { f.mu.Lock(); defer f.mu.Unlock(); return f.rows }

func (f *Terminal) ScrollViewport(spec term.ScrollSpec) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if spec.ToBottom {
		f.atBottom = true
		return
	}
	f.atBottom = false
	f.screenDirty = true
}

func (f *Terminal) Cursor() term.Cursor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// SetCursor is a test helper, not part of term.Terminal.
func (f *Terminal) SetCursor(c term.Cursor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = c
}

func (f *Terminal) ViewportAtBottom() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.atBottom
}

func (f *Terminal) RowIterator() term.RowIterator {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := f.topAbs
	if !f.atBottom {
		// same fixed window; termfake has no independent scroll offset
		// beyond what tests set directly via SetTopAbs.
	}
	return &rowIterator{t: f, next: start, limit: start + int64(f.rows)}
}

type rowIterator struct {
	t     *Terminal
	next  int64
	limit int64
}

func (it *rowIterator) Next() (cells []term.Cell, absRow int64, ok bool) {
	if it.next >= it.limit {
		return nil, 0, false
	}
	row := it.t.rowAt(it.next)
	abs := it.next
	it.next++
	return row, abs, true
}

func (f *Terminal) rowAt(abs int64) []term.Cell {
	f.growTo(abs + 1)
	idx := abs - f.topAbs
	if idx < 0 || int(idx) >= len(f.grid) {
		return make([]term.Cell, f.cols)
	}
	return f.grid[idx]
}

func (f *Terminal) Scrollbar() term.ScrollbarInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.grid))
	return term.ScrollbarInfo{Offset: f.topAbs, Len: int64(f.rows), Total: total}
}

func (f *Terminal) TopLeft() (pagePin int64, yWithinPage int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topAbs, 0
}

func (f *Terminal) GetCell(pos term.ViewportPos) term.Cell {
	f.mu.Lock()
	defer f.mu.Unlock()

	abs := f.topAbs + int64(pos.Y)
	row := f.rowAt(abs)
	if pos.X < 0 || pos.X >= len(row) {
		return term.Cell{}
	}
	return row[pos.X]
}

// SetCell is a test helper for poking a cell at an absolute row.
func (f *Terminal) SetCell(absRow int64, x int, c term.Cell) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row := f.rowAt(absRow)
	if x < 0 || x >= len(row) {
		return
	}
	row[x] = c
	f.terminalDirty = true
	f.screenDirty = true
	f.rowDirty[absRow] = true
}

// SetString is a test helper writing s left to right starting at
// (absRow, x). East-Asian wide runes occupy two columns: the base cell
// is tagged WideWide and the following cell becomes its spacer tail,
// the same layout a real VT engine produces.
func (f *Terminal) SetString(absRow int64, x int, s string) {
	for _, r := range s {
		wide := false
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			wide = true
		}

		c := term.Cell{Codepoint: r}
		if wide {
			c.Wide = term.WideWide
		}
		f.SetCell(absRow, x, c)
		x++

		if wide {
			f.SetCell(absRow, x, term.Cell{Wide: term.WideSpacerTail})
			x++
		}
	}
}

// SetStyle is a test helper registering a StyleID -> Style mapping.
func (f *Terminal) SetStyle(id uint32, s term.Style) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.styles[id] = s
}

func (f *Terminal) LookupStyle(styleID uint32) term.Style {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.styles[styleID]
}

func (f *Terminal) TerminalDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminalDirty
}

func (f *Terminal) ClearTerminalDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminalDirty = false
}

func (f *Terminal) ScreenDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenDirty
}

func (f *Terminal) ClearScreenDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screenDirty = false
}

func (f *Terminal) RowDirty(absRow int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rowDirty[absRow]
}

func (f *Terminal) ClearRowDirty(absRow int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rowDirty, absRow)
}

func (f *Terminal) Mode(m term.Mode) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modes[m]
}

// SetMode is a test helper.
func (f *Terminal) SetMode(m term.Mode, v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes[m] = v
}

var _ term.Terminal = (*Terminal)(nil)
