// Package headless adapts github.com/danielgatis/go-headless-term — the
// external VT parser / terminal state machine collaborator — onto the
// term.Terminal capability interface. The engine itself is out of scope
// for the core (spec §1); this package only translates between its cell
// model and ours, and layers on the viewport/dirty bookkeeping the
// render pipeline consumes.
package headless

import (
	"image/color"

	headlessterm "github.com/danielgatis/go-headless-term"

	"github.com/phantty/phantty/internal/term"
)

// Terminal wraps one headlessterm.Terminal plus the viewport offset and
// dirty flags the engine doesn't track itself. All methods must be
// called with the owning Surface's render-state mutex held, matching
// the locking discipline every term.Terminal implementation assumes.
type Terminal struct {
	t *headlessterm.Terminal

	// rows scrolled up from the live bottom; 0 means pinned.
	viewOffset int64

	terminalDirty bool
	screenDirty   bool
	rowDirty      map[int64]bool

	// style intern table: the engine stores concrete colors per cell,
	// our interface hands out StyleIDs resolved through LookupStyle.
	styleIDs map[term.Style]uint32
	styles   []term.Style
}

// New creates a terminal sized cols x rows with the given scrollback
// limit in bytes. The engine bounds scrollback in lines, so the byte
// limit is converted at one line per cols bytes, the worst case for a
// fully dense row.
func New(cols, rows, scrollbackBytes int) term.Terminal {

	ht := headlessterm.New(headlessterm.WithSize(rows, cols))

	lines := scrollbackBytes / maxInt(cols, 1)
	ht.SetMaxScrollback(maxInt(lines, rows))

	return &Terminal{
		t:        ht,
		rowDirty: make(map[int64]bool),
		styleIDs: make(map[term.Style]uint32),
		styles:   []term.Style{{}}, // StyleID 0 is the default style
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (a *Terminal) Resize(cols, rows int) {
	a.t.Resize(rows, cols)
	a.terminalDirty = true
	a.screenDirty = true
}

// Feed parses a chunk of VT byte stream and folds the engine's dirty
// cells into the per-row flags the render pipeline polls.
func (a *Terminal) Feed(chunk []byte) {

	a.t.Write(chunk)
	a.terminalDirty = true

	if a.t.HasDirty() {
		a.screenDirty = true
		top := int64(a.t.ScrollbackLen())
		for _, pos := range a.t.DirtyCells() {
			a.rowDirty[top+int64(pos.Row)] = true
		}
		a.t.ClearDirty()
	}
}

func (a *Terminal) Cols() int { return a.t.Cols() }
func (a *Terminal) Rows() int { return a.t.Rows() }

// ScrollViewport moves the viewport: positive deltas scroll toward the
// live bottom, negative into the scrollback.
func (a *Terminal) ScrollViewport(spec term.ScrollSpec) {

	if spec.ToBottom {
		a.viewOffset = 0
		return
	}

	a.viewOffset -= spec.Delta
	if a.viewOffset < 0 {
		a.viewOffset = 0
	}
	if max := int64(a.t.ScrollbackLen()); a.viewOffset > max {
		a.viewOffset = max
	}
	a.screenDirty = true
}

func (a *Terminal) Cursor() term.Cursor {

	row, col := a.t.CursorPos()

	shape := term.CursorShapeBlock
	switch a.t.CursorStyle() {
	case headlessterm.CursorStyleBlinkingUnderline, headlessterm.CursorStyleSteadyUnderline:
		shape = term.CursorShapeUnderline
	case headlessterm.CursorStyleBlinkingBar, headlessterm.CursorStyleSteadyBar:
		shape = term.CursorShapeBar
	}

	return term.Cursor{X: col, Y: row, Shape: shape}
}

func (a *Terminal) ViewportAtBottom() bool {
	return a.viewOffset == 0
}

// topAbs is the absolute index of the viewport's first row.
func (a *Terminal) topAbs() int64 {
	return int64(a.t.ScrollbackLen()) - a.viewOffset
}

func (a *Terminal) RowIterator() term.RowIterator {
	top := a.topAbs()
	return &rowIterator{a: a, next: top, limit: top + int64(a.t.Rows())}
}

type rowIterator struct {
	a     *Terminal
	next  int64
	limit int64
}

func (it *rowIterator) Next() (cells []term.Cell, absRow int64, ok bool) {

	if it.next >= it.limit {
		return nil, 0, false
	}
	abs := it.next
	it.next++
	return it.a.convertRow(abs), abs, true
}

// convertRow reads the row at the given absolute index — from the
// scrollback when above the screen, from the live grid otherwise — and
// converts every engine cell into a term.Cell.
func (a *Terminal) convertRow(abs int64) []term.Cell {

	cols := a.t.Cols()
	out := make([]term.Cell, cols)

	scrollback := int64(a.t.ScrollbackLen())
	if abs < scrollback {
		line := a.t.ScrollbackLine(int(abs))
		for x := 0; x < cols && x < len(line); x++ {
			out[x] = a.convertCell(&line[x])
		}
		return out
	}

	row := int(abs - scrollback)
	for x := 0; x < cols; x++ {
		c := a.t.Cell(row, x)
		if c == nil {
			continue
		}
		out[x] = a.convertCell(c)
	}
	return out
}

func (a *Terminal) convertCell(c *headlessterm.Cell) term.Cell {

	out := term.Cell{Codepoint: c.Char}
	if c.Char == ' ' {
		out.Codepoint = 0
	}

	switch {
	case c.HasFlag(headlessterm.CellFlagWideChar):
		out.Wide = term.WideWide
	case c.HasFlag(headlessterm.CellFlagWideCharSpacer):
		out.Wide = term.WideSpacerTail
	}

	fg := convertColor(c.Fg, headlessterm.NamedColorForeground)
	bg := convertColor(c.Bg, headlessterm.NamedColorBackground)
	if c.HasFlag(headlessterm.CellFlagReverse) {
		fg, bg = bg, fg
	}

	switch bg.Kind {
	case term.ColorPalette:
		out.ContentTag = term.ContentBgPalette
		out.BgPalette = bg.Palette
	case term.ColorRGB:
		out.ContentTag = term.ContentBgRGB
		out.BgRGB = [3]uint8{bg.R, bg.G, bg.B}
	}

	if fg.Kind != term.ColorNone {
		out.StyleID = a.internStyle(term.Style{Fg: fg})
	}

	return out
}

// convertColor maps the engine's color.Color variants onto term.Color.
// The given named default collapses to ColorNone so the theme's
// foreground/background apply instead of the engine's built-ins.
func convertColor(c color.Color, defaultName int) term.Color {

	switch v := c.(type) {
	case nil:
		return term.Color{}
	case *headlessterm.NamedColor:
		if v.Name == defaultName {
			return term.Color{}
		}
		if v.Name >= 0 && v.Name < 256 {
			return term.Color{Kind: term.ColorPalette, Palette: uint8(v.Name)}
		}
		return term.Color{}
	case *headlessterm.IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return term.Color{Kind: term.ColorPalette, Palette: uint8(v.Index)}
		}
		return term.Color{}
	case color.RGBA:
		return term.Color{Kind: term.ColorRGB, R: v.R, G: v.G, B: v.B}
	default:
		r, g, b, _ := c.RGBA()
		return term.Color{Kind: term.ColorRGB, R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
}

func (a *Terminal) internStyle(s term.Style) uint32 {

	if id, ok := a.styleIDs[s]; ok {
		return id
	}
	id := uint32(len(a.styles))
	a.styles = append(a.styles, s)
	a.styleIDs[s] = id
	return id
}

func (a *Terminal) Scrollbar() term.ScrollbarInfo {
	return term.ScrollbarInfo{
		Offset: a.topAbs(),
		Len:    int64(a.t.Rows()),
		Total:  int64(a.t.ScrollbackLen() + a.t.Rows()),
	}
}

func (a *Terminal) TopLeft() (pagePin int64, yWithinPage int) {
	return a.topAbs(), 0
}

func (a *Terminal) GetCell(pos term.ViewportPos) term.Cell {

	row := a.convertRow(a.topAbs() + int64(pos.Y))
	if pos.X < 0 || pos.X >= len(row) {
		return term.Cell{}
	}
	return row[pos.X]
}

func (a *Terminal) LookupStyle(styleID uint32) term.Style {
	if styleID >= uint32(len(a.styles)) {
		return term.Style{}
	}
	return a.styles[styleID]
}

func (a *Terminal) TerminalDirty() bool        { return a.terminalDirty }
func (a *Terminal) ClearTerminalDirty()        { a.terminalDirty = false }
func (a *Terminal) ScreenDirty() bool          { return a.screenDirty }
func (a *Terminal) ClearScreenDirty()          { a.screenDirty = false }
func (a *Terminal) RowDirty(absRow int64) bool { return a.rowDirty[absRow] }
func (a *Terminal) ClearRowDirty(absRow int64) { delete(a.rowDirty, absRow) }

// Mode maps the engine's mode flags where it tracks them. The engine
// has no DEC 2026 handling, so synchronized output always reads as off
// and the render pipeline's safety ceiling never engages.
func (a *Terminal) Mode(m term.Mode) bool {
	switch m {
	case term.ModeCursorBlinking:
		if a.t.HasMode(headlessterm.ModeBlinkingCursor) {
			return true
		}
		switch a.t.CursorStyle() {
		case headlessterm.CursorStyleBlinkingBlock,
			headlessterm.CursorStyleBlinkingUnderline,
			headlessterm.CursorStyleBlinkingBar:
			return true
		}
		return false
	default:
		return false
	}
}

var _ term.Terminal = (*Terminal)(nil)
