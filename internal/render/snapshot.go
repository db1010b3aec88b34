package render

import "github.com/phantty/phantty/internal/term"

const maxGraphemeLen = 8

// SnapCell is one snapshotted cell, copied out from under the Surface's
// mutex in Phase C so Phase D's rebuild can run lock-free (spec §3).
type SnapCell struct {
	Codepoint   rune
	Fg          term.Color
	HasBg       bool
	Bg          term.Color
	Wide        term.WideTag
	Grapheme    [maxGraphemeLen]rune
	GraphemeLen int
}

// Snapshot is one frame's worth of Phase C output: the cell grid plus
// the cached cursor/viewport state Phase D needs alongside it.
type Snapshot struct {
	Cols, Rows       int
	Cells            []SnapCell // row-major, len == Cols*Rows
	RowAbs           []int64    // RowAbs[y] is row y's absolute scrollback index
	Cursor           term.Cursor
	CursorStyle      term.Style
	ViewportAtBottom bool
}

func newSnapshot(cols, rows int) *Snapshot {
	return &Snapshot{
		Cols:   cols,
		Rows:   rows,
		Cells:  make([]SnapCell, cols*rows),
		RowAbs: make([]int64, rows),
	}
}

// snapshotLocked walks the viewport and fills dst per spec §4.6 Phase C.
// Must be called with the Surface's render-state mutex held.
func snapshotLocked(t term.Terminal, dst *Snapshot) {

	dst.Cursor = t.Cursor()
	dst.ViewportAtBottom = t.ViewportAtBottom()

	it := t.RowIterator()
	row := 0
	for row < dst.Rows {
		cells, abs, ok := it.Next()
		if !ok {
			break
		}
		dst.RowAbs[row] = abs
		base := row * dst.Cols
		for col := 0; col < dst.Cols && col < len(cells); col++ {
			dst.Cells[base+col] = snapCellFrom(t, cells[col])
		}
		row++
	}
}

func snapCellFrom(t term.Terminal, c term.Cell) SnapCell {

	var sc SnapCell
	sc.Codepoint = c.Codepoint
	sc.Wide = c.Wide

	style := t.LookupStyle(c.StyleID)
	sc.Fg = style.Fg

	switch c.ContentTag {
	case term.ContentBgPalette:
		sc.HasBg = true
		sc.Bg = term.Color{Kind: term.ColorPalette, Palette: c.BgPalette}
	case term.ContentBgRGB:
		sc.HasBg = true
		sc.Bg = term.Color{Kind: term.ColorRGB, R: c.BgRGB[0], G: c.BgRGB[1], B: c.BgRGB[2]}
	default:
		if style.Bg.Kind != term.ColorNone {
			sc.HasBg = true
			sc.Bg = style.Bg
		}
	}

	if c.HasGrapheme() {
		extras := c.LookupGrapheme()
		n := copy(sc.Grapheme[:], extras)
		sc.GraphemeLen = n
	}

	return sc
}
