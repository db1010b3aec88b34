package render

import (
	"github.com/phantty/phantty/internal/glyph"
	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
)

// regionalIndicatorLow/High bound U+1F1E6-U+1F1FF, spec §4.6 Phase D's
// regional-indicator pair composition range.
const (
	regionalIndicatorLow  = 0x1F1E6
	regionalIndicatorHigh = 0x1F1FF
)

func isRegionalIndicator(r rune) bool {
	return r >= regionalIndicatorLow && r <= regionalIndicatorHigh
}

// Rebuild is Phase D: walk the snapshot (lock already released) and
// fill p.BgCells/FgCells/ColorFgCells/CursorOverlayCells. The
// cursorShape argument is not read: the block-vs-overlay decision uses
// the terminal cursor shape captured in snap.Cursor.Shape; sel is the
// active surface's selection, read without a lock since Phase C
// already captured a coherent snapshot of everything selection
// membership needs.
func (p *Pipeline) Rebuild(snap *Snapshot, sel selection.Selection, cursorShape term.CursorShape, cursorBlinkVisible bool) {

	p.BgCells = p.BgCells[:0]
	p.FgCells = p.FgCells[:0]
	p.ColorFgCells = p.ColorFgCells[:0]
	p.CursorOverlayCells = p.CursorOverlayCells[:0]

	m := p.cache.Metrics

	skip := make([]bool, len(snap.Cells))

	for y := 0; y < snap.Rows; y++ {
		absRow := snap.RowAbs[y]
		base := y * snap.Cols

		for x := 0; x < snap.Cols; x++ {
			if len(p.BgCells) >= MaxCells || len(p.FgCells) >= MaxCells || len(p.ColorFgCells) >= MaxCells || skip[base+x] {
				continue
			}
			sc := snap.Cells[base+x]

			if sc.Wide == term.WideSpacerTail || sc.Wide == term.WideSpacerHead {
				continue
			}

			isCursor := snap.ViewportAtBottom && snap.Cursor.X == x && snap.Cursor.Y == y
			isCursorBlock := isCursor && snap.Cursor.Shape == term.CursorShapeBlock && cursorBlinkVisible
			isSelected := sel.Contains(absRow, x)

			wide := sc.Wide == term.WideWide
			gridW := int32(1)
			if wide {
				gridW = 2
			}

			if bgR, bgG, bgB, has := resolveCellBackground(sc, isCursorBlock, isSelected, p.theme, p.entries); has {
				p.BgCells = append(p.BgCells, CellBg{
					GridCol: int32(x), GridRow: int32(y),
					R: bgR, G: bgG, B: bgB,
				})
			}

			base0, extras, composedWidth := p.composeGrapheme(snap, base, x)
			if composedWidth > 1 {
				for i := 1; i < composedWidth && x+i < snap.Cols; i++ {
					skip[base+x+i] = true
				}
				gridW = int32(composedWidth)
			}

			fgR, fgG, fgB := resolveCellForeground(sc, isCursorBlock, isSelected, p.theme, p.entries)

			var g glyph.Glyph
			var ok bool
			if len(extras) > 0 {
				g, ok = p.cache.GetGrapheme(base0, extras)
			} else if base0 != 0 {
				g, ok = p.cache.Get(base0)
			}
			if ok {
				p.emitGlyph(x, y, gridW, g, fgR, fgG, fgB, m.CellWidth, m.CellHeight)
			}

			if isCursor && !isCursorBlock {
				p.emitCursorOverlay(x, y, snap.Cursor.Shape, cursorBlinkVisible)
			}
		}
	}
}

// composeGrapheme returns the base codepoint, any extra codepoints
// forming its cluster, and how many grid columns the composed glyph
// spans. It also performs spec §4.6 Phase D's regional-indicator pair
// probe: a lone regional indicator without grapheme data absorbs a
// regional indicator in the immediately following cell into a
// synthesized two-codepoint cluster and reports a 2-cell glyph. Only
// that one cell is probed; a partner two cells away is not considered.
func (p *Pipeline) composeGrapheme(snap *Snapshot, rowBase, x int) (base rune, extras []rune, gridSpan int) {

	sc := snap.Cells[rowBase+x]
	base = sc.Codepoint
	gridSpan = 1
	if sc.Wide == term.WideWide {
		gridSpan = 2
	}

	if sc.GraphemeLen > 0 {
		return base, append([]rune(nil), sc.Grapheme[:sc.GraphemeLen]...), gridSpan
	}

	if !isRegionalIndicator(base) {
		return base, nil, gridSpan
	}

	var pair []rune
	for i := 1; i <= 2 && x+i < snap.Cols; i++ {
		next := snap.Cells[rowBase+x+i]
		if !isRegionalIndicator(next.Codepoint) || next.GraphemeLen > 0 {
			break
		}
		pair = append(pair, next.Codepoint)
		break // spec: "an adjacent regional indicator exists" — one partner forms the pair
	}
	if len(pair) == 0 {
		return base, nil, gridSpan
	}
	return base, pair, 2
}

func (p *Pipeline) emitGlyph(x, y int, gridW int32, g glyph.Glyph, fgR, fgG, fgB float32, cellWidth, cellHeight int) {

	if g.IsColor {
		targetW := cellWidth * int(gridW)
		targetH := cellHeight
		w, h := g.SizeX, g.SizeY
		if w == 0 || h == 0 {
			return
		}
		scale := float32(targetW) / float32(w)
		if hs := float32(targetH) / float32(h); hs < scale {
			scale = hs
		}
		drawW := int32(float32(w) * scale)
		drawH := int32(float32(h) * scale)
		offX := int32(targetW-int(drawW)) / 2
		offY := int32(targetH-int(drawH)) / 2

		atlasSize := p.cache.ColorAtlas().Size()
		u0, v0, u1, v1 := g.Region.UV(atlasSize)

		p.ColorFgCells = append(p.ColorFgCells, CellFg{
			GridCol: int32(x), GridRow: int32(y),
			GlyphOffsetX: offX, GlyphOffsetY: offY,
			GlyphW: drawW, GlyphH: drawH,
			UVLeft: u0, UVTop: v0, UVRight: u1, UVBottom: v1,
			R: 1, G: 1, B: 1,
		})
		return
	}

	atlasSize := p.cache.GrayscaleAtlas().Size()
	u0, v0, u1, v1 := g.Region.UV(atlasSize)

	p.FgCells = append(p.FgCells, CellFg{
		GridCol: int32(x), GridRow: int32(y),
		GlyphOffsetX: int32(g.BearingX), GlyphOffsetY: int32(g.BearingY),
		GlyphW: int32(g.SizeX), GlyphH: int32(g.SizeY),
		UVLeft: u0, UVTop: v0, UVRight: u1, UVBottom: v1,
		R: fgR, G: fgG, B: fgB,
	})
}

// emitCursorOverlay adds the additional quads for block_hollow, bar,
// and underline cursor styles (spec §4.6 Phase D). These are submitted
// in their own pass after BG/FG/ColorFG (spec §5's ordering guarantee:
// "BG -> FG -> ColorFG -> cursor overlay"), so they draw on top of the
// cell's own foreground rather than being occluded by it.
func (p *Pipeline) emitCursorOverlay(x, y int, shape term.CursorShape, visible bool) {
	if !visible {
		return
	}
	switch shape {
	case term.CursorShapeBlockHollow, term.CursorShapeBar, term.CursorShapeUnderline:
		p.CursorOverlayCells = append(p.CursorOverlayCells, CellBg{
			GridCol: int32(x), GridRow: int32(y),
			R: p.theme.CursorColor.X(), G: p.theme.CursorColor.Y(), B: p.theme.CursorColor.Z(),
		})
	}
}
