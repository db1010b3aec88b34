package glyph

import (
	"math"

	"github.com/phantty/phantty/internal/fontrend"
)

// FontMetrics are the per-cell metrics GlyphCache computes once per font
// load (spec §4.2). cell_width additionally needs the widest advance
// across visible ASCII, which the caller measures via the rasterizer
// before calling computeFontMetrics.
type FontMetrics struct {
	CellWidth    int
	CellHeight   int
	CellBaseline int
	BoxThickness int
}

// computeFontMetrics derives CellHeight/CellBaseline/BoxThickness from a
// face's metrics and the already-measured widest-ASCII-advance
// cellWidth, per spec §4.2's exact formulas.
func computeFontMetrics(m fontrend.FaceMetrics, cellWidth int) FontMetrics {

	faceHeight := m.Ascent - m.Descent + m.LineGap
	cellHeight := int(math.Round(float64(faceHeight)))

	halfLineGap := m.LineGap / 2
	cellBaseline := int(math.Round(float64(halfLineGap - m.Descent)))

	boxThickness := int(math.Ceil(float64(m.UnderlineThickness)))
	if boxThickness < 1 {
		boxThickness = 1
	}

	return FontMetrics{
		CellWidth:    cellWidth,
		CellHeight:   cellHeight,
		CellBaseline: cellBaseline,
		BoxThickness: boxThickness,
	}
}

// measureCellWidth is the maximum horizontal advance across visible
// ASCII (spec §4.2's cell_width definition).
func measureCellWidth(face fontrend.Face) int {

	widest := 0
	for r := rune('!'); r <= '~'; r++ {
		idx := face.GetCharIndex(r)
		if idx == 0 {
			continue
		}
		if err := face.LoadGlyph(idx, fontrend.HintLight, false); err != nil {
			continue
		}
		bmp, err := face.RenderGlyph(fontrend.HintLight)
		if err != nil {
			continue
		}
		adv := int(bmp.AdvanceX26_6 >> 6)
		if adv > widest {
			widest = adv
		}
	}
	return widest
}
