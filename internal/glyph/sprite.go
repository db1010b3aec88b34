package glyph

import (
	"image"
	"image/color"
	"image/draw"
)

// IsSpriteRange reports whether a codepoint falls in one of the ranges
// SpriteSynthesizer draws procedurally instead of asking the rasterizer
// for a glyph (spec §4.3).
func IsSpriteRange(cp rune) bool {
	switch {
	case cp >= 0x2500 && cp <= 0x257F: // box-drawing
		return true
	case cp >= 0x2580 && cp <= 0x259F: // block elements
		return true
	case cp >= 0x2800 && cp <= 0x28FF: // braille
		return true
	case cp >= 0xE0B0 && cp <= 0xE0B3: // powerline arrows
		return true
	}
	return false
}

// lineWeight classifies one edge of a box-drawing glyph.
type lineWeight int

const (
	weightNone lineWeight = iota
	weightLight
	weightHeavy
	weightDouble
)

// spriteCanvas is the procedural rendering result before it's packed
// into the atlas, matching spec §3's
// {surface_w, surface_h, trimmed_w, trimmed_h, clip_*, padding_*,
// pixel_data} shape.
type spriteCanvas struct {
	surfaceW, surfaceH                       int
	trimmedW, trimmedH                       int
	clipTop, clipBottom, clipLeft, clipRight int
	paddingX, paddingY                       int
	pixels                                   []byte // alpha-only, trimmedW x trimmedH
	isBraille                                bool
}

// SpriteSynthesizer renders box-drawing, block, braille, and powerline
// glyphs on an alpha-only canvas sized off the primary font's cell
// metrics, grounded on the teacher's monospace-cell-grid assumption in
// glyph_grid.go (every glyph occupies exactly one cell_width x
// cell_height tile) generalized to procedural drawing via the standard
// library's image/draw instead of font rasterization.
type SpriteSynthesizer struct {
	metrics FontMetrics
}

func NewSpriteSynthesizer(metrics FontMetrics) *SpriteSynthesizer {
	return &SpriteSynthesizer{metrics: metrics}
}

// Synthesize renders cp, returning false if cp isn't in a sprite range.
func (s *SpriteSynthesizer) Synthesize(cp rune) (spriteCanvas, bool) {

	switch {
	case cp >= 0x2500 && cp <= 0x257F:
		return s.synthesizeBoxDrawing(cp), true
	case cp >= 0x2580 && cp <= 0x259F:
		return s.synthesizeBlock(cp), true
	case cp >= 0x2800 && cp <= 0x28FF:
		return s.synthesizeBraille(cp), true
	case cp >= 0xE0B0 && cp <= 0xE0B3:
		return s.synthesizePowerline(cp), true
	}
	return spriteCanvas{}, false
}

func (s *SpriteSynthesizer) curvedPadding() int {
	p := s.metrics.CellWidth / 4
	if p < 2 {
		return 2
	}
	return p
}

// newCanvas allocates a zero (fully transparent) alpha canvas sized
// cell_width x cell_height plus padding on each axis.
func newCanvas(w, h, padX, padY int) (*image.Alpha, image.Rectangle) {
	surfaceW, surfaceH := w+2*padX, h+2*padY
	img := image.NewAlpha(image.Rect(0, 0, surfaceW, surfaceH))
	return img, image.Rect(padX, padY, padX+w, padY+h)
}

// drawHLine draws a horizontal line of the given thickness, centered at
// y, spanning [x0, x1).
func drawHLine(img *image.Alpha, x0, x1, y, thickness int) {
	half := thickness / 2
	rect := image.Rect(x0, y-half, x1, y-half+thickness)
	draw.Draw(img, rect, &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
}

// drawVLine draws a vertical line of the given thickness, centered at
// x, spanning [y0, y1).
func drawVLine(img *image.Alpha, x, y0, y1, thickness int) {
	half := thickness / 2
	rect := image.Rect(x-half, y0, x-half+thickness, y1)
	draw.Draw(img, rect, &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
}

// doubleGap is the light-pixel gap between the two strokes of a double
// line (spec §4.3's double-corner contract).
const doubleGap = 1

func strokeThickness(box int, w lineWeight) int {
	if w == weightHeavy {
		return box * 2
	}
	return box // light, and each stroke of a double
}

// strokeOffsets returns the perpendicular center offsets of an edge's
// strokes: one centered stroke for light/heavy, two box-thick strokes
// separated by doubleGap for double.
func strokeOffsets(box int, w lineWeight) []int {
	if w == weightDouble {
		off := box + doubleGap
		return []int{-off, off}
	}
	return []int{0}
}

// bundleOuter is the half-extent of an edge's stroke bundle measured
// from the axis centerline; an arm meeting a perpendicular line extends
// this far past center so the junction has no notch.
func bundleOuter(box int, w lineWeight) int {
	switch w {
	case weightNone:
		return 0
	case weightHeavy:
		return box
	case weightDouble:
		return box + doubleGap + (box+1)/2
	default:
		return (box + 1) / 2
	}
}

// bundleInner is the distance from the centerline to the inner edge of
// a double bundle's near stroke — where a perpendicular line is clipped
// per spec §4.3's junction rule.
func bundleInner(box int) int {
	return box + doubleGap - box/2
}

// synthesizeBoxDrawing renders U+2500-U+257F: per-edge
// {none,light,heavy,double} lines and dashes with the §4.3 junction
// contract — double corners keep a light-pixel gap between their two
// strokes, and a line meeting a double is clipped at the double's inner
// edge rather than crossing through it. Arcs and diagonals get the
// curved-glyph padding and skip the post-trim so their anti-aliased
// edges survive.
func (s *SpriteSynthesizer) synthesizeBoxDrawing(cp rune) spriteCanvas {

	switch {
	case cp >= 0x2571 && cp <= 0x2573:
		return s.synthesizeDiagonal(cp)
	case cp >= 0x256D && cp <= 0x2570:
		return s.synthesizeArc(cp)
	}

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	edges, dashes := boxDrawingEdges(cp)

	img, inner := newCanvas(w, h, 0, 0)
	if dashes > 0 {
		s.drawDashed(img, inner, edges, dashes)
	} else {
		s.drawBoxEdges(img, inner, edges)
	}

	return finishCanvas(img, inner, true, false)
}

func maxWeight(a, b lineWeight) lineWeight {
	if a > b {
		return a
	}
	return b
}

type boxEdges struct {
	up, down, left, right lineWeight
}

// Short aliases keep the edge table below readable.
const (
	wL = weightLight
	wH = weightHeavy
	wD = weightDouble
)

// boxDrawingEdges maps every codepoint in U+2500-U+257F (except the
// arc/diagonal set, which renders separately) to its per-edge weights
// and dash count (0 for solid lines).
func boxDrawingEdges(cp rune) (boxEdges, int) {

	// Corners U+250C-U+251B follow a regular pattern: groups of four
	// (down+right, down+left, up+right, up+left), low bit = heavy
	// horizontal, next bit = heavy vertical.
	if cp >= 0x250C && cp <= 0x251B {
		i := cp - 0x250C
		hWt, vWt := wL, wL
		if i&1 != 0 {
			hWt = wH
		}
		if i&2 != 0 {
			vWt = wH
		}
		var e boxEdges
		switch i / 4 {
		case 0:
			e = boxEdges{down: vWt, right: hWt}
		case 1:
			e = boxEdges{down: vWt, left: hWt}
		case 2:
			e = boxEdges{up: vWt, right: hWt}
		default:
			e = boxEdges{up: vWt, left: hWt}
		}
		return e, 0
	}

	switch cp {
	// Solid and dashed lines.
	case 0x2500:
		return boxEdges{left: wL, right: wL}, 0
	case 0x2501:
		return boxEdges{left: wH, right: wH}, 0
	case 0x2502:
		return boxEdges{up: wL, down: wL}, 0
	case 0x2503:
		return boxEdges{up: wH, down: wH}, 0
	case 0x2504:
		return boxEdges{left: wL, right: wL}, 3
	case 0x2505:
		return boxEdges{left: wH, right: wH}, 3
	case 0x2506:
		return boxEdges{up: wL, down: wL}, 3
	case 0x2507:
		return boxEdges{up: wH, down: wH}, 3
	case 0x2508:
		return boxEdges{left: wL, right: wL}, 4
	case 0x2509:
		return boxEdges{left: wH, right: wH}, 4
	case 0x250A:
		return boxEdges{up: wL, down: wL}, 4
	case 0x250B:
		return boxEdges{up: wH, down: wH}, 4
	case 0x254C:
		return boxEdges{left: wL, right: wL}, 2
	case 0x254D:
		return boxEdges{left: wH, right: wH}, 2
	case 0x254E:
		return boxEdges{up: wL, down: wL}, 2
	case 0x254F:
		return boxEdges{up: wH, down: wH}, 2

	// Right-pointing tees.
	case 0x251C:
		return boxEdges{up: wL, down: wL, right: wL}, 0
	case 0x251D:
		return boxEdges{up: wL, down: wL, right: wH}, 0
	case 0x251E:
		return boxEdges{up: wH, down: wL, right: wL}, 0
	case 0x251F:
		return boxEdges{up: wL, down: wH, right: wL}, 0
	case 0x2520:
		return boxEdges{up: wH, down: wH, right: wL}, 0
	case 0x2521:
		return boxEdges{up: wH, down: wL, right: wH}, 0
	case 0x2522:
		return boxEdges{up: wL, down: wH, right: wH}, 0
	case 0x2523:
		return boxEdges{up: wH, down: wH, right: wH}, 0

	// Left-pointing tees.
	case 0x2524:
		return boxEdges{up: wL, down: wL, left: wL}, 0
	case 0x2525:
		return boxEdges{up: wL, down: wL, left: wH}, 0
	case 0x2526:
		return boxEdges{up: wH, down: wL, left: wL}, 0
	case 0x2527:
		return boxEdges{up: wL, down: wH, left: wL}, 0
	case 0x2528:
		return boxEdges{up: wH, down: wH, left: wL}, 0
	case 0x2529:
		return boxEdges{up: wH, down: wL, left: wH}, 0
	case 0x252A:
		return boxEdges{up: wL, down: wH, left: wH}, 0
	case 0x252B:
		return boxEdges{up: wH, down: wH, left: wH}, 0

	// Down-pointing tees.
	case 0x252C:
		return boxEdges{left: wL, right: wL, down: wL}, 0
	case 0x252D:
		return boxEdges{left: wH, right: wL, down: wL}, 0
	case 0x252E:
		return boxEdges{left: wL, right: wH, down: wL}, 0
	case 0x252F:
		return boxEdges{left: wH, right: wH, down: wL}, 0
	case 0x2530:
		return boxEdges{left: wL, right: wL, down: wH}, 0
	case 0x2531:
		return boxEdges{left: wH, right: wL, down: wH}, 0
	case 0x2532:
		return boxEdges{left: wL, right: wH, down: wH}, 0
	case 0x2533:
		return boxEdges{left: wH, right: wH, down: wH}, 0

	// Up-pointing tees.
	case 0x2534:
		return boxEdges{left: wL, right: wL, up: wL}, 0
	case 0x2535:
		return boxEdges{left: wH, right: wL, up: wL}, 0
	case 0x2536:
		return boxEdges{left: wL, right: wH, up: wL}, 0
	case 0x2537:
		return boxEdges{left: wH, right: wH, up: wL}, 0
	case 0x2538:
		return boxEdges{left: wL, right: wL, up: wH}, 0
	case 0x2539:
		return boxEdges{left: wH, right: wL, up: wH}, 0
	case 0x253A:
		return boxEdges{left: wL, right: wH, up: wH}, 0
	case 0x253B:
		return boxEdges{left: wH, right: wH, up: wH}, 0

	// Crosses.
	case 0x253C:
		return boxEdges{up: wL, down: wL, left: wL, right: wL}, 0
	case 0x253D:
		return boxEdges{up: wL, down: wL, left: wH, right: wL}, 0
	case 0x253E:
		return boxEdges{up: wL, down: wL, left: wL, right: wH}, 0
	case 0x253F:
		return boxEdges{up: wL, down: wL, left: wH, right: wH}, 0
	case 0x2540:
		return boxEdges{up: wH, down: wL, left: wL, right: wL}, 0
	case 0x2541:
		return boxEdges{up: wL, down: wH, left: wL, right: wL}, 0
	case 0x2542:
		return boxEdges{up: wH, down: wH, left: wL, right: wL}, 0
	case 0x2543:
		return boxEdges{up: wH, down: wL, left: wH, right: wL}, 0
	case 0x2544:
		return boxEdges{up: wH, down: wL, left: wL, right: wH}, 0
	case 0x2545:
		return boxEdges{up: wL, down: wH, left: wH, right: wL}, 0
	case 0x2546:
		return boxEdges{up: wL, down: wH, left: wL, right: wH}, 0
	case 0x2547:
		return boxEdges{up: wH, down: wL, left: wH, right: wH}, 0
	case 0x2548:
		return boxEdges{up: wL, down: wH, left: wH, right: wH}, 0
	case 0x2549:
		return boxEdges{up: wH, down: wH, left: wH, right: wL}, 0
	case 0x254A:
		return boxEdges{up: wH, down: wH, left: wL, right: wH}, 0
	case 0x254B:
		return boxEdges{up: wH, down: wH, left: wH, right: wH}, 0

	// Double lines, corners, tees, and crosses.
	case 0x2550:
		return boxEdges{left: wD, right: wD}, 0
	case 0x2551:
		return boxEdges{up: wD, down: wD}, 0
	case 0x2552:
		return boxEdges{down: wL, right: wD}, 0
	case 0x2553:
		return boxEdges{down: wD, right: wL}, 0
	case 0x2554:
		return boxEdges{down: wD, right: wD}, 0
	case 0x2555:
		return boxEdges{down: wL, left: wD}, 0
	case 0x2556:
		return boxEdges{down: wD, left: wL}, 0
	case 0x2557:
		return boxEdges{down: wD, left: wD}, 0
	case 0x2558:
		return boxEdges{up: wL, right: wD}, 0
	case 0x2559:
		return boxEdges{up: wD, right: wL}, 0
	case 0x255A:
		return boxEdges{up: wD, right: wD}, 0
	case 0x255B:
		return boxEdges{up: wL, left: wD}, 0
	case 0x255C:
		return boxEdges{up: wD, left: wL}, 0
	case 0x255D:
		return boxEdges{up: wD, left: wD}, 0
	case 0x255E:
		return boxEdges{up: wL, down: wL, right: wD}, 0
	case 0x255F:
		return boxEdges{up: wD, down: wD, right: wL}, 0
	case 0x2560:
		return boxEdges{up: wD, down: wD, right: wD}, 0
	case 0x2561:
		return boxEdges{up: wL, down: wL, left: wD}, 0
	case 0x2562:
		return boxEdges{up: wD, down: wD, left: wL}, 0
	case 0x2563:
		return boxEdges{up: wD, down: wD, left: wD}, 0
	case 0x2564:
		return boxEdges{left: wD, right: wD, down: wL}, 0
	case 0x2565:
		return boxEdges{left: wL, right: wL, down: wD}, 0
	case 0x2566:
		return boxEdges{left: wD, right: wD, down: wD}, 0
	case 0x2567:
		return boxEdges{left: wD, right: wD, up: wL}, 0
	case 0x2568:
		return boxEdges{left: wL, right: wL, up: wD}, 0
	case 0x2569:
		return boxEdges{left: wD, right: wD, up: wD}, 0
	case 0x256A:
		return boxEdges{up: wL, down: wL, left: wD, right: wD}, 0
	case 0x256B:
		return boxEdges{up: wD, down: wD, left: wL, right: wL}, 0
	case 0x256C:
		return boxEdges{up: wD, down: wD, left: wD, right: wD}, 0

	// Half lines.
	case 0x2574:
		return boxEdges{left: wL}, 0
	case 0x2575:
		return boxEdges{up: wL}, 0
	case 0x2576:
		return boxEdges{right: wL}, 0
	case 0x2577:
		return boxEdges{down: wL}, 0
	case 0x2578:
		return boxEdges{left: wH}, 0
	case 0x2579:
		return boxEdges{up: wH}, 0
	case 0x257A:
		return boxEdges{right: wH}, 0
	case 0x257B:
		return boxEdges{down: wH}, 0

	// Mixed-weight full lines.
	case 0x257C:
		return boxEdges{left: wL, right: wH}, 0
	case 0x257D:
		return boxEdges{up: wL, down: wH}, 0
	case 0x257E:
		return boxEdges{left: wH, right: wL}, 0
	case 0x257F:
		return boxEdges{up: wH, down: wL}, 0
	}

	return boxEdges{}, 0
}

// drawDashed renders the dashed-line variants (U+2504-U+250B,
// U+254C-U+254F): a full-span line broken into `dashes` segments with
// gaps of a third of a segment.
func (s *SpriteSynthesizer) drawDashed(img *image.Alpha, inner image.Rectangle, e boxEdges, dashes int) {

	box := s.metrics.BoxThickness
	cx := inner.Min.X + inner.Dx()/2
	cy := inner.Min.Y + inner.Dy()/2

	if e.left != weightNone {
		t := strokeThickness(box, e.left)
		span := inner.Dx()
		seg := span / dashes
		gap := seg / 3
		if gap < 1 {
			gap = 1
		}
		for i := 0; i < dashes; i++ {
			x0 := inner.Min.X + i*seg
			drawHLine(img, x0, x0+seg-gap, cy, t)
		}
		return
	}

	t := strokeThickness(box, e.up)
	span := inner.Dy()
	seg := span / dashes
	gap := seg / 3
	if gap < 1 {
		gap = 1
	}
	for i := 0; i < dashes; i++ {
		y0 := inner.Min.Y + i*seg
		drawVLine(img, cx, y0, y0+seg-gap, t)
	}
}

// drawBoxEdges renders the four half-edges with junction clipping.
// Full-span axes draw as continuous strokes; single arms extend under a
// perpendicular single line, and are clipped at a perpendicular
// double's inner edge. The all-double cross draws arm-by-arm so its
// center stays open.
func (s *SpriteSynthesizer) drawBoxEdges(img *image.Alpha, inner image.Rectangle, e boxEdges) {

	cx := inner.Min.X + inner.Dx()/2
	cy := inner.Min.Y + inner.Dy()/2

	hW := maxWeight(e.left, e.right)
	vW := maxWeight(e.up, e.down)

	fullH := e.left == e.right && e.left != weightNone
	fullV := e.up == e.down && e.up != weightNone

	// All-double cross: arms only, clipped at each other's inner edges,
	// leaving the canonical open center.
	lattice := fullH && fullV && hW == weightDouble && vW == weightDouble

	if fullH && !lattice {
		s.drawFullHorizontal(img, inner, cx, cy, e)
	} else {
		if e.left != weightNone {
			s.drawArmH(img, inner, cx, cy, -1, e.left, e)
		}
		if e.right != weightNone {
			s.drawArmH(img, inner, cx, cy, +1, e.right, e)
		}
	}

	if fullV && !lattice {
		s.drawFullVertical(img, inner, cx, cy, e)
	} else {
		if e.up != weightNone {
			s.drawArmV(img, inner, cx, cy, -1, e.up, e)
		}
		if e.down != weightNone {
			s.drawArmV(img, inner, cx, cy, +1, e.down, e)
		}
	}
}

// drawFullHorizontal draws a full-span horizontal bundle. When the
// bundle is double and a double vertical arm joins from one side, the
// near stroke is split around the arm's gap so the junction reads as
// two clean corners rather than a stroke crossing the gap.
func (s *SpriteSynthesizer) drawFullHorizontal(img *image.Alpha, inner image.Rectangle, cx, cy int, e boxEdges) {

	box := s.metrics.BoxThickness
	t := strokeThickness(box, e.left)
	inn := bundleInner(box)

	for _, dy := range strokeOffsets(box, e.left) {
		splitForArm := e.left == weightDouble &&
			((dy < 0 && e.up == weightDouble && e.down == weightNone) ||
				(dy > 0 && e.down == weightDouble && e.up == weightNone))
		if !splitForArm {
			drawHLine(img, inner.Min.X, inner.Max.X, cy+dy, t)
			continue
		}
		drawHLine(img, inner.Min.X, cx-inn, cy+dy, t)
		drawHLine(img, cx+inn, inner.Max.X, cy+dy, t)
	}
}

// drawFullVertical draws a full-span vertical bundle. When the vertical
// is double and a double horizontal arm joins from one side, the near
// stroke is split around the arm's gap so the junction reads as two
// clean corners rather than a stroke crossing the gap.
func (s *SpriteSynthesizer) drawFullVertical(img *image.Alpha, inner image.Rectangle, cx, cy int, e boxEdges) {

	box := s.metrics.BoxThickness
	t := strokeThickness(box, e.up)
	inn := bundleInner(box)

	for _, dx := range strokeOffsets(box, e.up) {
		splitForArm := e.up == weightDouble &&
			((dx < 0 && e.left == weightDouble && e.right == weightNone) ||
				(dx > 0 && e.right == weightDouble && e.left == weightNone))
		if !splitForArm {
			drawVLine(img, cx+dx, inner.Min.Y, inner.Max.Y, t)
			continue
		}
		drawVLine(img, cx+dx, inner.Min.Y, cy-inn, t)
		drawVLine(img, cx+dx, cy+inn, inner.Max.Y, t)
	}
}

// drawArmH draws one horizontal half-edge. dir is -1 (left) or +1
// (right). The start of each stroke depends on the perpendicular
// bundle: nothing → cover the center, single → extend under it,
// double → clip at its inner edge, with the outer stroke of a
// double-double corner wrapping around to the perpendicular's outer
// edge.
func (s *SpriteSynthesizer) drawArmH(img *image.Alpha, inner image.Rectangle, cx, cy, dir int, w lineWeight, e boxEdges) {

	box := s.metrics.BoxThickness
	t := strokeThickness(box, w)
	vW := maxWeight(e.up, e.down)

	for _, dy := range strokeOffsets(box, w) {
		reach := armReach(box, w, dy, vW, e.up != weightNone, e.down != weightNone)
		if dir > 0 {
			drawHLine(img, cx-reach, inner.Max.X, cy+dy, t)
		} else {
			drawHLine(img, inner.Min.X, cx+reach, cy+dy, t)
		}
	}
}

// drawArmV is drawArmH rotated a quarter turn.
func (s *SpriteSynthesizer) drawArmV(img *image.Alpha, inner image.Rectangle, cx, cy, dir int, w lineWeight, e boxEdges) {

	box := s.metrics.BoxThickness
	t := strokeThickness(box, w)
	hW := maxWeight(e.left, e.right)

	for _, dx := range strokeOffsets(box, w) {
		reach := armReach(box, w, dx, hW, e.left != weightNone, e.right != weightNone)
		if dir > 0 {
			drawVLine(img, cx+dx, cy-reach, inner.Max.Y, t)
		} else {
			drawVLine(img, cx+dx, inner.Min.Y, cy+reach, t)
		}
	}
}

// armReach computes how far past the axis center an arm stroke extends
// back toward the junction (negative values start short of center,
// clipping at a double's inner edge). strokeOff is the stroke's own
// perpendicular offset; negSide/posSide report which perpendicular
// halves exist (up/left = negative, down/right = positive).
func armReach(box int, w lineWeight, strokeOff int, perp lineWeight, negSide, posSide bool) int {

	switch {
	case perp == weightNone:
		return bundleOuter(box, w)

	case perp != weightDouble:
		return bundleOuter(box, perp)

	case w != weightDouble:
		// single arm meeting a double: clip at the near stroke's inner
		// edge.
		return -bundleInner(box)

	case negSide && posSide:
		// double arm tee into a full double: both strokes clip at the
		// inner edge.
		return -bundleInner(box)

	default:
		// double-double corner: the stroke on the side away from the
		// perpendicular arm is the outer corner and wraps to the
		// perpendicular's outer edge; the other is the inner corner.
		outerOff := -(box + doubleGap)
		if negSide {
			outerOff = box + doubleGap
		}
		if strokeOff == outerOff {
			return bundleOuter(box, weightDouble)
		}
		return -bundleInner(box)
	}
}

// synthesizeArc renders the rounded corners U+256D-U+2570 as a
// box-thick quadratic arc from one edge midpoint to the other, with the
// curved-glyph padding and no post-trim so the anti-aliased-adjacent
// padding survives (spec §4.3).
func (s *SpriteSynthesizer) synthesizeArc(cp rune) spriteCanvas {

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	box := s.metrics.BoxThickness
	pad := s.curvedPadding()

	img, inner := newCanvas(w, h, pad, pad)
	cx, cy := inner.Min.X+w/2, inner.Min.Y+h/2

	var p0, p1 image.Point // edge midpoints; control point is the cell center
	switch cp {
	case 0x256D: // down + right
		p0 = image.Point{X: cx, Y: inner.Max.Y}
		p1 = image.Point{X: inner.Max.X, Y: cy}
	case 0x256E: // down + left
		p0 = image.Point{X: cx, Y: inner.Max.Y}
		p1 = image.Point{X: inner.Min.X, Y: cy}
	case 0x256F: // up + left
		p0 = image.Point{X: cx, Y: inner.Min.Y}
		p1 = image.Point{X: inner.Min.X, Y: cy}
	default: // 0x2570, up + right
		p0 = image.Point{X: cx, Y: inner.Min.Y}
		p1 = image.Point{X: inner.Max.X, Y: cy}
	}

	ctrl := image.Point{X: cx, Y: cy}
	steps := (w + h) * 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		mt := 1 - t
		x := mt*mt*float64(p0.X) + 2*mt*t*float64(ctrl.X) + t*t*float64(p1.X)
		y := mt*mt*float64(p0.Y) + 2*mt*t*float64(ctrl.Y) + t*t*float64(p1.Y)
		fillDot(img, int(x), int(y), box)
	}

	return finishCanvas(img, inner, false, false)
}

// synthesizeDiagonal renders U+2571-U+2573 as corner-to-corner strokes.
func (s *SpriteSynthesizer) synthesizeDiagonal(cp rune) spriteCanvas {

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	box := s.metrics.BoxThickness
	pad := s.curvedPadding()

	img, inner := newCanvas(w, h, pad, pad)

	steps := (w + h) * 2
	line := func(x0, y0, x1, y1 int) {
		for i := 0; i <= steps; i++ {
			t := float64(i) / float64(steps)
			x := float64(x0) + t*float64(x1-x0)
			y := float64(y0) + t*float64(y1-y0)
			fillDot(img, int(x), int(y), box)
		}
	}

	if cp == 0x2571 || cp == 0x2573 { // bottom-left to top-right
		line(inner.Min.X, inner.Max.Y-1, inner.Max.X-1, inner.Min.Y)
	}
	if cp == 0x2572 || cp == 0x2573 { // top-left to bottom-right
		line(inner.Min.X, inner.Min.Y, inner.Max.X-1, inner.Max.Y-1)
	}

	return finishCanvas(img, inner, false, false)
}

// fillDot stamps a size x size opaque square centered on (x, y).
func fillDot(img *image.Alpha, x, y, size int) {
	half := size / 2
	r := image.Rect(x-half, y-half, x-half+size, y-half+size)
	draw.Draw(img, r, &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
}

// synthesizeBlock renders the block-element range as a filled rectangle
// covering the fraction of the cell the codepoint names: the upper and
// right halves, the lower eighths (U+2581-U+2587), the full block, the
// left eighths (U+2589-U+258F), and the upper/right one-eighth blocks.
// The shades (U+2591-U+2593) and quadrants (U+2596-U+259F) fill the
// full cell; they are not drawn as shades or quadrants.
func (s *SpriteSynthesizer) synthesizeBlock(cp rune) spriteCanvas {

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	img, inner := newCanvas(w, h, 0, 0)

	rect := inner
	switch {
	case cp == 0x2580: // upper half
		rect.Max.Y = inner.Min.Y + h/2
	case cp >= 0x2581 && cp <= 0x2587: // lower one to seven eighths
		rect.Min.Y = inner.Max.Y - h*int(cp-0x2580)/8
	case cp == 0x2588:
		// full block, rect unchanged
	case cp >= 0x2589 && cp <= 0x258F: // left seven to one eighths
		rect.Max.X = inner.Min.X + w*int(0x2590-cp)/8
	case cp == 0x2590: // right half
		rect.Min.X = inner.Min.X + w/2
	case cp == 0x2594: // upper one eighth
		rect.Max.Y = inner.Min.Y + h/8
	case cp == 0x2595: // right one eighth
		rect.Min.X = inner.Max.X - w/8
	}

	draw.Draw(img, rect, &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
	return finishCanvas(img, inner, true, false)
}

// synthesizeBraille renders the 8-dot pattern encoded in cp's low byte,
// per the standard Unicode braille dot-bit layout.
func (s *SpriteSynthesizer) synthesizeBraille(cp rune) spriteCanvas {

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	img, inner := newCanvas(w, h, 0, 0)

	bits := int(cp - 0x2800)
	dotW, dotH := w/3, h/5
	// column, row, bit index per the Unicode braille dot numbering.
	dots := [8][3]int{
		{0, 0, 0}, {0, 1, 1}, {0, 2, 2}, {1, 0, 3},
		{1, 1, 4}, {1, 2, 5}, {0, 3, 6}, {1, 3, 7},
	}
	for _, d := range dots {
		if bits&(1<<d[2]) == 0 {
			continue
		}
		cx := inner.Min.X + d[0]*dotW + dotW/2
		cy := inner.Min.Y + d[1]*dotH + dotH/2
		r := image.Rect(cx-dotW/4, cy-dotH/4, cx+dotW/4, cy+dotH/4)
		draw.Draw(img, r, &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
	}

	// Braille skips post-trim per spec §4.3 so differing dot patterns
	// align consistently across a row.
	return finishCanvas(img, inner, false, true)
}

// synthesizePowerline renders the four arrow/separator glyphs as filled
// triangles.
func (s *SpriteSynthesizer) synthesizePowerline(cp rune) spriteCanvas {

	w, h := s.metrics.CellWidth, s.metrics.CellHeight
	img, inner := newCanvas(w, h, 0, 0)

	pointRight := cp == 0xE0B0 || cp == 0xE0B1
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		t := float64(y-inner.Min.Y) / float64(h)
		var x0, x1 int
		if pointRight {
			x0 = inner.Min.X
			x1 = inner.Min.X + int(float64(w)*(1-absDist(t, 0.5)*2))
		} else {
			x1 = inner.Max.X
			x0 = inner.Max.X - int(float64(w)*(1-absDist(t, 0.5)*2))
		}
		if x1 > x0 {
			draw.Draw(img, image.Rect(x0, y, x1, y+1), &image.Uniform{C: color.Alpha{A: 0xff}}, image.Point{}, draw.Over)
		}
	}

	return finishCanvas(img, inner, true, false)
}

func absDist(t, center float64) float64 {
	d := t - center
	if d < 0 {
		return -d
	}
	return d
}

// finishCanvas trims the canvas to its drawn content (unless skipped)
// and reports the shape spec §3/§4.3 requires.
func finishCanvas(img *image.Alpha, inner image.Rectangle, trim, isBraille bool) spriteCanvas {

	b := img.Bounds()
	trimmed := b
	if trim {
		trimmed = trimBounds(img)
	}

	w, h := trimmed.Dx(), trimmed.Dy()
	pixels := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[(trimmed.Min.Y+y-b.Min.Y)*img.Stride+(trimmed.Min.X-b.Min.X) : (trimmed.Min.Y+y-b.Min.Y)*img.Stride+(trimmed.Min.X-b.Min.X)+w]
		copy(pixels[y*w:(y+1)*w], row)
	}

	return spriteCanvas{
		surfaceW: b.Dx(), surfaceH: b.Dy(),
		trimmedW: w, trimmedH: h,
		clipTop:    trimmed.Min.Y - b.Min.Y,
		clipBottom: b.Max.Y - trimmed.Max.Y,
		clipLeft:   trimmed.Min.X - b.Min.X,
		clipRight:  b.Max.X - trimmed.Max.X,
		paddingX:   inner.Min.X - b.Min.X,
		paddingY:   inner.Min.Y - b.Min.Y,
		pixels:     pixels,
		isBraille:  isBraille,
	}
}

// trimBounds finds the smallest rectangle containing every non-zero
// alpha pixel, falling back to the full bounds if the canvas is empty.
func trimBounds(img *image.Alpha) image.Rectangle {

	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	found := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.AlphaAt(x, y).A == 0 {
				continue
			}
			found = true
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if !found {
		return b
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
