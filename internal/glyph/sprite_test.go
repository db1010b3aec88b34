package glyph

import "testing"

func testMetrics() FontMetrics {
	return FontMetrics{CellWidth: 9, CellHeight: 18, CellBaseline: 14, BoxThickness: 1}
}

func TestIsSpriteRange(t *testing.T) {

	cases := map[rune]bool{
		0x2500: true, 0x257F: true, 0x2580: true, 0x259F: true,
		0x2800: true, 0x28FF: true, 0xE0B0: true, 0xE0B3: true,
		'a': false, 0x1F600: false,
	}
	for cp, want := range cases {
		if got := IsSpriteRange(cp); got != want {
			t.Errorf("IsSpriteRange(%#x) = %v, want %v", cp, got, want)
		}
	}
}

func TestSynthesizeBoxDrawingProducesPixels(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	canvas, ok := s.Synthesize(0x2500) // light horizontal line
	if !ok {
		t.Fatal("expected a sprite for U+2500")
	}
	if canvas.trimmedW == 0 || canvas.trimmedH == 0 {
		t.Fatalf("expected non-empty trimmed canvas, got %+v", canvas)
	}
}

func TestSynthesizeBoxDrawingCornerIsNotCross(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	m := testMetrics()

	corner, ok := s.Synthesize(0x250C) // down + right corner
	if !ok {
		t.Fatal("expected a sprite for U+250C")
	}
	// A corner occupies only the lower-right of the cell; a cross would
	// trim to the full cell span on both axes.
	if corner.trimmedW >= m.CellWidth || corner.trimmedH >= m.CellHeight {
		t.Fatalf("U+250C trimmed to %dx%d, which spans the whole cell like a cross", corner.trimmedW, corner.trimmedH)
	}

	cross, ok := s.Synthesize(0x253C)
	if !ok {
		t.Fatal("expected a sprite for U+253C")
	}
	if cross.trimmedW != m.CellWidth || cross.trimmedH != m.CellHeight {
		t.Fatalf("U+253C trimmed to %dx%d, want the full %dx%d cell", cross.trimmedW, cross.trimmedH, m.CellWidth, m.CellHeight)
	}
}

func TestSynthesizeDoubleLineKeepsGap(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	canvas, ok := s.Synthesize(0x2550) // double horizontal
	if !ok {
		t.Fatal("expected a sprite for U+2550")
	}

	// box=1: two 1px strokes at +/-(box+gap) trim to a 5-row band with
	// the middle row fully transparent.
	if canvas.trimmedH != 5 {
		t.Fatalf("trimmedH = %d, want 5 (two strokes plus the gap)", canvas.trimmedH)
	}
	mid := canvas.trimmedH / 2
	for x := 0; x < canvas.trimmedW; x++ {
		if canvas.pixels[mid*canvas.trimmedW+x] != 0 {
			t.Fatalf("gap row has an opaque pixel at x=%d", x)
		}
	}
}

func TestSynthesizeSingleArmClipsAtDoubleInnerEdge(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	m := testMetrics()
	canvas, ok := s.Synthesize(0x255F) // vertical double, right single
	if !ok {
		t.Fatal("expected a sprite for U+255F")
	}

	// The light arm must start at the near stroke's inner edge, not
	// cross the double's gap: the cell-center pixel on the arm's row
	// stays transparent.
	cx, cy := m.CellWidth/2, m.CellHeight/2
	col := cx - canvas.clipLeft
	row := cy - canvas.clipTop
	if canvas.pixels[row*canvas.trimmedW+col] != 0 {
		t.Fatal("single arm crossed through the double vertical's gap")
	}

	// The near (right) stroke itself is opaque on that row.
	strokeCol := cx + 2 - canvas.clipLeft
	if canvas.pixels[row*canvas.trimmedW+strokeCol] == 0 {
		t.Fatal("expected the double's near stroke to be opaque where the arm joins")
	}
}

func TestSynthesizeBrailleSkipsTrim(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	canvas, ok := s.Synthesize(0x2800 + 0x01) // one dot set
	if !ok {
		t.Fatal("expected a sprite for a braille codepoint")
	}
	m := testMetrics()
	if canvas.trimmedW != m.CellWidth || canvas.trimmedH != m.CellHeight {
		t.Fatalf("expected braille to skip post-trim (full cell), got %dx%d", canvas.trimmedW, canvas.trimmedH)
	}
}

func TestSynthesizeNonSpriteReturnsFalse(t *testing.T) {

	s := NewSpriteSynthesizer(testMetrics())
	if _, ok := s.Synthesize('a'); ok {
		t.Fatal("expected Synthesize to reject a non-sprite codepoint")
	}
}
