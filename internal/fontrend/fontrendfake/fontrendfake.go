// Package fontrendfake provides fakes for fontrend's three collaborator
// interfaces, used by internal/glyph's tests so they don't depend on
// the Windows-only rasterizer/font-discovery adapters.
package fontrendfake

import (
	"fmt"

	"github.com/phantty/phantty/internal/fontrend"
)

// Rasterizer hands out Faces that render every codepoint as a solid
// cellWidth x cellHeight block, except codepoints registered in Missing,
// which report glyph index 0 — but only for faces opened against
// MissingPath (default "" matches every path), so a test can simulate a
// glyph missing from the primary font while a distinct fallback path
// still resolves it.
type Rasterizer struct {
	CellWidth, CellHeight int
	Missing               map[rune]bool
	MissingPath           string
	ColorCodepoints       map[rune]bool // rendered as BGRA instead of grayscale
}

func NewRasterizer(cellWidth, cellHeight int) *Rasterizer {
	return &Rasterizer{
		CellWidth:       cellWidth,
		CellHeight:      cellHeight,
		Missing:         make(map[rune]bool),
		ColorCodepoints: make(map[rune]bool),
	}
}

func (r *Rasterizer) OpenFace(path string, faceIndex int) (fontrend.Face, error) {
	return &face{r: r, path: path}, nil
}

type face struct {
	r      *Rasterizer
	path   string
	points float32

	loadedRune rune
}

func (f *face) SetCharSize(points float32, dpi uint) error {
	f.points = points
	return nil
}

func (f *face) GetCharIndex(codepoint rune) uint32 {
	if f.r.Missing[codepoint] && (f.r.MissingPath == "" || f.r.MissingPath == f.path) {
		return 0
	}
	return uint32(codepoint) // index == codepoint is fine for a fake
}

func (f *face) LoadGlyph(index uint32, target fontrend.HintTarget, color bool) error {
	f.loadedRune = rune(index)
	return nil
}

func (f *face) RenderGlyph(target fontrend.HintTarget) (fontrend.Bitmap, error) {

	w, h := f.r.CellWidth, f.r.CellHeight
	if f.r.ColorCodepoints[f.loadedRune] {
		buf := make([]byte, w*h*4)
		for i := range buf {
			buf[i] = 0xff
		}
		return fontrend.Bitmap{
			Format: fontrend.BitmapBGRA,
			Width:  w, Rows: h, Pitch: w * 4,
			Buffer:       buf,
			AdvanceX26_6: int32(w * 64),
		}, nil
	}

	buf := make([]byte, w*h)
	for i := range buf {
		buf[i] = 0xff
	}
	return fontrend.Bitmap{
		Format: fontrend.BitmapGrayscale,
		Width:  w, Rows: h, Pitch: w,
		Buffer:       buf,
		AdvanceX26_6: int32(w * 64),
	}, nil
}

func (f *face) Metrics() fontrend.FaceMetrics {
	return fontrend.FaceMetrics{
		Ascent:             float32(f.r.CellHeight) * 0.8,
		Descent:            -float32(f.r.CellHeight) * 0.2,
		LineGap:            0,
		UnderlineThickness: 1,
	}
}

// Shaper shapes every rune to a glyph index equal to its codepoint, with
// an advance equal to the Rasterizer's CellWidth; sequences containing a
// codepoint marked as FailOn report glyph index 0 in the first output
// glyph, simulating a shaping failure (spec §6.4).
type Shaper struct {
	CellWidth int
	FailOn    map[rune]bool
}

func NewShaper(cellWidth int) *Shaper {
	return &Shaper{CellWidth: cellWidth, FailOn: make(map[rune]bool)}
}

func (s *Shaper) Shape(codepoints []rune, face fontrend.Face) []fontrend.ShapedGlyph {

	if len(codepoints) > 0 && s.FailOn[codepoints[0]] {
		return []fontrend.ShapedGlyph{{GlyphIndex: 0}}
	}

	out := make([]fontrend.ShapedGlyph, len(codepoints))
	for i, r := range codepoints {
		out[i] = fontrend.ShapedGlyph{
			GlyphIndex: uint32(r),
			XAdvance:   int32(s.CellWidth * 64),
		}
	}
	return out
}

// SystemFontFinder resolves every family lookup to a single fixed path,
// and every fallback lookup to a second fixed path, unless the
// codepoint is registered as unresolvable.
type SystemFontFinder struct {
	PrimaryPath, FallbackPath string
	Unresolvable              map[rune]bool
}

func NewSystemFontFinder(primaryPath, fallbackPath string) *SystemFontFinder {
	return &SystemFontFinder{
		PrimaryPath:  primaryPath,
		FallbackPath: fallbackPath,
		Unresolvable: make(map[rune]bool),
	}
}

func (s *SystemFontFinder) FindFamily(family, weight string) (string, int, error) {
	return s.PrimaryPath, 0, nil
}

func (s *SystemFontFinder) FindFallback(codepoint rune) (string, int, error) {
	if s.Unresolvable[codepoint] {
		return "", 0, fmt.Errorf("fontrendfake: no fallback for %q", codepoint)
	}
	return s.FallbackPath, 0, nil
}

var (
	_ fontrend.Rasterizer       = (*Rasterizer)(nil)
	_ fontrend.Shaper           = (*Shaper)(nil)
	_ fontrend.SystemFontFinder = (*SystemFontFinder)(nil)
)
