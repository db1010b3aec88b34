// HarfBuzz-equivalent text shaper, grounded directly on gogpu-gg's
// text/shaper_gotext.go: both cache a parsed go-text font.Font per font
// source, wrap a pooled shaping.HarfbuzzShaper (not concurrency-safe on
// its own), and convert the go-text glyph output into a flat glyph
// slice. This is the real "HarfBuzz-shaped grapheme clusters" dependency
// the spec calls for (spec §6.4), not a hand-rolled shaper.
package fontrend

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gotextfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// pathFace is the subset of Face the shaper needs beyond the base
// interface: the font file it was opened from (to key the go-text font
// cache) and the point size it was last sized to.
type pathFace interface {
	Face
	sourcePath() string
	pointSize() float32
}

// HarfbuzzShaper shapes codepoint sequences via go-text/typesetting's
// HarfBuzz implementation.
type HarfbuzzShaper struct {
	pool sync.Pool

	mu        sync.RWMutex
	fontCache map[string]*gotextfont.Font
}

// NewHarfbuzzShaper returns a ready-to-use shaper.
func NewHarfbuzzShaper() *HarfbuzzShaper {
	return &HarfbuzzShaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		fontCache: make(map[string]*gotextfont.Font),
	}
}

func (s *HarfbuzzShaper) Shape(codepoints []rune, face Face) []ShapedGlyph {
	if len(codepoints) == 0 {
		return nil
	}

	pf, ok := face.(pathFace)
	if !ok {
		return nil
	}

	f, err := s.getOrParse(pf.sourcePath())
	if err != nil {
		return nil
	}

	gtFace := gotextfont.NewFace(f)

	input := shaping.Input{
		Text:      codepoints,
		RunStart:  0,
		RunEnd:    len(codepoints),
		Direction: 0, // left-to-right; terminal grids have no bidi reordering
		Face:      gtFace,
		Size:      fixed.I(int(pf.pointSize())),
		Language:  language.NewLanguage("en"),
	}

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	glyphs := make([]ShapedGlyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		glyphs[i] = ShapedGlyph{
			GlyphIndex: uint32(g.GlyphID),
			XAdvance:   int32(g.XAdvance),
			YAdvance:   int32(g.YAdvance),
			XOffset:    int32(g.XOffset),
			YOffset:    int32(g.YOffset),
		}
	}
	return glyphs
}

func (s *HarfbuzzShaper) getOrParse(path string) (*gotextfont.Font, error) {
	s.mu.RLock()
	if f, ok := s.fontCache[path]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fontCache[path]; ok {
		return f, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontrend: read %s: %w", path, err)
	}

	gtFace, err := gotextfont.ParseTTF(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("fontrend: parse %s: %w", path, err)
	}

	s.fontCache[path] = gtFace.Font
	return gtFace.Font, nil
}

// ClearCache drops all parsed fonts, called on a font reload (spec
// §4.2's GlyphCache.clear()).
func (s *HarfbuzzShaper) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontCache = make(map[string]*gotextfont.Font)
}

var _ Shaper = (*HarfbuzzShaper)(nil)
