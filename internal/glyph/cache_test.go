package glyph_test

import (
	"testing"

	"github.com/phantty/phantty/internal/fontrend/fontrendfake"
	"github.com/phantty/phantty/internal/glyph"
)

func newTestCache(t *testing.T) (*glyph.Cache, *fontrendfake.Rasterizer, *fontrendfake.SystemFontFinder, *fontrendfake.Shaper) {

	r := fontrendfake.NewRasterizer(8, 16)
	finder := fontrendfake.NewSystemFontFinder("primary.ttf", "fallback.ttf")
	shaper := fontrendfake.NewShaper(8)

	c, err := glyph.NewCache(r, shaper, finder, "primary.ttf", 0, 14, 96)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return c, r, finder, shaper
}

func TestGetCodepointCachesResult(t *testing.T) {

	c, _, _, _ := newTestCache(t)

	g1, ok := c.Get('a')
	if !ok {
		t.Fatal("expected glyph for 'a'")
	}
	g2, ok := c.Get('a')
	if !ok || g2.Region != g1.Region {
		t.Fatalf("expected cached identical region, got %+v vs %+v", g1, g2)
	}
}

func TestGetFallsBackOnMissingPrimaryGlyph(t *testing.T) {

	c, r, _, _ := newTestCache(t)
	r.Missing['x'] = true
	r.MissingPath = "primary.ttf"

	g, ok := c.Get('x')
	if !ok {
		t.Fatal("expected fallback glyph for 'x'")
	}
	if g.SizeX == 0 {
		t.Fatal("expected a non-empty glyph from the fallback path")
	}
}

func TestGetGraphemeTriesFallbackFirst(t *testing.T) {

	c, r, _, _ := newTestCache(t)
	r.ColorCodepoints[0x1F1FA] = true

	g, ok := c.GetGrapheme(0x1F1FA, []rune{0x1F1F8}) // US flag regional indicators
	if !ok {
		t.Fatal("expected grapheme glyph")
	}
	if !g.IsColor {
		t.Fatal("expected grapheme to resolve via the color fallback font path")
	}
}

func TestRasterizationFailureWhenShapingFails(t *testing.T) {

	c, _, finder, shaper := newTestCache(t)
	finder.Unresolvable[0x10FFFF] = true
	shaper.FailOn[0x10FFFF] = true

	_, ok := c.GetGrapheme(0x10FFFF, nil)
	if ok {
		t.Fatal("expected rasterization failure when no fallback and primary can't shape it either")
	}
}
