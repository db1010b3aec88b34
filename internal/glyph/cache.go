package glyph

import (
	"errors"

	"github.com/cespare/xxhash/v2"

	"github.com/phantty/phantty/internal/fontrend"
)

// ErrRasterizationFailure is returned by reserveWithGrowth when a glyph
// cannot be packed even after growing the atlas to its maximum size.
// The other ways a miss can fail (no fallback found, fallback still
// missing the glyph, shaping failed) are reported by Get/GetGrapheme as
// ok=false, not as this error.
var ErrRasterizationFailure = errors.New("glyph: rasterization failure")

// Cache resolves codepoints and grapheme clusters to rasterized Glyphs,
// lazily rasterizing on miss via the rasterizer/shaper/font-discovery
// collaborators, or via SpriteSynthesizer for the procedural ranges
// (spec §4.2).
type Cache struct {
	rasterizer fontrend.Rasterizer
	shaper     fontrend.Shaper
	finder     fontrend.SystemFontFinder
	sprites    *SpriteSynthesizer

	grayscale *Atlas
	color     *Atlas

	primaryFace fontrend.Face
	points      float32
	dpi         uint

	byCodepoint map[rune]Glyph
	byGrapheme  map[uint64]Glyph

	// fallback faces opened on demand, keyed by path, so a repeated
	// fallback resolution doesn't re-open and re-parse the font file.
	fallbackFaces map[string]fontrend.Face

	Metrics FontMetrics
}

// NewCache opens the primary face at the given point size/DPI, measures
// FontMetrics, and returns an empty cache ready for Get/GetGrapheme.
func NewCache(rasterizer fontrend.Rasterizer, shaper fontrend.Shaper, finder fontrend.SystemFontFinder, primaryPath string, faceIndex int, points float32, dpi uint) (*Cache, error) {

	face, err := rasterizer.OpenFace(primaryPath, faceIndex)
	if err != nil {
		return nil, err
	}
	if err := face.SetCharSize(points, dpi); err != nil {
		return nil, err
	}

	cellWidth := measureCellWidth(face)
	metrics := computeFontMetrics(face.Metrics(), cellWidth)

	return &Cache{
		rasterizer:    rasterizer,
		shaper:        shaper,
		finder:        finder,
		sprites:       NewSpriteSynthesizer(metrics),
		grayscale:     NewAtlas(FormatGrayscale),
		color:         NewAtlas(FormatColor),
		primaryFace:   face,
		points:        points,
		dpi:           dpi,
		byCodepoint:   make(map[rune]Glyph),
		byGrapheme:    make(map[uint64]Glyph),
		fallbackFaces: make(map[string]fontrend.Face),
		Metrics:       metrics,
	}, nil
}

// GrayscaleAtlas and ColorAtlas expose the backing atlases for the
// render pipeline's texture sync step (spec §4.6 Phase E).
func (c *Cache) GrayscaleAtlas() *Atlas { return c.grayscale }
func (c *Cache) ColorAtlas() *Atlas     { return c.color }

// Get resolves a single codepoint to a Glyph, rasterizing on miss.
func (c *Cache) Get(codepoint rune) (Glyph, bool) {

	if g, ok := c.byCodepoint[codepoint]; ok {
		return g, true
	}

	g, ok := c.rasterizeCodepoint(codepoint)
	if !ok {
		return Glyph{}, false
	}

	c.byCodepoint[codepoint] = g
	return g, true
}

// GetGrapheme resolves a multi-codepoint grapheme cluster, keyed by a
// 64-bit hash of the concatenated codepoints (spec §4.2's
// Hash64(base + extras)).
func (c *Cache) GetGrapheme(base rune, extras []rune) (Glyph, bool) {

	key := graphemeKey(base, extras)
	if g, ok := c.byGrapheme[key]; ok {
		return g, true
	}

	g, ok := c.rasterizeGrapheme(base, extras)
	if !ok {
		return Glyph{}, false
	}

	c.byGrapheme[key] = g
	return g, true
}

func graphemeKey(base rune, extras []rune) uint64 {
	buf := make([]byte, 0, 4*(1+len(extras)))
	buf = appendRune(buf, base)
	for _, r := range extras {
		buf = appendRune(buf, r)
	}
	return xxhash.Sum64(buf)
}

func appendRune(buf []byte, r rune) []byte {
	return append(buf, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
}

// Clear drops both maps and resets the atlases, called only on font
// reload (spec §4.2's clear()).
func (c *Cache) Clear() {
	c.byCodepoint = make(map[rune]Glyph)
	c.byGrapheme = make(map[uint64]Glyph)
	c.fallbackFaces = make(map[string]fontrend.Face)
	c.grayscale = NewAtlas(FormatGrayscale)
	c.color = NewAtlas(FormatColor)
}

// rasterizeCodepoint implements the single-codepoint path of the
// rasterization pipeline (spec §4.2 steps 1-3, 5): sprite range first,
// then primary font, then fallback-last.
func (c *Cache) rasterizeCodepoint(codepoint rune) (Glyph, bool) {

	if IsSpriteRange(codepoint) {
		return c.rasterizeSprite(codepoint)
	}

	face := c.primaryFace
	idx := face.GetCharIndex(codepoint)

	if idx == 0 {
		fbFace, ok := c.openFallback(codepoint)
		if !ok {
			return Glyph{}, false
		}
		face = fbFace
		idx = face.GetCharIndex(codepoint)
		if idx == 0 {
			return Glyph{}, false
		}
	}

	return c.rasterizeGlyphIndex(face, idx)
}

// rasterizeGrapheme implements the multi-codepoint path (spec §4.2 step
// 4): fallback (emoji) fonts are tried *first*, because monospace
// primary fonts decompose regional indicators and skin-tone modifiers
// into separate glyphs instead of shaping them into one cluster. This is
// deliberately the opposite order from rasterizeCodepoint and is not
// unified with it (spec §9 Open Question, resolved toward two distinct
// paths).
func (c *Cache) rasterizeGrapheme(base rune, extras []rune) (Glyph, bool) {

	seq := append([]rune{base}, extras...)

	if fbFace, ok := c.openFallback(base); ok {
		shaped := c.shaper.Shape(seq, fbFace)
		if len(shaped) > 0 && shaped[0].GlyphIndex != 0 {
			return c.rasterizeGlyphIndex(fbFace, shaped[0].GlyphIndex)
		}
	}

	shaped := c.shaper.Shape(seq, c.primaryFace)
	if len(shaped) > 0 && shaped[0].GlyphIndex != 0 {
		return c.rasterizeGlyphIndex(c.primaryFace, shaped[0].GlyphIndex)
	}

	return Glyph{}, false
}

func (c *Cache) openFallback(codepoint rune) (fontrend.Face, bool) {

	path, faceIndex, err := c.finder.FindFallback(codepoint)
	if err != nil {
		return nil, false
	}

	if face, ok := c.fallbackFaces[path]; ok {
		return face, true
	}

	face, err := c.rasterizer.OpenFace(path, faceIndex)
	if err != nil {
		return nil, false
	}
	if err := face.SetCharSize(c.points, c.dpi); err != nil {
		return nil, false
	}

	c.fallbackFaces[path] = face
	return face, true
}

// rasterizeSprite packs a procedurally synthesized sprite into the
// grayscale atlas, applying the special offset semantics of spec §4.3.
func (c *Cache) rasterizeSprite(cp rune) (Glyph, bool) {

	canvas, ok := c.sprites.Synthesize(cp)
	if !ok {
		return Glyph{}, false
	}

	region, err := reserveWithGrowth(c.grayscale, canvas.trimmedW, canvas.trimmedH)
	if err != nil {
		return Glyph{}, false
	}
	c.grayscale.Set(region, canvas.pixels)

	offsetX := canvas.clipLeft - canvas.paddingX
	offsetY := canvas.trimmedH + canvas.clipBottom - canvas.paddingY
	if canvas.isBraille {
		offsetY -= c.Metrics.CellBaseline / 2
	}
	bearingY := offsetY - c.Metrics.CellBaseline

	return Glyph{
		Region:   region,
		SizeX:    canvas.trimmedW,
		SizeY:    canvas.trimmedH,
		BearingX: offsetX,
		BearingY: bearingY,
		Advance:  int32(c.Metrics.CellWidth) * 64,
		IsColor:  false,
	}, true
}

// rasterizeGlyphIndex runs step 5 of the pipeline: render with light
// hinting, route BGRA bitmaps to the color atlas and everything else to
// the grayscale atlas, growing whichever atlas reports full.
func (c *Cache) rasterizeGlyphIndex(face fontrend.Face, idx uint32) (Glyph, bool) {

	if err := face.LoadGlyph(idx, fontrend.HintLight, true); err != nil {
		return Glyph{}, false
	}
	bmp, err := face.RenderGlyph(fontrend.HintLight)
	if err != nil {
		return Glyph{}, false
	}

	atlas := c.grayscale
	if bmp.Format == fontrend.BitmapBGRA {
		atlas = c.color
	}

	region, err := reserveWithGrowth(atlas, bmp.Width, bmp.Rows)
	if err != nil {
		return Glyph{}, false
	}
	atlas.Set(region, bmp.Buffer)

	return Glyph{
		Region:   region,
		SizeX:    bmp.Width,
		SizeY:    bmp.Rows,
		BearingX: bmp.BitmapLeft,
		BearingY: bmp.BitmapTop,
		Advance:  bmp.AdvanceX26_6,
		IsColor:  bmp.Format == fontrend.BitmapBGRA,
	}, true
}

// reserveWithGrowth retries Reserve after doubling the atlas on
// AtlasFull, capped at maxAtlasSize (spec §4.1 failure semantics).
func reserveWithGrowth(atlas *Atlas, w, h int) (Region, error) {
	for {
		region, err := atlas.Reserve(w, h)
		if err == nil {
			return region, nil
		}
		if growErr := atlas.Grow(); growErr != nil {
			return Region{}, ErrRasterizationFailure
		}
	}
}
