// Package fontrend holds the capability interfaces for the three font
// collaborators GlyphCache depends on (spec §6.3-§6.5): a rasterizer, a
// text shaper, and system font discovery.
package fontrend

// BitmapFormat distinguishes a grayscale alpha bitmap from a
// pre-rendered color (BGRA) one, e.g. a color emoji glyph.
type BitmapFormat uint8

const (
	BitmapGrayscale BitmapFormat = iota
	BitmapBGRA
)

// HintTarget selects the rasterizer's hinting mode.
type HintTarget uint8

const (
	HintLight HintTarget = iota
	HintNormal
)

// Bitmap is a rasterized glyph, in the rasterizer's native coordinate
// system (26.6 fixed-point advance, pixel bitmap metrics).
type Bitmap struct {
	Format BitmapFormat

	Width, Rows int
	Pitch       int
	Buffer      []byte

	BitmapLeft, BitmapTop int
	AdvanceX26_6          int32
}

// FaceMetrics are the font-wide metrics GlyphCache computes once per
// font load (spec §4.2).
type FaceMetrics struct {
	Ascent, Descent, LineGap float32 // in pixels, at the loaded point size
	UnderlineThickness       float32
}

// Face is an opened font face, sized for a specific point size and DPI.
type Face interface {
	// SetCharSize sets the rasterization point size for this face.
	SetCharSize(points float32, dpi uint) error

	// GetCharIndex resolves a codepoint to a glyph index, or 0 if the
	// font has no glyph for it.
	GetCharIndex(codepoint rune) uint32

	// LoadGlyph prepares the given glyph index for rendering at the
	// given hint target; color requests a BGRA bitmap when the font
	// provides one (e.g. a COLR/CPAL or CBDT color table).
	LoadGlyph(index uint32, target HintTarget, color bool) error

	// RenderGlyph rasterizes the most recently loaded glyph.
	RenderGlyph(target HintTarget) (Bitmap, error)

	// Metrics returns the face-wide metrics used for cell_height and
	// cell_baseline (spec §4.2).
	Metrics() FaceMetrics
}

// Rasterizer opens font files into Faces.
type Rasterizer interface {
	// OpenFace opens the face at faceIndex within the font file at path.
	OpenFace(path string, faceIndex int) (Face, error)
}

// ShapedGlyph is one glyph produced by shaping a codepoint sequence.
type ShapedGlyph struct {
	GlyphIndex uint32
	XAdvance   int32 // 26.6 fixed point
	YAdvance   int32
	XOffset    int32
	YOffset    int32
}

// Shaper shapes a codepoint sequence against a face. GlyphIndex 0 in the
// first output glyph indicates shaping failed, for fallback selection
// (spec §6.4).
type Shaper interface {
	Shape(codepoints []rune, face Face) []ShapedGlyph
}

// SystemFontFinder answers the two font-discovery questions GlyphCache
// needs: the primary family/weight lookup, and per-codepoint fallback
// (spec §6.5).
type SystemFontFinder interface {
	// FindFamily resolves a family name and weight to a font file path
	// and face index.
	FindFamily(family, weight string) (path string, faceIndex int, err error)

	// FindFallback resolves a font file path and face index capable of
	// rendering the given codepoint.
	FindFallback(codepoint rune) (path string, faceIndex int, err error)
}
