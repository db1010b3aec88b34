// Rasterizer adapter grounded on the teacher's font_atlas.go, which
// parses a font with golang/freetype's truetype package and reads
// metrics via golang.org/x/image/font's face API; this adapter
// generalizes that same stack to an on-demand per-glyph Face instead of
// the teacher's whole-alphabet precomputed atlas.
package fontrend

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FreeTypeRasterizer opens TrueType/OpenType faces via golang/freetype.
type FreeTypeRasterizer struct{}

func (FreeTypeRasterizer) OpenFace(path string, faceIndex int) (Face, error) {

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fontrend: read %s: %w", path, err)
	}

	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("fontrend: parse %s: %w", path, err)
	}

	return &freeTypeFace{font: f, path: path, indexToRune: make(map[uint32]rune)}, nil
}

type freeTypeFace struct {
	font *truetype.Font
	face font.Face
	path string

	points float32
	dpi    uint

	loadedIndex uint32
	loadedRune  rune
	indexToRune map[uint32]rune
}

// sourcePath and pointSize satisfy fontrend.pathFace, letting
// HarfbuzzShaper re-parse the same font file via go-text/typesetting
// without freeTypeFace needing to know about that package.
func (f *freeTypeFace) sourcePath() string { return f.path }
func (f *freeTypeFace) pointSize() float32 { return f.points }

func (f *freeTypeFace) SetCharSize(points float32, dpi uint) error {
	f.points = points
	f.dpi = dpi
	f.face = truetype.NewFace(f.font, &truetype.Options{
		Size:    float64(points),
		DPI:     float64(dpi),
		Hinting: fontHinting(HintLight),
	})
	return nil
}

func fontHinting(target HintTarget) truetypeHinting {
	if target == HintNormal {
		return hintingFull
	}
	return hintingNone
}

// truetype.Hinting constants are re-typed here so callers of this file
// don't need to import golang.org/x/image/font directly.
type truetypeHinting = font.Hinting

const (
	hintingNone truetypeHinting = font.HintingNone
	hintingFull truetypeHinting = font.HintingFull
)

func (f *freeTypeFace) GetCharIndex(codepoint rune) uint32 {
	if f.font == nil {
		return 0
	}
	idx := f.font.Index(codepoint)
	if idx != 0 {
		// golang/freetype's truetype.Face renders by rune, not glyph
		// index; remember the rune that produced this index so
		// LoadGlyph/RenderGlyph can re-derive it (spec §6.3's
		// index-then-load contract doesn't carry the rune through).
		f.indexToRune[uint32(idx)] = codepoint
	}
	return uint32(idx)
}

func (f *freeTypeFace) LoadGlyph(index uint32, target HintTarget, color bool) error {
	f.loadedIndex = index
	f.loadedRune = f.indexToRune[index]
	return nil
}

func (f *freeTypeFace) RenderGlyph(target HintTarget) (Bitmap, error) {
	if f.face == nil {
		return Bitmap{}, fmt.Errorf("fontrend: SetCharSize not called")
	}

	r := f.loadedRune
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Bitmap{}, fmt.Errorf("fontrend: no glyph for rune %q", r)
	}

	gray, ok := mask.(*image.Alpha)
	if !ok {
		// Convert whatever mask type was returned into a tightly packed
		// alpha bitmap so callers get a uniform grayscale format.
		b := mask.Bounds()
		gray = image.NewAlpha(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				_, _, _, a := mask.At(x, y).RGBA()
				gray.SetAlpha(x, y, color.Alpha{A: uint8(a >> 8)})
			}
		}
	}

	b := gray.Bounds()
	return Bitmap{
		Format:       BitmapGrayscale,
		Width:        b.Dx(),
		Rows:         b.Dy(),
		Pitch:        gray.Stride,
		Buffer:       gray.Pix,
		BitmapLeft:   dr.Min.X - maskp.X,
		BitmapTop:    -dr.Min.Y,
		AdvanceX26_6: int32(advance),
	}, nil
}

func (f *freeTypeFace) Metrics() FaceMetrics {
	if f.face == nil {
		return FaceMetrics{}
	}
	m := f.face.Metrics()
	return FaceMetrics{
		Ascent: float32(m.Ascent.Ceil()),
		// x/image/font.Metrics.Descent is the positive distance from the
		// baseline to the bottom of the line; FaceMetrics uses the
		// signed OS/2-style convention (negative below baseline) so
		// GlyphCache's cell_height/cell_baseline formulas (spec §4.2)
		// read the same way they would off a real OS/2 typo table.
		Descent:            -float32(m.Descent.Ceil()),
		LineGap:            float32((m.Height - m.Ascent - m.Descent).Ceil()),
		UnderlineThickness: 1, // golang.org/x/image/font.Face exposes no post-table thickness; floored to 1 per spec §4.2
	}
}

var _ Rasterizer = FreeTypeRasterizer{}
var _ Face = (*freeTypeFace)(nil)
