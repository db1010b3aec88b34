package fontrendfake_test

import (
	"testing"

	"github.com/phantty/phantty/internal/fontrend/fontrendfake"
)

func TestRasterizerMissingGlyph(t *testing.T) {

	r := fontrendfake.NewRasterizer(8, 16)
	r.Missing['x'] = true

	face, err := r.OpenFace("fake.ttf", 0)
	if err != nil {
		t.Fatalf("OpenFace: %v", err)
	}

	if idx := face.GetCharIndex('x'); idx != 0 {
		t.Fatalf("expected missing glyph index 0, got %d", idx)
	}
	if idx := face.GetCharIndex('a'); idx == 0 {
		t.Fatal("expected non-zero glyph index for 'a'")
	}
}

func TestShaperFailure(t *testing.T) {

	s := fontrendfake.NewShaper(8)
	s.FailOn['a'] = true

	out := s.Shape([]rune{'a', 'b'}, nil)
	if len(out) == 0 || out[0].GlyphIndex != 0 {
		t.Fatalf("expected shaping failure signalled by glyph index 0, got %v", out)
	}

	out = s.Shape([]rune{'c'}, nil)
	if len(out) != 1 || out[0].GlyphIndex == 0 {
		t.Fatalf("expected successful shape, got %v", out)
	}
}
