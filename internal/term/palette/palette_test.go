package palette_test

import (
	"testing"

	"github.com/phantty/phantty/internal/term/palette"
)

func TestResolveTheme(t *testing.T) {

	var theme [16]palette.RGB
	theme[3] = palette.RGB{R: 0.5, G: 0.25, B: 0.75}

	got := palette.Resolve(3, theme)
	if got != theme[3] {
		t.Fatalf("index 3: expected %v, got %v", theme[3], got)
	}
}

func TestResolveCube(t *testing.T) {

	var theme [16]palette.RGB

	// Index 16 is cube coordinate (0,0,0) -> pure black.
	got := palette.Resolve(16, theme)
	want := palette.RGB{}
	if got != want {
		t.Fatalf("index 16: expected %v, got %v", want, got)
	}

	// Index 231 is cube coordinate (5,5,5) -> (40*5+55)/255 per channel.
	got = palette.Resolve(231, theme)
	level := float32(40*5+55) / 255.0
	want = palette.RGB{R: level, G: level, B: level}
	if got != want {
		t.Fatalf("index 231: expected %v, got %v", want, got)
	}
}

func TestResolveGrayscale(t *testing.T) {

	var theme [16]palette.RGB

	got := palette.Resolve(232, theme)
	level := float32(8) / 255.0
	want := palette.RGB{R: level, G: level, B: level}
	if got != want {
		t.Fatalf("index 232: expected %v, got %v", want, got)
	}

	got = palette.Resolve(255, theme)
	level = float32(10*23+8) / 255.0
	want = palette.RGB{R: level, G: level, B: level}
	if got != want {
		t.Fatalf("index 255: expected %v, got %v", want, got)
	}
}

func TestResolveAllIndices(t *testing.T) {

	var theme [16]palette.RGB
	for i := range theme {
		theme[i] = palette.RGB{R: float32(i) / 16, G: 0, B: 0}
	}

	for i := 0; i < 256; i++ {
		idx := uint8(i)
		got := palette.Resolve(idx, theme)

		switch {
		case idx < 16:
			if got != theme[idx] {
				t.Fatalf("index %d: expected theme entry %v, got %v", idx, theme[idx], got)
			}
		case idx < 232:
			if got.R < 0 || got.R > 1 || got.G < 0 || got.G > 1 || got.B < 0 || got.B > 1 {
				t.Fatalf("index %d: component out of range: %v", idx, got)
			}
		default:
			if got.R != got.G || got.G != got.B {
				t.Fatalf("index %d: grayscale ramp must have equal components, got %v", idx, got)
			}
		}
	}
}
