package glyph_test

import (
	"testing"

	"github.com/phantty/phantty/internal/glyph"
)

func TestReserveWithinBorder(t *testing.T) {

	a := glyph.NewAtlas(glyph.FormatGrayscale)
	r, err := a.Reserve(10, 12)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if r.X < 1 || r.Y < 1 {
		t.Fatalf("region touches border: %+v", r)
	}
	if r.X+r.W >= a.Size() || r.Y+r.H >= a.Size() {
		t.Fatalf("region exceeds border: %+v size=%d", r, a.Size())
	}
}

func TestReserveNonOverlapping(t *testing.T) {

	a := glyph.NewAtlas(glyph.FormatGrayscale)

	var regions []glyph.Region
	for i := 0; i < 50; i++ {
		r, err := a.Reserve(8, 16)
		if err != nil {
			t.Fatalf("Reserve %d: %v", i, err)
		}
		regions = append(regions, r)
	}

	for i := range regions {
		for j := range regions {
			if i == j {
				continue
			}
			if overlaps(regions[i], regions[j]) {
				t.Fatalf("regions %d and %d overlap: %+v %+v", i, j, regions[i], regions[j])
			}
		}
	}
}

func overlaps(a, b glyph.Region) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestModifiedIncrementsOnSetAndGrow(t *testing.T) {

	a := glyph.NewAtlas(glyph.FormatGrayscale)
	before := a.Modified()

	r, err := a.Reserve(4, 4)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	a.Set(r, make([]byte, 16))
	if a.Modified() <= before {
		t.Fatal("expected Modified to increment after Set")
	}

	beforeGrow := a.Modified()
	if err := a.Grow(); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if a.Modified() <= beforeGrow {
		t.Fatal("expected Modified to increment after Grow")
	}
	if a.Size() != 1024 {
		t.Fatalf("expected size 1024 after one Grow, got %d", a.Size())
	}
}

func TestReserveFillsAndFails(t *testing.T) {

	a := glyph.NewAtlas(glyph.FormatGrayscale)

	// Exhaust the interior with large reservations until it reports
	// full, then confirm growing recovers capacity.
	count := 0
	for {
		_, err := a.Reserve(64, 64)
		if err != nil {
			break
		}
		count++
		if count > 1000 {
			t.Fatal("reserve never reported full")
		}
	}

	if err := a.Grow(); err != nil {
		t.Fatalf("Grow after full: %v", err)
	}
	if _, err := a.Reserve(64, 64); err != nil {
		t.Fatalf("expected room after grow, got: %v", err)
	}
}
