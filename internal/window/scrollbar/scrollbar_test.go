package scrollbar

import (
	"testing"
	"time"
)

func TestOpacityTimeline(t *testing.T) {
	var s Scrollbar
	now := time.Now()
	s.NotifyScroll(now)

	if got := s.Opacity(now.Add(500 * time.Millisecond)); got != 1.0 {
		t.Fatalf("Opacity within delay = %v, want 1.0", got)
	}
	if got := s.Opacity(now.Add(FadeDelay + FadeDuration/2)); got <= 0 || got >= 1.0 {
		t.Fatalf("Opacity mid-fade = %v, want strictly between 0 and 1", got)
	}
	if got := s.Opacity(now.Add(FadeDelay + FadeDuration + time.Second)); got != 0 {
		t.Fatalf("Opacity after fade = %v, want 0", got)
	}
}

func TestOpacityStaysFullWhileHovered(t *testing.T) {
	var s Scrollbar
	now := time.Now()
	s.NotifyScroll(now)
	s.SetHovered(true)

	if got := s.Opacity(now.Add(10 * time.Second)); got != 1.0 {
		t.Fatalf("Opacity while hovered = %v, want 1.0", got)
	}
}

func TestThumbHeightFloorsAtMinimum(t *testing.T) {
	if got := ThumbHeight(200, 5, 100000); got != MinThumb {
		t.Fatalf("ThumbHeight = %v, want %v", got, MinThumb)
	}
}

func TestThumbHeightProportional(t *testing.T) {
	got := ThumbHeight(200, 50, 100)
	if got != 100 {
		t.Fatalf("ThumbHeight = %v, want 100", got)
	}
}

func TestDragToOffsetClampsAndRounds(t *testing.T) {

	// track 0..200, thumb height 20, visible 10, total 110 -> span 100.
	off := DragToOffset(100, 0, 200, 20, 0, 10, 110)
	// frac = 100/180 = 0.5555..., offset = round(0.5555*100) = 56.
	if off != 56 {
		t.Fatalf("DragToOffset = %d, want 56", off)
	}

	if off := DragToOffset(-50, 0, 200, 20, 0, 10, 110); off != 0 {
		t.Fatalf("DragToOffset below track = %d, want 0", off)
	}
	if off := DragToOffset(1000, 0, 200, 20, 0, 10, 110); off != 100 {
		t.Fatalf("DragToOffset past track = %d, want 100 (span)", off)
	}
}
