// Package scrollbar implements the Scrollbar overlay (C10, spec §4.10):
// fade timeline, thumb sizing, and pixel<->offset drag mapping.
package scrollbar

import "time"

// Spec §4.10's literal constants.
const (
	FadeDelay    = 800 * time.Millisecond
	FadeDuration = 400 * time.Millisecond
	MinThumb     = 20.0 // pixels
)

// Scrollbar tracks the overlay's fade timeline and drag state for one
// window's active surface.
type Scrollbar struct {
	lastInteraction time.Time
	hovered         bool
	dragging        bool
	dragOffsetPx    float32
}

// NotifyScroll resets the fade timer, per "after any scroll interaction
// opacity is 1.0 for FadeDelay".
func (s *Scrollbar) NotifyScroll(now time.Time) {
	s.lastInteraction = now
}

// SetHovered records whether the pointer is currently over the bar;
// while hovered the fade never progresses.
func (s *Scrollbar) SetHovered(hovered bool) {
	s.hovered = hovered
}

// Opacity computes the fade overlay's current opacity.
func (s *Scrollbar) Opacity(now time.Time) float32 {
	if s.hovered || s.dragging {
		return 1.0
	}
	if s.lastInteraction.IsZero() {
		return 0
	}
	elapsed := now.Sub(s.lastInteraction)
	if elapsed <= FadeDelay {
		return 1.0
	}
	fading := elapsed - FadeDelay
	if fading >= FadeDuration {
		return 0
	}
	return 1.0 - float32(fading)/float32(FadeDuration)
}

// ThumbHeight is max(MinThumb, track_h * visible/total), per spec
// §4.10. total == 0 (an empty buffer) degenerates to a full-height
// thumb since there's nothing to scroll.
func ThumbHeight(trackH float32, visible, total int64) float32 {
	if total <= 0 || visible >= total {
		return trackH
	}
	h := trackH * float32(visible) / float32(total)
	if h < MinThumb {
		return MinThumb
	}
	return h
}

// BeginDrag records the pixel offset between the pointer and the
// thumb's top edge at the moment of the click, so the drag doesn't jump
// the thumb's top to the pointer position.
func (s *Scrollbar) BeginDrag(pointerY, thumbTop float32) {
	s.dragging = true
	s.dragOffsetPx = pointerY - thumbTop
}

// EndDrag stops tracking the drag.
func (s *Scrollbar) EndDrag() {
	s.dragging = false
}

// Dragging reports whether a drag is currently in progress.
func (s *Scrollbar) Dragging() bool {
	return s.dragging
}

// DragToOffset maps a pointer Y coordinate to a scroll offset, per spec
// §4.10's literal formula: frac = (y - track_top - drag_offset) /
// (track_h - thumb_h), clamped to [0,1]; offset = round(frac *
// (total - visible)).
func DragToOffset(pointerY, trackTop, trackH, thumbH float32, dragOffsetPx float32, visible, total int64) int64 {

	denom := trackH - thumbH
	if denom <= 0 {
		return 0
	}

	frac := (pointerY - trackTop - dragOffsetPx) / denom
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	span := total - visible
	if span < 0 {
		span = 0
	}

	return int64(roundFloat(frac * float32(span)))
}

// DragOffsetPx exposes the stored click offset for DragToOffset's
// dragOffsetPx argument.
func (s *Scrollbar) DragOffsetPx() float32 {
	return s.dragOffsetPx
}

func roundFloat(f float32) float32 {
	if f < 0 {
		return -roundFloat(-f)
	}
	i := float32(int64(f))
	if f-i >= 0.5 {
		return i + 1
	}
	return i
}
