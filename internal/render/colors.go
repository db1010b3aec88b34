package render

import (
	"github.com/bloeys/gglm/gglm"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/palette"
)

func themeEntries(theme config.Theme) [16]palette.RGB {
	var entries [16]palette.RGB
	for i, v := range theme.Palette {
		entries[i] = palette.RGB{R: v.X(), G: v.Y(), B: v.Z()}
	}
	return entries
}

// resolveColor turns a term.Color (none/palette/rgb) into a normalized
// RGB triple, falling back to fallback when the color is ColorNone.
func resolveColor(c term.Color, theme config.Theme, entries [16]palette.RGB, fallback gglm.Vec3) (r, g, b float32) {
	switch c.Kind {
	case term.ColorPalette:
		rgb := palette.Resolve(c.Palette, entries)
		return rgb.R, rgb.G, rgb.B
	case term.ColorRGB:
		return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
	default:
		return fallback.X(), fallback.Y(), fallback.Z()
	}
}

// resolveCellBackground decides the effective background color for one
// cell, per spec §4.6 Phase D's priority: cursor block overlay, then
// selection, then the cell's own non-default background. Open Question
// #2 is resolved here as "cursor overrides background" — a block
// cursor fully replaces whatever color the cell itself would draw,
// rather than blending with it.
func resolveCellBackground(sc SnapCell, isCursorBlock, isSelected bool, theme config.Theme, entries [16]palette.RGB) (r, g, b float32, has bool) {

	if isCursorBlock {
		return theme.CursorColor.X(), theme.CursorColor.Y(), theme.CursorColor.Z(), true
	}
	if isSelected {
		return theme.SelectionBackground.X(), theme.SelectionBackground.Y(), theme.SelectionBackground.Z(), true
	}
	if sc.HasBg {
		r, g, b = resolveColor(sc.Bg, theme, entries, theme.Background)
		return r, g, b, true
	}
	return 0, 0, 0, false
}

// resolveCellForeground decides the effective foreground color for one
// cell: cursor text color (or background fallback) for a block cursor,
// selection foreground override if configured, else the cell's own
// foreground.
func resolveCellForeground(sc SnapCell, isCursorBlock, isSelected bool, theme config.Theme, entries [16]palette.RGB) (r, g, b float32) {

	if isCursorBlock {
		if theme.CursorText != nil {
			return theme.CursorText.X(), theme.CursorText.Y(), theme.CursorText.Z()
		}
		return theme.Background.X(), theme.Background.Y(), theme.Background.Z()
	}
	if isSelected && theme.SelectionForeground != nil {
		return theme.SelectionForeground.X(), theme.SelectionForeground.Y(), theme.SelectionForeground.Z()
	}
	return resolveColor(sc.Fg, theme, entries, theme.Foreground)
}
