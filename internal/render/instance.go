// Package render implements RenderPipeline (C6, spec §4.6): the
// dirty-check, snapshot, cell-rebuild, atlas-sync, and batched-draw
// frame loop that turns one Surface's terminal state into GPU instance
// buffers.
package render

// CellBg is one background-quad GPU instance (spec §3's literal shape).
type CellBg struct {
	GridCol, GridRow int32
	R, G, B          float32
}

// CellFg is one glyph-quad GPU instance (spec §3's literal shape),
// shared by the grayscale foreground pass and the color-emoji pass —
// spec names only one CellFg shape and has color_fg_cells draw through
// the same instance layout with premultiplied-alpha blending instead of
// a distinct field set.
type CellFg struct {
	GridCol, GridRow                 int32
	GlyphOffsetX, GlyphOffsetY       int32
	GlyphW, GlyphH                   int32
	UVLeft, UVTop, UVRight, UVBottom float32
	R, G, B                          float32
}
