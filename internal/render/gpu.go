package render

import "github.com/phantty/phantty/internal/glyph"

// AtlasSync is what Phase E reports for one atlas after comparing its
// Modified() counter against the value cached from the previous frame
// (spec §4.6 Phase E).
type AtlasSync struct {
	Changed bool
	Grown   bool
	Size    int
	Format  glyph.PixelFormat
	Pixels  []byte
}

// Backend is the GPU submission capability RenderPipeline's Phase E/F
// need: uploading atlas pixels and issuing the three batched draws plus
// the cursor-overlay pass (spec §5's BG -> FG -> ColorFG -> cursor
// overlay ordering guarantee). The concrete implementation owns the
// window's GPU context (spec's WindowCore, C7); RenderPipeline itself
// never touches a graphics API directly, the same duck-typed boundary
// the core already draws around Pty/Terminal/Face (spec §9).
type Backend interface {
	SyncAtlas(sync AtlasSync)
	DrawBg(cells []CellBg)
	DrawFg(cells []CellFg)
	DrawColorFg(cells []CellFg) // premultiplied-alpha blending for this pass only
	DrawCursorOverlay(cells []CellBg)
}

// SyncAtlases is Phase E: for each of the cache's two atlases, compare
// Modified() against the last-synced value and report whether (and how)
// the backend needs to re-upload.
func (p *Pipeline) SyncAtlases(backend Backend) {

	gray := p.cache.GrayscaleAtlas()
	if m := gray.Modified(); m != p.lastGrayModified {
		backend.SyncAtlas(AtlasSync{
			Changed: true,
			Grown:   gray.Size() != p.lastGraySize,
			Size:    gray.Size(),
			Format:  glyph.FormatGrayscale,
			Pixels:  gray.Pixels(),
		})
		p.lastGrayModified = m
		p.lastGraySize = gray.Size()
	}

	color := p.cache.ColorAtlas()
	if m := color.Modified(); m != p.lastColorModified {
		backend.SyncAtlas(AtlasSync{
			Changed: true,
			Grown:   color.Size() != p.lastColorSize,
			Size:    color.Size(),
			Format:  glyph.FormatColor,
			Pixels:  color.Pixels(),
		})
		p.lastColorModified = m
		p.lastColorSize = color.Size()
	}
}

// Submit is Phase F: three batched instanced draws in BG -> FG ->
// ColorFG order, then the cursor-overlay pass (spec §5).
func (p *Pipeline) Submit(backend Backend) {
	backend.DrawBg(p.BgCells)
	backend.DrawFg(p.FgCells)
	backend.DrawColorFg(p.ColorFgCells)
	backend.DrawCursorOverlay(p.CursorOverlayCells)
}
