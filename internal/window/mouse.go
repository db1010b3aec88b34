package window

import (
	"time"

	"github.com/bloeys/gglm/gglm"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/surface"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/window/scrollbar"
)

// scrollbarWidth is the overlay bar's pixel width at the window's right
// edge.
const scrollbarWidth = 8

// sbGeometry is the scrollbar's last-computed pixel geometry, kept for
// hit-testing mouse events against the thumb.
type sbGeometry struct {
	barX     float32
	trackH   float32
	thumbTop float32
	thumbH   float32
	valid    bool
}

func (g sbGeometry) hitBar(x float32) bool {
	return g.valid && x >= g.barX
}

func (g sbGeometry) hitThumb(x, y float32) bool {
	return g.hitBar(x) && y >= g.thumbTop && y < g.thumbTop+g.thumbH
}

func (c *Core) handleMouseButton(e *sdl.MouseButtonEvent) {

	if e.Button != sdl.BUTTON_LEFT {
		return
	}

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}
	s := tab.Surface

	x, y := float32(e.X), float32(e.Y)

	if e.State == sdl.PRESSED {
		if c.sbGeom.hitBar(x) {
			c.beginScrollbarDrag(s, y)
			return
		}
		c.beginSelectionDrag(s, e.X, e.Y)
		return
	}

	if c.scrollbar.Dragging() {
		c.scrollbar.EndDrag()
		return
	}

	s.Render.Mu.Lock()
	s.Selection.EndDrag()
	s.Render.Mu.Unlock()
	c.selectionDragging = false
}

func (c *Core) handleMouseMotion(e *sdl.MouseMotionEvent) {

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}
	s := tab.Surface

	x, y := float32(e.X), float32(e.Y)
	c.scrollbar.SetHovered(c.sbGeom.hitBar(x))

	if c.scrollbar.Dragging() {
		c.dragScrollbarTo(s, y)
		return
	}

	if c.selectionDragging {
		c.dragSelectionTo(s, e.X, e.Y)
	}
}

func (c *Core) beginSelectionDrag(s *surface.Surface, px, py int32) {

	col, absRow := c.cellAt(s, px, py)

	s.Render.Mu.Lock()
	s.Selection.BeginDrag(selection.Point{Row: absRow, Col: col}, float32(px))
	s.Render.Mu.Unlock()

	c.selectionDragging = true
}

func (c *Core) dragSelectionTo(s *surface.Surface, px, py int32) {

	col, absRow := c.cellAt(s, px, py)

	s.Render.Mu.Lock()
	s.Selection.DragTo(selection.Point{Row: absRow, Col: col}, float32(px), float32(c.cache.Metrics.CellWidth))
	s.Render.Mu.Unlock()
}

// cellAt maps a pixel position to a viewport column and absolute row.
func (c *Core) cellAt(s *surface.Surface, px, py int32) (col int, absRow int64) {

	m := c.cache.Metrics
	col = int(px) / m.CellWidth
	row := int(py) / m.CellHeight

	s.Render.Mu.Lock()
	top, _ := s.Render.Terminal.TopLeft()
	s.Render.Mu.Unlock()

	return col, top + int64(row)
}

func (c *Core) beginScrollbarDrag(s *surface.Surface, y float32) {

	thumbTop := c.sbGeom.thumbTop
	if !c.sbGeom.hitThumb(c.sbGeom.barX, y) {
		// Clicking the track jumps the thumb center to the pointer.
		thumbTop = y - c.sbGeom.thumbH/2
	}
	c.scrollbar.BeginDrag(y, thumbTop)
	c.scrollbar.NotifyScroll(time.Now())
	c.dragScrollbarTo(s, y)
}

func (c *Core) dragScrollbarTo(s *surface.Surface, y float32) {

	g := c.sbGeom
	if !g.valid {
		return
	}

	s.Render.Mu.Lock()
	info := s.Render.Terminal.Scrollbar()
	s.Render.Mu.Unlock()

	target := scrollbar.DragToOffset(y, 0, g.trackH, g.thumbH, c.scrollbar.DragOffsetPx(), info.Len, info.Total)
	delta := target - info.Offset
	if delta == 0 {
		return
	}

	s.ScrollViewport(term.ScrollSpec{Delta: delta})
	c.scrollbar.NotifyScroll(time.Now())
	c.pipeline.InvalidateCells()
}

// drawScrollbar renders the overlay thumb at the window's right edge
// with the fade-model opacity, drawn the same way the teacher draws its
// grid/separator overlays: one mesh draw through a flat-color material.
func (c *Core) drawScrollbar(s *surface.Surface, now time.Time) {

	opacity := c.scrollbar.Opacity(now)
	if opacity <= 0 {
		c.sbGeom.valid = false
		return
	}

	s.Render.Mu.Lock()
	info := s.Render.Terminal.Scrollbar()
	s.Render.Mu.Unlock()

	if info.Total <= info.Len {
		c.sbGeom.valid = false
		return
	}

	w, h := c.Win.SDLWin.GetSize()
	trackH := float32(h)
	thumbH := scrollbar.ThumbHeight(trackH, info.Len, info.Total)

	frac := float32(info.Offset) / float32(info.Total-info.Len)
	thumbTop := frac * (trackH - thumbH)

	c.sbGeom = sbGeometry{
		barX:     float32(w) - scrollbarWidth,
		trackH:   trackH,
		thumbTop: thumbTop,
		thumbH:   thumbH,
		valid:    true,
	}

	c.overlayMat.SetUnifVec4("color", gglm.NewVec4(1, 1, 1, 0.35*opacity))
	c.Rend.Draw(
		c.backend.CellMesh,
		gglm.NewTrMatId().
			Translate(gglm.NewVec3(c.sbGeom.barX+scrollbarWidth/2, thumbTop+thumbH/2, 0)).
			Scale(gglm.NewVec3(scrollbarWidth, thumbH, 1)),
		c.overlayMat,
	)
}
