// Package renderfake is an in-memory render.Backend used by
// internal/render's tests so Phase E/F can be exercised without a real
// GPU context.
package renderfake

import (
	"github.com/phantty/phantty/internal/render"
)

// Backend records every call it receives instead of touching a GPU.
type Backend struct {
	Syncs              []render.AtlasSync
	BgDraws            [][]render.CellBg
	FgDraws            [][]render.CellFg
	ColorFgDraws       [][]render.CellFg
	CursorOverlayDraws [][]render.CellBg
}

func (b *Backend) SyncAtlas(s render.AtlasSync) {
	b.Syncs = append(b.Syncs, s)
}

func (b *Backend) DrawBg(cells []render.CellBg) {
	b.BgDraws = append(b.BgDraws, append([]render.CellBg(nil), cells...))
}

func (b *Backend) DrawFg(cells []render.CellFg) {
	b.FgDraws = append(b.FgDraws, append([]render.CellFg(nil), cells...))
}

func (b *Backend) DrawColorFg(cells []render.CellFg) {
	b.ColorFgDraws = append(b.ColorFgDraws, append([]render.CellFg(nil), cells...))
}

func (b *Backend) DrawCursorOverlay(cells []render.CellBg) {
	b.CursorOverlayDraws = append(b.CursorOverlayDraws, append([]render.CellBg(nil), cells...))
}

var _ render.Backend = (*Backend)(nil)
