package render_test

import (
	"testing"
	"time"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/fontrend/fontrendfake"
	"github.com/phantty/phantty/internal/glyph"
	"github.com/phantty/phantty/internal/render"
	"github.com/phantty/phantty/internal/render/renderfake"
	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/termfake"
)

func newTestPipeline(t *testing.T) *render.Pipeline {
	t.Helper()

	r := fontrendfake.NewRasterizer(8, 16)
	s := fontrendfake.NewShaper(8)
	f := fontrendfake.NewSystemFontFinder("primary.ttf", "fallback.ttf")

	cache, err := glyph.NewCache(r, s, f, "primary.ttf", 0, 14, 96)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return render.NewPipeline(cache, config.DefaultTheme())
}

func TestNeedsRebuildFirstFrame(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(10, 5)

	if !p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf}) {
		t.Fatal("first frame must always need a rebuild")
	}
}

func TestNeedsRebuildStableAfterSnapshot(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(10, 5)

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	p.Snapshot(tf)

	if p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf}) {
		t.Fatal("an unchanged terminal must not need another rebuild")
	}
}

func TestNeedsRebuildOnCellEdit(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(10, 5)

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	p.Snapshot(tf)

	tf.SetCell(0, 2, term.Cell{Codepoint: 'x'})

	if !p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf}) {
		t.Fatal("a row-dirtied cell must trigger a rebuild")
	}
}

func TestSynchronizedOutputSafetyCeiling(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(10, 5)
	tf.SetMode(term.ModeSynchronizedOutput, true)

	now := time.Now()
	if !p.SynchronizedOutputActive(tf, now) {
		t.Fatal("expected synchronized output to be active on first observation")
	}
	if !p.SynchronizedOutputActive(tf, now.Add(500*time.Millisecond)) {
		t.Fatal("expected synchronized output to still be active within the 1s ceiling")
	}
	if p.SynchronizedOutputActive(tf, now.Add(1500*time.Millisecond)) {
		t.Fatal("expected the renderer to resume past the 1s safety ceiling")
	}
}

func TestSnapshotAndRebuildProducesCells(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(4, 2)
	tf.SetCell(0, 0, term.Cell{Codepoint: 'x'})

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	snap := p.Snapshot(tf)

	var sel selection.Selection
	p.Rebuild(snap, sel, term.CursorShapeBar, true)

	if len(p.FgCells) == 0 {
		t.Fatal("expected at least one foreground cell for the written 'x'")
	}
}

func TestSyncAndSubmitCallsBackendInOrder(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(4, 2)
	tf.SetCell(0, 0, term.Cell{Codepoint: 'x'})

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	snap := p.Snapshot(tf)

	var sel selection.Selection
	p.Rebuild(snap, sel, term.CursorShapeBar, true)

	backend := &renderfake.Backend{}
	p.SyncAtlases(backend)
	p.Submit(backend)

	if len(backend.Syncs) == 0 {
		t.Fatal("expected at least one atlas sync after rasterizing a glyph")
	}
	if len(backend.FgDraws) != 1 {
		t.Fatalf("FgDraws = %d, want 1", len(backend.FgDraws))
	}
}

func TestCursorBlinkTogglesOnInterval(t *testing.T) {
	p := newTestPipeline(t)
	now := time.Now()
	p.NotifyInput(now)

	if p.TickCursorBlink(now.Add(100 * time.Millisecond)) {
		t.Fatal("blink must not toggle before the interval elapses")
	}
	if !p.TickCursorBlink(now.Add(700 * time.Millisecond)) {
		t.Fatal("blink must toggle once the interval elapses")
	}
}
