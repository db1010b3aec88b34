package render_test

import (
	"testing"

	"github.com/phantty/phantty/internal/render"
	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/termfake"
)

func TestRebuildAsciiThroughput(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(80, 24)

	// "Hello" followed by CR LF leaves five plain cells and the cursor
	// at the start of the next row.
	tf.SetString(0, 0, "Hello")
	tf.SetCursor(term.Cursor{X: 0, Y: 1, Shape: term.CursorShapeBar})

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	snap := p.Snapshot(tf)

	var sel selection.Selection
	p.Rebuild(snap, sel, term.CursorShapeBar, true)

	if len(p.BgCells) != 0 {
		t.Fatalf("BgCells = %d, want 0 (no background overrides)", len(p.BgCells))
	}
	if len(p.FgCells) != 5 {
		t.Fatalf("FgCells = %d, want 5", len(p.FgCells))
	}
	if len(p.ColorFgCells) != 0 {
		t.Fatalf("ColorFgCells = %d, want 0", len(p.ColorFgCells))
	}
	if snap.Cursor.X != 0 || snap.Cursor.Y != 1 {
		t.Fatalf("cursor = (%d, %d), want (0, 1)", snap.Cursor.X, snap.Cursor.Y)
	}
}

func TestRebuildComposesRegionalIndicatorPair(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(4, 1)

	// U+1F1FA U+1F1F8 == the flag-of-US regional-indicator pair, stored
	// as two adjacent cells with no pre-attached grapheme data.
	tf.SetCell(0, 0, term.Cell{Codepoint: 0x1F1FA})
	tf.SetCell(0, 1, term.Cell{Codepoint: 0x1F1F8})

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	snap := p.Snapshot(tf)

	var sel selection.Selection
	p.Rebuild(snap, sel, term.CursorShapeBar, true)

	if len(p.FgCells) == 0 && len(p.ColorFgCells) == 0 {
		t.Fatal("expected the composed regional-indicator pair to produce one glyph instance")
	}

	for _, c := range p.FgCells {
		if c.GridCol == 1 {
			t.Fatal("the second regional indicator must be absorbed into the pair, not emitted on its own")
		}
	}
	for _, c := range p.ColorFgCells {
		if c.GridCol == 1 {
			t.Fatal("the second regional indicator must be absorbed into the pair, not emitted on its own")
		}
	}
}

func TestRebuildSkipsSpacerCells(t *testing.T) {
	p := newTestPipeline(t)
	tf := termfake.New(4, 1)

	tf.SetCell(0, 0, term.Cell{Codepoint: 'A', Wide: term.WideWide})
	tf.SetCell(0, 1, term.Cell{Wide: term.WideSpacerTail})

	p.NeedsRebuild(render.DirtyCheckInput{Terminal: tf})
	snap := p.Snapshot(tf)

	var sel selection.Selection
	p.Rebuild(snap, sel, term.CursorShapeBar, true)

	for _, c := range p.FgCells {
		if c.GridCol == 1 {
			t.Fatal("a spacer_tail cell must never emit its own glyph instance")
		}
	}
}
