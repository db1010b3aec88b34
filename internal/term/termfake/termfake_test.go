package termfake_test

import (
	"testing"

	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/termfake"
)

func TestSetCellAndIterate(t *testing.T) {

	f := termfake.New(10, 4)
	f.SetCell(0, 2, term.Cell{Codepoint: 'x'})

	it := f.RowIterator()
	cells, abs, ok := it.Next()
	if !ok {
		t.Fatal("expected a row")
	}
	if abs != 0 {
		t.Fatalf("expected absRow 0, got %d", abs)
	}
	if cells[2].Codepoint != 'x' {
		t.Fatalf("expected 'x' at column 2, got %q", cells[2].Codepoint)
	}
}

func TestRowDirtyTracking(t *testing.T) {

	f := termfake.New(10, 4)
	if f.RowDirty(0) {
		t.Fatal("row should not start dirty")
	}

	f.SetCell(0, 0, term.Cell{Codepoint: 'a'})
	if !f.RowDirty(0) {
		t.Fatal("expected row 0 dirty after SetCell")
	}

	f.ClearRowDirty(0)
	if f.RowDirty(0) {
		t.Fatal("expected row 0 clean after ClearRowDirty")
	}
}

func TestResizePreservesCells(t *testing.T) {

	f := termfake.New(10, 4)
	f.SetCell(0, 1, term.Cell{Codepoint: 'z'})
	f.Resize(20, 8)

	got := f.GetCell(term.ViewportPos{X: 1, Y: 0})
	if got.Codepoint != 'z' {
		t.Fatalf("expected 'z' preserved after resize, got %q", got.Codepoint)
	}
}
