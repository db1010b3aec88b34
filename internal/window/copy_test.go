package window

import (
	"testing"

	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/termfake"
)

func TestSerializeSelectionCopiesInclusiveRange(t *testing.T) {

	tf := termfake.New(10, 4)
	tf.SetString(2, 0, "abcdefghij")

	sel := selection.Selection{
		Start:  selection.Point{Row: 2, Col: 3},
		End:    selection.Point{Row: 2, Col: 7},
		Active: true,
	}

	got := SerializeSelection(tf, sel)
	if got != "defgh" {
		t.Fatalf("expected %q, got %q", "defgh", got)
	}
}

func TestSerializeSelectionInactiveIsEmpty(t *testing.T) {

	tf := termfake.New(10, 4)
	tf.SetString(0, 0, "abc")

	got := SerializeSelection(tf, selection.Selection{})
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSerializeSelectionJoinsRowsWithCRLF(t *testing.T) {

	tf := termfake.New(10, 4)
	tf.SetString(0, 0, "first")
	tf.SetString(1, 0, "second")

	sel := selection.Selection{
		Start:  selection.Point{Row: 0, Col: 0},
		End:    selection.Point{Row: 1, Col: 5},
		Active: true,
	}

	got := SerializeSelection(tf, sel)
	if got != "first\r\nsecond" {
		t.Fatalf("expected %q, got %q", "first\r\nsecond", got)
	}
}

func TestSerializeSelectionSkipsWideSpacerCells(t *testing.T) {

	tf := termfake.New(10, 2)
	// One East-Asian wide rune occupies two columns; SetString lays it
	// out as WideWide + spacer tail the way a VT engine would.
	tf.SetString(0, 0, "a世b")

	sel := selection.Selection{
		Start:  selection.Point{Row: 0, Col: 0},
		End:    selection.Point{Row: 0, Col: 3},
		Active: true,
	}

	got := SerializeSelection(tf, sel)
	if got != "a世b" {
		t.Fatalf("expected %q, got %q", "a世b", got)
	}
}

func TestSerializeSelectionIncludesGraphemeExtras(t *testing.T) {

	tf := termfake.New(10, 2)
	cell := term.Cell{Codepoint: 'e'}.WithGrapheme([]rune{0x0301}) // combining acute
	tf.SetCell(0, 0, cell)

	sel := selection.Selection{
		Start:  selection.Point{Row: 0, Col: 0},
		End:    selection.Point{Row: 0, Col: 0},
		Active: true,
	}

	got := SerializeSelection(tf, sel)
	if got != "é" {
		t.Fatalf("expected %q, got %q", "é", got)
	}
}
