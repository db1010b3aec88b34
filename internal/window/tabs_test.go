package window

import (
	"testing"

	"github.com/phantty/phantty/internal/surface"
)

func TestTabsAddAndActive(t *testing.T) {
	var tabs Tabs

	tabs.Add(&surface.Surface{})
	tabs.Add(&surface.Surface{})

	if tabs.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tabs.Count())
	}
	if tabs.ActiveIndex() != 1 {
		t.Fatalf("ActiveIndex = %d, want 1 (newly added tab becomes active)", tabs.ActiveIndex())
	}
}

func TestTabsCloseShiftsArray(t *testing.T) {
	var tabs Tabs
	a, b, c := &surface.Surface{}, &surface.Surface{}, &surface.Surface{}
	tabs.Add(a)
	tabs.Add(b)
	tabs.Add(c)
	tabs.SwitchTo(2)

	wasLast := tabs.Close(0)
	if wasLast {
		t.Fatal("closing one of three tabs must not report wasLast")
	}
	if tabs.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tabs.Count())
	}
	if tabs.At(0).Surface != b || tabs.At(1).Surface != c {
		t.Fatal("closing tab 0 must shift the remaining tabs left")
	}
	if tabs.ActiveIndex() != 1 {
		t.Fatalf("ActiveIndex = %d, want 1 (active tab shifted left with the array)", tabs.ActiveIndex())
	}
}

func TestTabsCloseLastReportsWasLast(t *testing.T) {
	var tabs Tabs
	tabs.Add(&surface.Surface{})

	if !tabs.Close(0) {
		t.Fatal("closing the only tab must report wasLast")
	}
	if tabs.Count() != 0 {
		t.Fatalf("Count = %d, want 0", tabs.Count())
	}
}

func TestTabsNextPrevWrap(t *testing.T) {
	var tabs Tabs
	tabs.Add(&surface.Surface{})
	tabs.Add(&surface.Surface{})
	tabs.Add(&surface.Surface{})
	tabs.SwitchTo(2)

	tabs.Next()
	if tabs.ActiveIndex() != 0 {
		t.Fatalf("Next from last must wrap to 0, got %d", tabs.ActiveIndex())
	}

	tabs.Prev()
	if tabs.ActiveIndex() != 2 {
		t.Fatalf("Prev from 0 must wrap to last, got %d", tabs.ActiveIndex())
	}
}

func TestTabsSwitchToBounded(t *testing.T) {
	var tabs Tabs
	tabs.Add(&surface.Surface{})

	if tabs.SwitchTo(5) {
		t.Fatal("SwitchTo out of range must fail")
	}
	if tabs.ActiveIndex() != 0 {
		t.Fatal("a failed SwitchTo must not change the active tab")
	}
}
