package winstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {

	path := filepath.Join(t.TempDir(), "window-state")

	if err := Save(path, State{X: 240, Y: 180}); err != nil {
		t.Fatal(err)
	}

	s, ok := Load(path)
	if !ok {
		t.Fatal("expected state to load")
	}
	if s.X != 240 || s.Y != 180 {
		t.Fatalf("expected (240, 180), got (%d, %d)", s.X, s.Y)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, ok := Load(filepath.Join(t.TempDir(), "nope"))
	if ok {
		t.Fatal("expected ok=false for a missing file")
	}
}

func TestLoadIgnoresMalformedLines(t *testing.T) {

	path := filepath.Join(t.TempDir(), "window-state")
	content := "garbage\nwindow-x=10\nwindow-y=notanumber\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := Load(path); ok {
		t.Fatal("expected ok=false when window-y is unparseable")
	}
}

func TestRestorableRequiresVisibleMonitor(t *testing.T) {

	monitors := []Rect{
		{X: 0, Y: 0, W: 1920, H: 1080},
		{X: 1920, Y: 0, W: 1920, H: 1080},
	}

	if !Restorable(State{X: 2000, Y: 500}, monitors) {
		t.Fatal("expected position on the second monitor to be restorable")
	}
	if Restorable(State{X: 4000, Y: 500}, monitors) {
		t.Fatal("expected off-screen position to be rejected")
	}
	if Restorable(State{X: 100, Y: 100}, nil) {
		t.Fatal("expected no monitors to reject everything")
	}
}
