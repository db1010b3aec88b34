// Package winstate persists window placement between runs as a plain
// key=value file (spec §6's window-state persistence): window-x and
// window-y, restored only when the saved position still lies on a
// visible monitor.
package winstate

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// State is the persisted window placement.
type State struct {
	X, Y int32
}

// Rect is one monitor's bounds in virtual-screen coordinates, supplied
// by the windowing collaborator (the core never queries monitors
// itself).
type Rect struct {
	X, Y, W, H int32
}

func (r Rect) contains(x, y int32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Load reads the state file. A missing file, unreadable line, or
// missing key is not an error to the caller beyond ok=false — there is
// simply no state to restore.
func Load(path string) (State, bool) {

	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, false
	}

	var s State
	var haveX, haveY bool

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 32)
		if err != nil {
			continue
		}

		switch strings.TrimSpace(key) {
		case "window-x":
			s.X = int32(n)
			haveX = true
		case "window-y":
			s.Y = int32(n)
			haveY = true
		}
	}

	return s, haveX && haveY
}

// Save writes the state file, replacing any previous contents.
func Save(path string, s State) error {
	content := fmt.Sprintf("window-x=%d\nwindow-y=%d\n", s.X, s.Y)
	return os.WriteFile(path, []byte(content), 0o644)
}

// Restorable reports whether the saved position lies on one of the
// given visible monitors; a stale position from a disconnected display
// is discarded rather than opening a window off-screen.
func Restorable(s State, monitors []Rect) bool {
	for _, m := range monitors {
		if m.contains(s.X, s.Y) {
			return true
		}
	}
	return false
}
