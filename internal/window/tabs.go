package window

import (
	"github.com/phantty/phantty/internal/surface"
)

// MaxTabs bounds the per-window tab array (spec §3's [1..MAX_TABS]).
const MaxTabs = 32

// TabCloseFadeSpeed is the constant rate, in opacity units per second,
// at which TickCloseFades raises a tab's close-button opacity toward 1
// (spec §4.7).
const TabCloseFadeSpeed = 6.0

// Tab is one hosted Surface plus the close-button fade state tied to
// its slot in the array (spec §3's Tab and §4.7's fade note).
type Tab struct {
	Surface *surface.Surface

	closeFadeOpacity float32
}

// Tabs is the bounded tab array a WindowCore owns: [0, tabCount) active
// slots, with activeTab always a valid index when tabCount > 0.
type Tabs struct {
	tabs      [MaxTabs]*Tab
	tabCount  int
	activeTab int
}

// Count reports the number of live tabs.
func (t *Tabs) Count() int { return t.tabCount }

// Active returns the active tab, or nil if there are no tabs.
func (t *Tabs) Active() *Tab {
	if t.tabCount == 0 {
		return nil
	}
	return t.tabs[t.activeTab]
}

// ActiveIndex returns the active tab's index.
func (t *Tabs) ActiveIndex() int { return t.activeTab }

// At returns the tab at index i, or nil if out of range.
func (t *Tabs) At(i int) *Tab {
	if i < 0 || i >= t.tabCount {
		return nil
	}
	return t.tabs[i]
}

// Add appends a new tab hosting s and makes it active, failing silently
// (returning false) once MaxTabs is reached.
func (t *Tabs) Add(s *surface.Surface) bool {
	if t.tabCount >= MaxTabs {
		return false
	}
	t.tabs[t.tabCount] = &Tab{Surface: s, closeFadeOpacity: 1}
	t.activeTab = t.tabCount
	t.tabCount++
	return true
}

// Close removes the tab at index i, shifting the array and its fade
// opacities left to fill the gap. Reports whether this was the last
// tab (the caller should set should_close).
func (t *Tabs) Close(i int) (wasLast bool) {
	if i < 0 || i >= t.tabCount {
		return false
	}

	if t.tabCount == 1 {
		t.tabs[0] = nil
		t.tabCount = 0
		t.activeTab = 0
		return true
	}

	for j := i; j < t.tabCount-1; j++ {
		t.tabs[j] = t.tabs[j+1]
	}
	t.tabs[t.tabCount-1] = nil
	t.tabCount--

	if t.activeTab >= t.tabCount {
		t.activeTab = t.tabCount - 1
	} else if t.activeTab > i {
		t.activeTab--
	}

	return false
}

// SwitchTo sets the active tab by index, bounded to existing tabs.
func (t *Tabs) SwitchTo(i int) bool {
	if i < 0 || i >= t.tabCount {
		return false
	}
	t.activeTab = i
	return true
}

// Next switches to the next tab, wrapping past the last.
func (t *Tabs) Next() {
	if t.tabCount == 0 {
		return
	}
	t.activeTab = (t.activeTab + 1) % t.tabCount
}

// Prev switches to the previous tab, wrapping before the first.
func (t *Tabs) Prev() {
	if t.tabCount == 0 {
		return
	}
	t.activeTab = (t.activeTab - 1 + t.tabCount) % t.tabCount
}

// TickCloseFades advances every tab's close-button fade opacity toward
// 1 at TabCloseFadeSpeed units/second, driven by the frame's delta time
// (spec §4.7). Add sets a new tab's opacity to 1 and Close carries each
// tab's opacity along when the array shifts; no code in this package
// sets an opacity below 1, so only a tab already below 1 changes here.
func (t *Tabs) TickCloseFades(dt float32) {
	for i := 0; i < t.tabCount; i++ {
		tab := t.tabs[i]
		if tab.closeFadeOpacity < 1 {
			tab.closeFadeOpacity += TabCloseFadeSpeed * dt
			if tab.closeFadeOpacity > 1 {
				tab.closeFadeOpacity = 1
			}
		}
	}
}

// CloseFadeOpacity reports the close-button opacity for the tab at i.
func (t *Tabs) CloseFadeOpacity(i int) float32 {
	tab := t.At(i)
	if tab == nil {
		return 0
	}
	return tab.closeFadeOpacity
}
