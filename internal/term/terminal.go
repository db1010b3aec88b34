package term

// Terminal is the capability interface the render pipeline, the surface,
// and the IO reader consume. An external VT parser / terminal state
// machine library implements it (spec §6.2); the core never constructs
// one directly.
type Terminal interface {
	// Resize changes the logical grid size. Must be called with the
	// owning Surface's render-state mutex held (spec §4.4).
	Resize(cols, rows int)

	// Feed parses and applies a chunk of VT byte stream (vtStream().
	// nextSlice in spec §6.2). Must be called with the mutex held.
	Feed(chunk []byte)

	Cols() int
	Rows() int

	// ScrollViewport moves the viewport per spec's scrollViewport.
	ScrollViewport(spec ScrollSpec)

	// Cursor returns the active screen's cursor state.
	Cursor() Cursor

	// ViewportAtBottom reports whether the viewport is pinned to the
	// live bottom of the scrollback (vs. scrolled up).
	ViewportAtBottom() bool

	// RowIterator walks the current viewport's rows top to bottom.
	RowIterator() RowIterator

	// Scrollbar returns the current {offset, len, total} for the
	// scrollbar overlay.
	Scrollbar() ScrollbarInfo

	// TopLeft returns the viewport's page-pin and y-within-page
	// fingerprint, used by the render pipeline to detect scrolling
	// (spec §4.6 Phase B).
	TopLeft() (pagePin int64, yWithinPage int)

	// GetCell reads a single cell at a viewport-relative position.
	GetCell(pos ViewportPos) Cell

	// LookupStyle resolves a StyleID into concrete colors.
	LookupStyle(styleID uint32) Style

	// Dirty flags, at decreasing granularity. Clear* resets the flag
	// after the render pipeline's snapshot phase has consumed it.
	TerminalDirty() bool
	ClearTerminalDirty()
	ScreenDirty() bool
	ClearScreenDirty()
	RowDirty(absRow int64) bool
	ClearRowDirty(absRow int64)

	// Mode reports whether the given terminal mode is currently set.
	Mode(m Mode) bool
}
