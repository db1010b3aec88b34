package render

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/glyph"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/palette"
)

// MaxCells bounds every per-frame instance array; overflow drops
// further cells for the frame (spec §4.6 Phase D's defensive cap).
const MaxCells = 30_000

// Spec §4.6's literal constants.
const (
	resizeCoalesceMS       = 25
	cursorBlinkIntervalMS  = 600
	syncedOutputSafetyCeil = time.Second
)

// Resizable is the narrow slice of Surface that Phase A needs: resizing
// the terminal under its own lock and the pseudo-console outside it. A
// capability interface here (rather than importing internal/surface)
// keeps RenderPipeline decoupled the way the rest of the core's
// collaborator boundaries are (spec §9).
type Resizable interface {
	Resize(cols, rows int) error
	ScrollViewport(spec term.ScrollSpec)
}

// Pipeline is one window's RenderPipeline (C6): dirty check, snapshot,
// cell rebuild, atlas sync bookkeeping, and the resulting instance
// buffers ready for GPU submission.
type Pipeline struct {
	cache   *glyph.Cache
	theme   config.Theme
	entries [16]palette.RGB
	log     zerolog.Logger

	snap         *Snapshot
	cellsValid   bool
	forceRebuild bool

	lastCursorVisible   bool
	lastViewportActive  bool
	lastCols, lastRows  int
	lastSelectionActive bool
	lastSelectionDrag   bool
	lastPagePin         int64
	lastYWithinPage     int

	cursorBlinkVisible bool
	lastBlinkToggle    time.Time

	pendingResize   bool
	pendingCols     int
	pendingRows     int
	lastResizeEvent time.Time

	syncedOutputSince time.Time
	syncedOutputArmed bool

	lastGrayModified  uint64
	lastGraySize      int
	lastColorModified uint64
	lastColorSize     int

	BgCells            []CellBg
	FgCells            []CellFg
	ColorFgCells       []CellFg
	CursorOverlayCells []CellBg
}

// NewPipeline constructs a Pipeline reading glyphs from cache and
// resolving palette colors against theme.
func NewPipeline(cache *glyph.Cache, theme config.Theme) *Pipeline {
	return &Pipeline{
		cache:              cache,
		theme:              theme,
		entries:            themeEntries(theme),
		log:                zerolog.Nop(),
		cursorBlinkVisible: true,
	}
}

// SetLogger wires the owning window's logger for the pipeline's
// log-and-continue paths (spec §7).
func (p *Pipeline) SetLogger(log zerolog.Logger) {
	p.log = log
}

// InvalidateCells forces the next frame to rebuild regardless of dirty
// flags (font reload, theme reload).
func (p *Pipeline) InvalidateCells() {
	p.cellsValid = false
	p.forceRebuild = true
}

// NotifyInput resets the cursor-blink timer to visible, per spec §4.6's
// "user made input resets the visible bit" rule.
func (p *Pipeline) NotifyInput(now time.Time) {
	p.cursorBlinkVisible = true
	p.lastBlinkToggle = now
}

// TickCursorBlink advances the blink state; returns true if the visible
// bit flipped (and therefore the frame needs a rebuild).
func (p *Pipeline) TickCursorBlink(now time.Time) bool {
	if p.lastBlinkToggle.IsZero() {
		p.lastBlinkToggle = now
		return false
	}
	if now.Sub(p.lastBlinkToggle) < cursorBlinkIntervalMS*time.Millisecond {
		return false
	}
	p.cursorBlinkVisible = !p.cursorBlinkVisible
	p.lastBlinkToggle = now
	return true
}

// CursorBlinkVisible reports the current blink-phase visibility bit,
// the value Rebuild should be handed for its cursor overlay decisions.
func (p *Pipeline) CursorBlinkVisible() bool {
	return p.cursorBlinkVisible
}

// RequestResize records a pending size change; ApplyPendingResize
// coalesces rapid-fire events per spec §4.6 Phase A.
func (p *Pipeline) RequestResize(cols, rows int, now time.Time) {
	p.pendingCols, p.pendingRows = cols, rows
	p.pendingResize = true
	p.lastResizeEvent = now
}

// ApplyPendingResize is Phase A: once RESIZE_COALESCE_MS has elapsed
// since the last size event, resize every tab's terminal and pty, then
// scroll the active surface to the bottom.
func ApplyPendingResize(p *Pipeline, now time.Time, tabs []Resizable, active Resizable) bool {
	if !p.pendingResize {
		return false
	}
	if now.Sub(p.lastResizeEvent) < resizeCoalesceMS*time.Millisecond {
		return false
	}

	p.pendingResize = false
	for _, t := range tabs {
		// A failed resize is logged and the frame continues at the old
		// dimensions (spec §7's ResizeFailure).
		if err := t.Resize(p.pendingCols, p.pendingRows); err != nil {
			p.log.Warn().Err(err).Int("cols", p.pendingCols).Int("rows", p.pendingRows).Msg("terminal resize failed")
		}
	}
	if active != nil {
		active.ScrollViewport(term.ScrollSpec{ToBottom: true})
	}
	p.lastCols, p.lastRows = p.pendingCols, p.pendingRows
	return true
}

// DirtyCheckInput is everything Phase B reads to decide whether a
// rebuild is needed, gathered under the Surface's mutex by the caller.
type DirtyCheckInput struct {
	Terminal          term.Terminal
	SelectionActive   bool
	SelectionDragging bool
}

// NeedsRebuild is Phase B: decide (under the caller's held mutex)
// whether this frame needs a cell rebuild, per spec §4.6's OR'd
// condition list. Also clears forceRebuild, matching the spec's "set,
// cleared here" note.
func (p *Pipeline) NeedsRebuild(in DirtyCheckInput) bool {

	t := in.Terminal
	need := p.forceRebuild || !p.cellsValid
	p.forceRebuild = false

	need = need || p.lastCursorVisible != p.cursorBlinkVisible
	atBottom := t.ViewportAtBottom()
	need = need || p.lastViewportActive != atBottom

	cols, rows := t.Cols(), t.Rows()
	need = need || cols != p.lastCols || rows != p.lastRows

	need = need || p.lastSelectionActive != in.SelectionActive || in.SelectionDragging

	pagePin, yWithin := t.TopLeft()
	need = need || pagePin != p.lastPagePin || yWithin != p.lastYWithinPage

	need = need || t.TerminalDirty() || t.ScreenDirty()
	if !need {
		// Per-row dirty flags only matter when nothing coarser already
		// forced a rebuild; a full scan of every row is the caller's
		// row iteration during Phase C, so here we only need to know
		// whether *any* row in the viewport is dirty.
		it := t.RowIterator()
		for i := 0; i < rows; i++ {
			_, abs, ok := it.Next()
			if !ok {
				break
			}
			if t.RowDirty(abs) {
				need = true
				break
			}
		}
	}

	p.lastCursorVisible = p.cursorBlinkVisible
	p.lastViewportActive = atBottom
	p.lastCols, p.lastRows = cols, rows
	p.lastSelectionActive = in.SelectionActive
	p.lastSelectionDrag = in.SelectionDragging
	p.lastPagePin, p.lastYWithinPage = pagePin, yWithin

	return need
}

// SynchronizedOutputActive reports whether DEC 2026 synchronized output
// is on and still within its 1-second safety ceiling (spec §5's
// "Cancellation and timeouts" note); once the ceiling is crossed the
// renderer resumes regardless of the mode flag.
func (p *Pipeline) SynchronizedOutputActive(t term.Terminal, now time.Time) bool {
	if !t.Mode(term.ModeSynchronizedOutput) {
		p.syncedOutputArmed = false
		return false
	}
	if !p.syncedOutputArmed {
		p.syncedOutputArmed = true
		p.syncedOutputSince = now
		return true
	}
	return now.Sub(p.syncedOutputSince) < syncedOutputSafetyCeil
}

// Snapshot is Phase C: copy the viewport into p.snap and clear every
// dirty flag the terminal exposes. Must be called with the Surface's
// render-state mutex held.
func (p *Pipeline) Snapshot(t term.Terminal) *Snapshot {

	cols, rows := t.Cols(), t.Rows()
	if p.snap == nil || p.snap.Cols != cols || p.snap.Rows != rows {
		p.snap = newSnapshot(cols, rows)
	}
	snapshotLocked(t, p.snap)
	p.snap.CursorStyle = t.LookupStyle(0)

	t.ClearTerminalDirty()
	t.ClearScreenDirty()
	it := t.RowIterator()
	for {
		_, abs, ok := it.Next()
		if !ok {
			break
		}
		t.ClearRowDirty(abs)
	}

	p.cellsValid = true
	return p.snap
}
