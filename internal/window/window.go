// Package window implements WindowCore (C7, spec §4.7): one OS window
// with its own GPU context, glyph caches, render pipeline, bounded tab
// array, and input dispatch. Each window runs on its own OS thread; the
// AppCoordinator (internal/app) owns their lifecycle.
package window

import (
	"sync/atomic"
	"time"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nmage/engine"
	"github.com/bloeys/nmage/input"
	"github.com/bloeys/nmage/materials"
	"github.com/bloeys/nmage/renderer/rend3dgl"
	nmageimgui "github.com/bloeys/nmage/ui/imgui"
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phantty/phantty/internal/assert"
	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/fontrend"
	"github.com/phantty/phantty/internal/glyph"
	"github.com/phantty/phantty/internal/platform/clipboard"
	"github.com/phantty/phantty/internal/pty"
	"github.com/phantty/phantty/internal/render"
	"github.com/phantty/phantty/internal/ring"
	"github.com/phantty/phantty/internal/surface"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/window/scrollbar"
)

const (
	defaultFontPath = "./res/fonts/CascadiaMono-Regular.ttf"

	quadModelPath     = "./res/models/quad.obj"
	bgShaderPath      = "./res/shaders/cell_bg.glsl"
	fgShaderPath      = "./res/shaders/cell_fg.glsl"
	colorFgShaderPath = "./res/shaders/cell_color_fg.glsl"
	overlayShaderPath = "./res/shaders/overlay.glsl"

	frameTimeHistoryLen = 64
)

// Coordinator is the slice of AppCoordinator a window calls back into.
// Defined here (not in internal/app) so app can depend on window
// without a cycle.
type Coordinator interface {
	// RequestNewWindow spawns a window thread cascading from the given
	// parent position and starting in cwd ("" for the default).
	RequestNewWindow(parentX, parentY int32, cwd string)

	// OpenConfig delegates to the configuration collaborator.
	OpenConfig()
}

// Core is one window: GPU context, glyph cache + atlases, render
// pipeline, tabs, scrollbar, and input routing (spec §3's WindowCore).
type Core struct {
	Win  *engine.Window
	Rend *rend3dgl.Rend3DGL

	imguiInfo nmageimgui.ImguiInfo

	log zerolog.Logger
	cfg config.Config

	cache      *glyph.Cache
	pipeline   *render.Pipeline
	backend    *GLBackend
	overlayMat *materials.Material

	Tabs      Tabs
	scrollbar scrollbar.Scrollbar
	sbGeom    sbGeometry

	selectionDragging bool

	spawner     pty.Spawner
	newTerminal func(cols, rows, scrollbackLimit int) term.Terminal
	clip        clipboard.Provider
	coord       Coordinator

	dpi float32

	frameTimes    *ring.Buffer[float32]
	lastFrameTime time.Time

	saveState func(x, y int32)

	// fullscreen save/restore (spec §4.7's "Fullscreen toggle")
	fullscreen bool
	savedX     int32
	savedY     int32
	savedW     int32
	savedH     int32

	shouldClose atomic.Bool
}

// Options carries everything a Core needs from the coordinator at
// construction time.
type Options struct {
	Config      config.Config
	Log         zerolog.Logger
	Spawner     pty.Spawner
	NewTerminal func(cols, rows, scrollbackLimit int) term.Terminal
	Rasterizer  fontrend.Rasterizer
	Shaper      fontrend.Shaper
	FontFinder  fontrend.SystemFontFinder
	Clipboard   clipboard.Provider
	Coordinator Coordinator

	// X/Y < 0 centers the window; otherwise it opens at the given
	// position (cascade or restored state).
	X, Y int32

	// InitialCwd is the working directory for the first tab ("" for the
	// shell default).
	InitialCwd string

	// SaveState, when set, receives the window's final position at
	// teardown for the window-state persistence file.
	SaveState func(x, y int32)
}

var _ engine.Game = &Core{}

// New creates the SDL/OpenGL window and wires the core's collaborators.
// The GPU-dependent pieces (glyph cache, backend, first tab) are built
// in Init once the engine has made the GL context current.
func New(opts Options) (*Core, error) {

	c := &Core{
		imguiInfo:   nmageimgui.NewImGUI(),
		log:         opts.Log,
		cfg:         opts.Config,
		spawner:     opts.Spawner,
		newTerminal: opts.NewTerminal,
		clip:        opts.Clipboard,
		coord:       opts.Coordinator,
		frameTimes:  ring.NewBuffer[float32](frameTimeHistoryLen),
		saveState:   opts.SaveState,
	}

	// Build the cache before the window so the initial client size can
	// be derived from the configured grid (window-width x window-height
	// cells) and the measured cell metrics.
	cache, err := c.openFontCache(opts)
	if err != nil {
		return nil, err
	}
	c.cache = cache
	c.pipeline = render.NewPipeline(c.cache, c.cfg.Theme)
	c.pipeline.SetLogger(c.log)

	pixelW := int32(c.cfg.WindowWidth * c.cache.Metrics.CellWidth)
	pixelH := int32(c.cfg.WindowHeight * c.cache.Metrics.CellHeight)

	c.Rend = rend3dgl.NewRend3DGL()
	c.Win, err = engine.CreateOpenGLWindowCentered("Phantty", pixelW, pixelH, engine.WindowFlags_ALLOW_HIGHDPI|engine.WindowFlags_RESIZABLE, c.Rend)
	if err != nil {
		return nil, err
	}

	if opts.X >= 0 && opts.Y >= 0 {
		c.Win.SDLWin.SetPosition(opts.X, opts.Y)
	}

	c.Win.EventCallbacks = append(c.Win.EventCallbacks, c.handleSDLEvent)

	if ok := c.newTab(opts.InitialCwd); !ok {
		c.log.Error().Msg("failed to spawn initial tab")
	}

	return c, nil
}

// openFontCache resolves the configured family/weight through the
// system font discovery and opens the glyph cache, falling back to the
// embedded monospace font with a logged warning on any failure (spec
// §7's FontLoadFailure policy).
func (c *Core) openFontCache(opts Options) (*glyph.Cache, error) {

	dpi, _, _, err := sdl.GetDisplayDPI(0)
	if err != nil {
		dpi = 96
	}
	c.dpi = dpi

	fontPath, faceIndex := defaultFontPath, 0
	if opts.Config.FontFamily != "" {
		path, idx, err := opts.FontFinder.FindFamily(opts.Config.FontFamily, opts.Config.FontWeight)
		if err != nil {
			c.log.Warn().Err(err).Str("family", opts.Config.FontFamily).Msg("font not found, using embedded fallback")
		} else {
			fontPath, faceIndex = path, idx
		}
	}

	cache, err := glyph.NewCache(opts.Rasterizer, opts.Shaper, opts.FontFinder, fontPath, faceIndex, opts.Config.FontSize, uint(dpi))
	if err != nil && fontPath != defaultFontPath {
		c.log.Warn().Err(err).Str("path", fontPath).Msg("failed to load font, using embedded fallback")
		cache, err = glyph.NewCache(opts.Rasterizer, opts.Shaper, opts.FontFinder, defaultFontPath, 0, opts.Config.FontSize, uint(dpi))
	}
	return cache, err
}

// Init builds the GL-dependent state: the cell backend and, when
// configured, the custom post-processing shader pass.
func (c *Core) Init() {

	m := c.cache.Metrics
	backend, err := NewGLBackend(quadModelPath, bgShaderPath, fgShaderPath, colorFgShaderPath, float32(m.CellWidth), float32(m.CellHeight))
	if err != nil {
		// A window without a backend cannot draw anything; treat like a
		// coordinator-level failure (spec §7).
		panic("failed to create GL backend: " + err.Error())
	}
	c.backend = backend

	c.overlayMat = materials.NewMaterial("overlay", overlayShaderPath)

	if c.cfg.CustomShaderPath != "" {
		if err := c.backend.EnablePostShader(c.cfg.CustomShaderPath); err != nil {
			c.log.Warn().Err(err).Str("path", c.cfg.CustomShaderPath).Msg("custom shader disabled")
		}
	}

	c.handleWindowResize()
	c.lastFrameTime = time.Now()
}

// newTab spawns a Surface in cwd and appends it to the tab array,
// logging and skipping the tab on spawn failure (spec §7's
// SpawnFailure: fatal for the tab, never the window).
func (c *Core) newTab(cwd string) bool {

	cols, rows := c.gridSize()
	s, err := surface.Spawn(c.spawner, c.newTerminal, cols, rows, c.cfg, cwd)
	if err != nil {
		c.log.Error().Err(err).Str("cwd", cwd).Msg("failed to spawn tab")
		return false
	}

	if !c.Tabs.Add(s) {
		c.log.Warn().Int("tabs", c.Tabs.Count()).Msg("tab limit reached")
		s.Deinit()
		return false
	}
	return true
}

// gridSize converts the current client size to character cells.
func (c *Core) gridSize() (cols, rows int) {

	m := c.cache.Metrics
	w, h := c.Win.SDLWin.GetSize()

	cols = int(w) / m.CellWidth
	rows = int(h) / m.CellHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (c *Core) handleSDLEvent(e sdl.Event) {

	switch e := e.(type) {

	case *sdl.TextInputEvent:
		c.writeToActive([]byte(e.GetText()))
		c.pipeline.NotifyInput(time.Now())

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			c.handleWindowResize()
		}

	case *sdl.MouseWheelEvent:
		c.handleMouseWheel(int64(e.Y))

	case *sdl.MouseButtonEvent:
		c.handleMouseButton(e)

	case *sdl.MouseMotionEvent:
		c.handleMouseMotion(e)
	}
}

func (c *Core) handleWindowResize() {

	w, h := c.Win.SDLWin.GetSize()
	if c.backend != nil {
		c.backend.SetScreenSize(w, h)
	}
	if c.overlayMat != nil {
		projMtx := gglm.Ortho(0, float32(w), float32(h), 0, 0.1, 20)
		viewMtx := gglm.LookAt(gglm.NewVec3(0, 0, -10), gglm.NewVec3(0, 0, 0), gglm.NewVec3(0, 1, 0))
		projViewMtx := projMtx.Mul(viewMtx)
		c.overlayMat.SetUnifMat4("projViewMat", &projViewMtx.Mat4)
	}

	cols, rows := c.gridSize()
	c.pipeline.RequestResize(cols, rows, time.Now())
}

func (c *Core) handleMouseWheel(deltaY int64) {

	if deltaY == 0 {
		return
	}

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}

	tab.Surface.ScrollViewport(term.ScrollSpec{Delta: -deltaY})
	c.scrollbar.NotifyScroll(time.Now())
	c.pipeline.InvalidateCells()
}

// Update is the per-frame input half of the window loop.
func (c *Core) Update() {

	if input.IsQuitClicked() {
		c.shouldClose.Store(true)
	}
	if c.shouldClose.Load() {
		engine.Quit()
		return
	}

	c.dispatchKeys()

	dt := c.frameDelta()
	c.Tabs.TickCloseFades(dt)
}

// frameDelta returns the seconds since the previous frame and records
// it in the frame-time history ring.
func (c *Core) frameDelta() float32 {

	now := time.Now()
	dt := float32(now.Sub(c.lastFrameTime).Seconds())
	c.lastFrameTime = now
	c.frameTimes.Append(dt)
	return dt
}

// dispatchKeys polls the key chords the dispatcher understands and
// routes the resolved actions (spec §4.7).
func (c *Core) dispatchKeys() {

	mods := currentModifiers()

	for _, key := range pollableKeys {
		if !input.KeyClicked(sdlKeycodeFor(key)) {
			continue
		}

		d := ResolveKey(key, mods)
		if d.Action == ActionNone {
			continue
		}
		c.runAction(d)
	}
}

func (c *Core) runAction(d Dispatch) {

	switch d.Action {

	case ActionCopy:
		c.copySelection()

	case ActionPaste:
		text, err := c.clip.ReadText()
		if err != nil {
			c.log.Warn().Err(err).Msg("paste failed")
			return
		}
		c.writeToActive([]byte(text))

	case ActionNewTab:
		cwd := ""
		if tab := c.Tabs.Active(); tab != nil {
			cwd = tab.Surface.GetCwd()
		}
		c.newTab(cwd)
		c.pipeline.InvalidateCells()

	case ActionNewWindow:
		x, y := c.Win.SDLWin.GetPosition()
		cwd := ""
		if tab := c.Tabs.Active(); tab != nil {
			cwd = tab.Surface.GetCwd()
		}
		c.coord.RequestNewWindow(x, y, cwd)

	case ActionCloseTabOrWindow:
		c.closeTab(c.Tabs.ActiveIndex())

	case ActionNextTab:
		c.Tabs.Next()
		c.pipeline.InvalidateCells()

	case ActionPrevTab:
		c.Tabs.Prev()
		c.pipeline.InvalidateCells()

	case ActionSwitchTab:
		if c.Tabs.SwitchTo(d.TabArg) {
			c.pipeline.InvalidateCells()
		}

	case ActionOpenConfig:
		c.coord.OpenConfig()

	case ActionToggleFullscreen:
		c.toggleFullscreen()

	case ActionScrollPageUp:
		c.scrollPage(-1)

	case ActionScrollPageDown:
		c.scrollPage(1)

	case ActionSendSequence:
		c.writeToActive(d.Bytes)
		c.pipeline.NotifyInput(time.Now())
	}
}

func (c *Core) writeToActive(b []byte) {
	tab := c.Tabs.Active()
	if tab == nil {
		return
	}
	if err := tab.Surface.Write(b); err != nil {
		c.log.Warn().Err(err).Msg("pty write failed")
	}
}

// copySelection serializes the active surface's selection under the
// render-state mutex and places it on the system clipboard.
func (c *Core) copySelection() {

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}
	s := tab.Surface

	s.Render.Mu.Lock()
	text := SerializeSelection(s.Render.Terminal, s.Selection)
	s.Render.Mu.Unlock()

	if text == "" {
		return
	}
	if err := c.clip.WriteText(text); err != nil {
		c.log.Warn().Err(err).Msg("copy failed")
	}
}

// closeTab removes the tab at i; closing the last tab closes the
// window instead (spec §4.7 / §8's boundary behavior).
func (c *Core) closeTab(i int) {

	tab := c.Tabs.At(i)
	if tab == nil {
		return
	}

	if c.Tabs.Count() == 1 {
		c.shouldClose.Store(true)
		return
	}

	c.Tabs.Close(i)
	tab.Surface.Deinit()
	c.pipeline.InvalidateCells()

	assert.T(c.Tabs.ActiveIndex() < c.Tabs.Count(), "active tab %d out of range after close, count=%d", c.Tabs.ActiveIndex(), c.Tabs.Count())
}

func (c *Core) toggleFullscreen() {

	if !c.fullscreen {
		c.savedX, c.savedY = c.Win.SDLWin.GetPosition()
		c.savedW, c.savedH = c.Win.SDLWin.GetSize()
		c.Win.SDLWin.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP)
		c.fullscreen = true
		return
	}

	c.Win.SDLWin.SetFullscreen(0)
	c.Win.SDLWin.SetPosition(c.savedX, c.savedY)
	c.Win.SDLWin.SetSize(c.savedW, c.savedH)
	c.fullscreen = false
}

// scrollPage moves the active viewport by one page (Ctrl+Shift+PageUp/
// PageDown).
func (c *Core) scrollPage(dir int64) {

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}

	_, rows := c.gridSize()
	tab.Surface.ScrollViewport(term.ScrollSpec{Delta: dir * int64(rows)})
	c.scrollbar.NotifyScroll(time.Now())
	c.pipeline.InvalidateCells()
}

// Render runs the frame pipeline for the active surface: Phase A-F of
// spec §4.6 against this window's backend.
func (c *Core) Render() {

	tab := c.Tabs.Active()
	if tab == nil {
		return
	}
	s := tab.Surface

	if s.Exited.Load() {
		c.closeTab(c.Tabs.ActiveIndex())
		return
	}

	now := time.Now()

	// Phase A: coalesced resize across every tab.
	resizables := make([]render.Resizable, 0, c.Tabs.Count())
	for i := 0; i < c.Tabs.Count(); i++ {
		resizables = append(resizables, c.Tabs.At(i).Surface)
	}
	render.ApplyPendingResize(c.pipeline, now, resizables, s)

	c.pipeline.TickCursorBlink(now)

	// Phases B+C under the surface's render-state mutex.
	s.Render.Mu.Lock()
	t := s.Render.Terminal

	if c.pipeline.SynchronizedOutputActive(t, now) {
		s.Render.Mu.Unlock()
		return
	}

	need := s.Dirty.Swap(false)
	need = c.pipeline.NeedsRebuild(render.DirtyCheckInput{
		Terminal:          t,
		SelectionActive:   s.Selection.Active,
		SelectionDragging: c.selectionDragging,
	}) || need

	var snap *render.Snapshot
	if need {
		snap = c.pipeline.Snapshot(t)
	}
	cursorShape := t.Cursor().Shape
	s.Render.Mu.Unlock()

	// Phase D with the lock released.
	if snap != nil {
		c.pipeline.Rebuild(snap, s.Selection, cursorShape, c.pipeline.CursorBlinkVisible())
	}

	// Phases E+F.
	c.backend.BeginPostPass()
	c.pipeline.SyncAtlases(c.backend)
	c.pipeline.Submit(c.backend)
	c.drawScrollbar(s, now)
	c.backend.EndPostPass(c.lastDelta())

	c.updateTitle(s)
}

// lastDelta reads the most recent frame delta out of the history ring.
func (c *Core) lastDelta() float32 {
	last := c.frameTimes.Last(1)
	if len(last) == 0 {
		return 0
	}
	return last[0]
}

func (c *Core) updateTitle(s *surface.Surface) {

	title := s.GetTitle()
	if title == "" {
		title = s.GetPrettyTitle()
	}
	if title == "" {
		title = "Phantty"
	}
	c.Win.SDLWin.SetTitle(title)
}

// FrameEnd caps the frame rate the teacher's way: a manual sleep
// instead of driver vsync, which on some drivers busy-loops the CPU.
func (c *Core) FrameEnd() {

	maxFps := 120

	elapsed := time.Since(c.lastFrameTime)
	microSecondsPerFrame := int64(1 / float32(maxFps) * 1000_000)

	// Sleep time is reduced by a millisecond to compensate for the (nearly) inevitable over-sleeping that will happen.
	timeToSleep := time.Duration((microSecondsPerFrame - elapsed.Microseconds()) * 1000)
	timeToSleep -= 1000 * time.Microsecond

	if timeToSleep.Milliseconds() > 0 {
		time.Sleep(timeToSleep)
	}
}

// ShouldClose reports whether the window has been asked to close (last
// tab closed, quit clicked, or coordinator shutdown broadcast).
func (c *Core) ShouldClose() bool { return c.shouldClose.Load() }

// RequestClose is the coordinator's shutdown broadcast entry point.
func (c *Core) RequestClose() { c.shouldClose.Store(true) }

// Position reports the window's current screen position for cascade
// math and window-state persistence.
func (c *Core) Position() (x, y int32) {
	return c.Win.SDLWin.GetPosition()
}

// DeInit persists the window's final position and tears down every
// tab's surface: close the read pipe, join the IO thread, release the
// pty.
func (c *Core) DeInit() {

	if c.saveState != nil && !c.fullscreen {
		x, y := c.Win.SDLWin.GetPosition()
		c.saveState(x, y)
	}

	for i := 0; i < c.Tabs.Count(); i++ {
		c.Tabs.At(i).Surface.Deinit()
	}
}

// Run drives the engine loop for this window until it closes.
func (c *Core) Run() {
	engine.Run(c, c.Win, c.imguiInfo)
}
