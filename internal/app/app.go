// Package app implements the AppCoordinator (C8, spec §4.8): the
// process-wide owner of shared configuration, window-thread lifecycle,
// and the shutdown broadcast. Coordinator fields are read-only after
// New, except the window list and the one-shot cascade fields, which
// are guarded by the coordinator's mutex.
package app

import (
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/window"
)

// CascadeOffset is the (+30, +30) step a new window's position takes
// from its parent (spec §4.7's "New window" keybinding).
const CascadeOffset = 30

// CascadeFrom computes a child window's initial position from its
// parent's. Kept as a pure function so the cascade law (spec §8
// scenario 6) is testable without spawning threads.
func CascadeFrom(parentX, parentY int32) (x, y int32) {
	return parentX + CascadeOffset, parentY + CascadeOffset
}

// WindowHandle is the slice of window.Core the coordinator tracks. An
// interface so the coordinator's thread lifecycle is testable without
// an SDL/GL window.
type WindowHandle interface {
	Run()
	RequestClose()
}

// WindowFactory constructs one window at the given position ((-1, -1)
// to center) starting in cwd. Injected so tests can stand in a fake;
// the real factory lives in cmd/phantty and builds a window.Core.
type WindowFactory func(coord window.Coordinator, x, y int32, cwd string) (WindowHandle, error)

// Coordinator is the process-wide singleton of spec §3: resolved
// configuration plus the window registry.
type Coordinator struct {
	Config config.Config

	log     zerolog.Logger
	factory WindowFactory

	mu      sync.Mutex
	windows []WindowHandle

	// one-shot cascade fields, consumed by the next window thread's
	// construction under mu (spec §4.8 step 2).
	nextX, nextY int32
	haveNextPos  bool
	nextCwd      string

	threads sync.WaitGroup

	// openConfig is the configuration collaborator's entry point; the
	// core only delegates (spec §4.7's "Open config").
	openConfig func()
}

// New builds a Coordinator. openConfig may be nil when no configuration
// collaborator is wired (the action becomes a no-op).
func New(cfg config.Config, log zerolog.Logger, factory WindowFactory, openConfig func()) *Coordinator {
	if openConfig == nil {
		openConfig = func() {}
	}
	return &Coordinator{
		Config:     cfg,
		log:        log,
		factory:    factory,
		openConfig: openConfig,
	}
}

// RequestNewWindow stores the cascade target and CWD, then spawns a
// window thread (spec §4.8). The stored fields are one-shot: the new
// thread consumes them during construction.
func (c *Coordinator) RequestNewWindow(parentX, parentY int32, cwd string) {

	c.mu.Lock()
	c.nextX, c.nextY = CascadeFrom(parentX, parentY)
	c.haveNextPos = true
	c.nextCwd = cwd
	c.mu.Unlock()

	c.threads.Add(1)
	go c.windowThread()
}

// windowThread is a worker window's whole life: pin the OS thread (the
// GL context and the SDL event pump are thread-affine), construct the
// window consuming the one-shot cascade fields, register, run the loop
// to completion, deregister.
func (c *Coordinator) windowThread() {
	defer c.threads.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	x, y, cwd := c.consumeCascade()

	w, err := c.factory(c, x, y, cwd)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to create window")
		return
	}

	c.register(w)
	w.Run()
	c.deregister(w)
}

// consumeCascade takes the one-shot cascade position and CWD under the
// mutex, resetting them so a later window without a parent centers
// itself.
func (c *Coordinator) consumeCascade() (x, y int32, cwd string) {

	c.mu.Lock()
	defer c.mu.Unlock()

	x, y = int32(-1), int32(-1)
	if c.haveNextPos {
		x, y = c.nextX, c.nextY
		c.haveNextPos = false
	}
	cwd = c.nextCwd
	c.nextCwd = ""
	return x, y, cwd
}

func (c *Coordinator) register(w WindowHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.windows = append(c.windows, w)
}

func (c *Coordinator) deregister(w WindowHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.windows {
		if other == w {
			c.windows = append(c.windows[:i], c.windows[i+1:]...)
			return
		}
	}
}

// WindowCount reports the number of currently registered windows.
func (c *Coordinator) WindowCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}

// RequestShutdown broadcasts a close signal to every registered window;
// each window's loop observes it and drains its final frame (spec
// §4.8).
func (c *Coordinator) RequestShutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.windows {
		w.RequestClose()
	}
}

// OpenConfig delegates to the configuration collaborator.
func (c *Coordinator) OpenConfig() {
	c.openConfig()
}

// Run owns the first window on the calling thread (which must be the
// process's main thread, locked by cmd/phantty's init) and, after it
// returns, joins every spawned window thread — the process exits only
// once all windows have closed (spec §9's multi-window close ordering).
func (c *Coordinator) Run(x, y int32, cwd string) error {

	first, err := c.factory(c, x, y, cwd)
	if err != nil {
		return errors.Join(errors.New("cannot open first window"), err)
	}

	c.register(first)
	first.Run()
	c.deregister(first)

	c.threads.Wait()
	return nil
}

var _ window.Coordinator = (*Coordinator)(nil)
