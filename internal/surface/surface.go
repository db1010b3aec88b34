// Package surface implements one terminal instance (spec C4): the
// pseudo-console, the terminal state machine, selection, OSC title/cwd
// tracking, and the IO reader thread that feeds it all.
package surface

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/pty"
	"github.com/phantty/phantty/internal/selection"
	"github.com/phantty/phantty/internal/term"
)

// RenderState is the mutex-guarded terminal reference shared by the IO
// thread, the main thread, and the render pipeline (spec §3).
type RenderState struct {
	Mu       sync.Mutex
	Terminal term.Terminal
}

// Surface is one terminal instance: a spawned Pty, a Terminal, and the
// OSC-derived title/cwd storage, all addressable from a Tab.
type Surface struct {
	Pty       pty.Pty
	Render    *RenderState
	Selection selection.Selection

	Dirty  atomic.Bool
	Exited atomic.Bool

	ScrollbackOpacity float32
	ScrollbarShowTime int64

	titleMu     sync.Mutex
	title       string
	prettyTitle string
	cwd         string

	ioDone chan struct{}
}

// Spawn opens a pseudo-console sized (cols, rows), starts the shell
// child, initializes the terminal, and starts the IO reader thread
// (spec §4.4's spawn operation).
func Spawn(spawner pty.Spawner, newTerminal func(cols, rows int, scrollbackLimit int) term.Terminal, cols, rows int, cfg config.Config, cwd string) (*Surface, error) {

	p, err := spawner.Spawn(cfg.ResolvedShellCommand, cols, rows, cwd)
	if err != nil {
		return nil, err
	}

	t := newTerminal(cols, rows, cfg.ScrollbackLimit)

	s := &Surface{
		Pty:    p,
		Render: &RenderState{Terminal: t},
		cwd:    cwd,
		ioDone: make(chan struct{}),
	}

	go RunIoReader(s)
	return s, nil
}

// Write pushes bytes to the pseudo-console write pipe: keyboard input,
// paste, bracketed sequences (spec §4.4's write operation).
func (s *Surface) Write(b []byte) error {
	_, err := s.Pty.Write(b)
	return err
}

// Resize resizes the terminal state under the mutex, then the
// pseudo-console outside it, matching spec §4.4's lock-ordering exactly
// (the pty resize syscall must never happen while the terminal mutex is
// held, since RenderPipeline's Phase A also resizes outside the lock).
func (s *Surface) Resize(cols, rows int) error {

	s.Render.Mu.Lock()
	s.Render.Terminal.Resize(cols, rows)
	s.Render.Mu.Unlock()

	return s.Pty.Resize(cols, rows)
}

// ScrollViewport updates the viewport under the mutex.
func (s *Surface) ScrollViewport(spec term.ScrollSpec) {
	s.Render.Mu.Lock()
	defer s.Render.Mu.Unlock()
	s.Render.Terminal.ScrollViewport(spec)
}

// GetTitle returns the last observed OSC 0/2 title.
func (s *Surface) GetTitle() string {
	s.titleMu.Lock()
	defer s.titleMu.Unlock()
	return s.title
}

// GetPrettyTitle returns the shell-friendly form of the working
// directory: under the home directory, the path with its leading home
// prefix replaced by "~" (just "~" for home itself); elsewhere, the
// basename.
func (s *Surface) GetPrettyTitle() string {
	s.titleMu.Lock()
	defer s.titleMu.Unlock()
	return s.prettyTitle
}

// GetCwd returns the last observed OSC 7 working directory.
func (s *Surface) GetCwd() string {
	s.titleMu.Lock()
	defer s.titleMu.Unlock()
	return s.cwd
}

// applyOscBatch applies the OSC matches found in one IoReader chunk.
// Within a single chunk, OSC 7 (cwd) takes priority over OSC 0/2
// (title), per spec §4.4's title resolution policy: cwd is applied
// first so a title derived from it (when no explicit title is set)
// reflects the freshest directory.
func (s *Surface) applyOscBatch(matches []oscMatch) {

	s.titleMu.Lock()
	defer s.titleMu.Unlock()

	var cwd, title string
	var haveCwd, haveTitle bool

	for _, m := range matches {
		switch m.code {
		case "7":
			cwd = stripFileURIScheme(m.text)
			haveCwd = true
		case "0", "2":
			title = m.text
			haveTitle = true
		}
	}

	if haveCwd {
		s.cwd = cwd
	}
	if haveTitle {
		s.title = title
	}
	s.prettyTitle = prettifyCwd(s.cwd, homeDir())
}

// homeDir returns the current user's home directory, or "" if it can't
// be determined; prettifyCwd treats "" as "no substitution possible".
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func stripFileURIScheme(s string) string {
	const scheme = "file://"
	if strings.HasPrefix(s, scheme) {
		// Drop the scheme and an optional leading hostname component
		// (file://hostname/path); the path itself starts at the next '/'.
		rest := s[len(scheme):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return rest[i:]
		}
		return rest
	}
	return s
}

func prettifyCwd(cwd, home string) string {

	base := cwd
	if i := strings.LastIndexAny(cwd, `/\`); i >= 0 && i+1 < len(cwd) {
		base = cwd[i+1:]
	}
	if home != "" && strings.HasPrefix(cwd, home) {
		if cwd == home {
			return "~"
		}
		return "~" + strings.TrimPrefix(cwd, home)
	}
	return base
}

// Deinit marks Exited, closes the pty (which unblocks the reader's
// blocking Read), then waits for the IO thread to finish (spec §4.4's
// deinit). The Terminal has no teardown step here.
func (s *Surface) Deinit() {
	s.Exited.Store(true)
	s.Pty.Close()
	<-s.ioDone
}
