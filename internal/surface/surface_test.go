package surface

import (
	"sync"
	"testing"
	"time"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/pty"
	"github.com/phantty/phantty/internal/pty/ptyfake"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/termfake"
)

func newTestSurface(t *testing.T) (*Surface, *ptyfake.Pty) {
	t.Helper()

	fp := ptyfake.New(80, 24)
	spawner := ptyfake.Spawner{Pty: fp}
	cfg := config.Default()

	s, err := Spawn(spawner, func(cols, rows, limit int) term.Terminal {
		return termfake.New(cols, rows)
	}, 80, 24, cfg, `C:\Users\tester`)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return s, fp
}

func waitForDirty(t *testing.T, s *Surface) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Dirty.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for Surface.Dirty")
}

func TestSpawnAndDeinit(t *testing.T) {
	s, fp := newTestSurface(t)
	defer s.Deinit()

	if s.Pty != fp {
		t.Fatal("expected Surface to hold the spawned fake pty")
	}
}

func TestWriteForwardsToPty(t *testing.T) {
	s, fp := newTestSurface(t)
	defer s.Deinit()

	if err := s.Write([]byte("ls\r")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := fp.Input.String(); got != "ls\r" {
		t.Fatalf("Input = %q, want %q", got, "ls\r")
	}
}

func TestIoReaderFeedsTerminalAndSetsDirty(t *testing.T) {
	s, fp := newTestSurface(t)
	defer s.Deinit()

	fp.Feed([]byte("hello"))
	waitForDirty(t, s)
}

func TestIoReaderAppliesOscCwdAndTitle(t *testing.T) {
	s, fp := newTestSurface(t)
	defer s.Deinit()

	chunk := []byte("\x1b]7;file:///C:/Users/tester/proj\x07\x1b]0;my title\x07")
	fp.Feed(chunk)
	waitForDirty(t, s)

	if got := s.GetCwd(); got != `/C:/Users/tester/proj` {
		t.Fatalf("GetCwd() = %q", got)
	}
	if got := s.GetTitle(); got != "my title" {
		t.Fatalf("GetTitle() = %q", got)
	}
	if got := s.GetPrettyTitle(); got != "proj" {
		t.Fatalf("GetPrettyTitle() = %q", got)
	}
}

func TestIoReaderSetsExitedOnClose(t *testing.T) {
	s, fp := newTestSurface(t)

	fp.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Exited.Load() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for Surface.Exited")
}

// coalescePty classifies each Read by whether it happened inside the
// surface's render-state critical section: the loop's outer read runs
// unlocked, coalesced drains run locked, so TryLock distinguishes them.
type coalescePty struct {
	*ptyfake.Pty

	mu      sync.Mutex
	surface *Surface
	locked  []bool
}

func (p *coalescePty) Read(b []byte) (int, error) {

	p.mu.Lock()
	s := p.surface
	p.mu.Unlock()

	underLock := false
	if s != nil {
		if s.Render.Mu.TryLock() {
			s.Render.Mu.Unlock()
		} else {
			underLock = true
		}
	}

	n, err := p.Pty.Read(b)

	p.mu.Lock()
	p.locked = append(p.locked, underLock)
	p.mu.Unlock()
	return n, err
}

type coalesceSpawner struct {
	p *coalescePty
}

func (s coalesceSpawner) Spawn(commandLine string, cols, rows int, workDir string) (pty.Pty, error) {
	return s.p, nil
}

func TestIoReaderCoalesceCap(t *testing.T) {

	inner := ptyfake.New(80, 24)
	cp := &coalescePty{Pty: inner}

	s, err := Spawn(coalesceSpawner{p: cp}, func(cols, rows, limit int) term.Terminal {
		return termfake.New(cols, rows)
	}, 80, 24, config.Default(), "")
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	cp.mu.Lock()
	cp.surface = s
	cp.mu.Unlock()
	defer s.Deinit()

	// Buffer far more than maxCoalesce+1 chunks in one burst, so the
	// coalescing loop has every excuse to over-drain.
	burst := make([]byte, (maxCoalesce+8)*readBufSize)
	for i := range burst {
		burst[i] = 'x'
	}
	inner.Feed(burst)

	waitForDirty(t, s)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := inner.BytesAvailable(); n == 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	cp.mu.Lock()
	defer cp.mu.Unlock()

	run := 0
	for _, underLock := range cp.locked {
		if !underLock {
			run = 0
			continue
		}
		run++
		if run > maxCoalesce {
			t.Fatalf("reader held the mutex across %d coalesced reads, cap is %d", run, maxCoalesce)
		}
	}
}

func TestResizeOrdersTerminalBeforePty(t *testing.T) {
	s, fp := newTestSurface(t)
	defer s.Deinit()

	if err := s.Resize(100, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if fp.ResizeCalls() != 1 {
		t.Fatalf("ResizeCalls() = %d, want 1", fp.ResizeCalls())
	}
}
