package app

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/window"
)

type fakeWindow struct {
	x, y int32
	cwd  string

	mu      sync.Mutex
	closed  bool
	started chan struct{}
	release chan struct{}
}

func (w *fakeWindow) Run() {
	close(w.started)
	<-w.release
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	close(w.release)
}

func (w *fakeWindow) wasClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

type fakeFactory struct {
	mu      sync.Mutex
	windows []*fakeWindow
}

func (f *fakeFactory) create(coord window.Coordinator, x, y int32, cwd string) (WindowHandle, error) {
	w := &fakeWindow{
		x: x, y: y, cwd: cwd,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	f.mu.Lock()
	f.windows = append(f.windows, w)
	f.mu.Unlock()
	return w, nil
}

func (f *fakeFactory) at(i int) *fakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.windows) {
		return nil
	}
	return f.windows[i]
}

func TestCascadeFrom(t *testing.T) {
	x, y := CascadeFrom(200, 200)
	if x != 230 || y != 230 {
		t.Fatalf("expected (230, 230), got (%d, %d)", x, y)
	}
}

func TestRequestNewWindowCascadesAndInheritsCwd(t *testing.T) {

	f := &fakeFactory{}
	c := New(config.Default(), zerolog.Nop(), f.create, nil)

	c.RequestNewWindow(200, 200, `C:\work`)

	w := waitForWindow(t, f, 0)
	if w.x != 230 || w.y != 230 {
		t.Fatalf("expected cascade to (230, 230), got (%d, %d)", w.x, w.y)
	}
	if w.cwd != `C:\work` {
		t.Fatalf("expected cwd inherited, got %q", w.cwd)
	}

	w.RequestClose()
	c.threads.Wait()
}

func TestCascadeFieldsAreOneShot(t *testing.T) {

	f := &fakeFactory{}
	c := New(config.Default(), zerolog.Nop(), f.create, nil)

	c.RequestNewWindow(100, 100, `C:\first`)
	first := waitForWindow(t, f, 0)
	first.RequestClose()
	c.threads.Wait()

	// A second consume with nothing stored must center and use the
	// default cwd.
	x, y, cwd := c.consumeCascade()
	if x != -1 || y != -1 {
		t.Fatalf("expected centered (-1, -1), got (%d, %d)", x, y)
	}
	if cwd != "" {
		t.Fatalf("expected empty cwd, got %q", cwd)
	}
}

func TestRequestShutdownBroadcastsToAllWindows(t *testing.T) {

	f := &fakeFactory{}
	c := New(config.Default(), zerolog.Nop(), f.create, nil)

	c.RequestNewWindow(0, 0, "")
	c.RequestNewWindow(50, 50, "")
	waitForWindow(t, f, 0)
	waitForWindow(t, f, 1)

	for c.WindowCount() < 2 {
		time.Sleep(time.Millisecond)
	}

	c.RequestShutdown()
	c.threads.Wait()

	if !f.at(0).wasClosed() || !f.at(1).wasClosed() {
		t.Fatal("expected both windows to receive the close broadcast")
	}
	if c.WindowCount() != 0 {
		t.Fatalf("expected all windows deregistered, got %d", c.WindowCount())
	}
}

func TestRunJoinsSpawnedWindowThreads(t *testing.T) {

	f := &fakeFactory{}
	c := New(config.Default(), zerolog.Nop(), f.create, nil)

	done := make(chan struct{})
	go func() {
		c.Run(-1, -1, "")
		close(done)
	}()

	first := waitForWindow(t, f, 0)

	c.RequestNewWindow(10, 10, "")
	second := waitForWindow(t, f, 1)

	// Closing the first window must not end the process while the
	// second window is still open (spec §9's close ordering).
	first.RequestClose()
	select {
	case <-done:
		t.Fatal("Run returned while a secondary window was still open")
	case <-time.After(20 * time.Millisecond):
	}

	second.RequestClose()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after all windows closed")
	}
}

func waitForWindow(t *testing.T, f *fakeFactory, i int) *fakeWindow {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if w := f.at(i); w != nil {
			<-w.started
			return w
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("window %d was never created", i)
	return nil
}
