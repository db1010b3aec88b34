// Package ptyfake is an in-memory pty.Pty/pty.Spawner pair used by
// internal/surface's tests, since the real ConPTY adapter only builds
// and runs on Windows.
package ptyfake

import (
	"bytes"
	"errors"
	"sync"

	"github.com/phantty/phantty/internal/pty"
)

// Pty is an in-memory pipe: Read drains Output, so a test can simulate
// a child process's output by appending to Output (see Feed); Write
// appends to Input, where a test inspects what Surface sent.
// Read blocks until data is available or the pty is closed, matching
// the real ConPTY pipe's blocking semantics closely enough for
// IoReader's loop to behave the same way under test.
type Pty struct {
	mu   sync.Mutex
	cond *sync.Cond

	Output bytes.Buffer // what Read drains; a test appends to this to simulate child output
	Input  bytes.Buffer // what Write appends to; a test inspects this to see what Surface sent

	cols, rows  int
	resizeCalls int
	closed      bool
}

func New(cols, rows int) *Pty {
	p := &Pty{cols: cols, rows: rows}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *Pty) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.Output.Len() == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.Output.Len() == 0 {
		return 0, errors.New("ptyfake: read from closed pty")
	}
	return p.Output.Read(b)
}

// BytesAvailable reports how many unread bytes are buffered.
func (p *Pty) BytesAvailable() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Output.Len(), nil
}

func (p *Pty) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Input.Write(b)
}

func (p *Pty) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cols, p.rows = cols, rows
	p.resizeCalls++
	return nil
}

func (p *Pty) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

func (p *Pty) Wait() (int, error) {
	return 0, nil
}

// Feed appends simulated child output, readable via Read.
func (p *Pty) Feed(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Output.Write(b)
	p.cond.Broadcast()
}

// ResizeCalls reports how many times Resize was called, for assertions.
func (p *Pty) ResizeCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resizeCalls
}

// Spawner returns its Pty on every call, letting a test hand Surface a
// pre-wired fake regardless of the command line it's asked to spawn.
// When Pty is nil, each Spawn returns a new fake sized to cols x rows.
type Spawner struct {
	Pty *Pty
}

func (s Spawner) Spawn(commandLine string, cols, rows int, workDir string) (pty.Pty, error) {
	if s.Pty == nil {
		s.Pty = New(cols, rows)
	}
	return s.Pty, nil
}

var _ pty.Pty = (*Pty)(nil)
var _ pty.Spawner = Spawner{}
