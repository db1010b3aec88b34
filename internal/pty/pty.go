// Package pty defines the pseudo-console capability a Surface spawns a
// shell against (spec §4.4/§6.1). The concrete implementation talks to
// the Windows ConPTY API directly via golang.org/x/sys/windows — no
// example repo in the pack wraps ConPTY, so this is a direct syscall
// adapter rather than a standard-library substitute (x/sys/windows is
// itself a real, pack-confirmed dependency).
package pty

import "io"

// Pty is a spawned pseudo-console attached to a child process.
type Pty interface {
	io.Reader
	io.Writer

	// Resize informs the pseudo-console and the child process of a new
	// grid size, in character cells.
	Resize(cols, rows int) error

	// Close terminates the pseudo-console and releases its handles. It
	// does not itself kill the child process.
	Close() error

	// Wait blocks until the child process exits and returns its exit
	// code.
	Wait() (int, error)

	// BytesAvailable reports how many bytes can be read without
	// blocking, per spec §4.5's IoReader coalescing step (drain extra
	// chunks only while the pipe already has buffered data).
	BytesAvailable() (int, error)
}

// Spawner creates a Pty running the given command line, grounding
// Surface's spawn step (spec §4.4 step 1) without Surface depending on
// a concrete OS implementation.
type Spawner interface {
	Spawn(commandLine string, cols, rows int, workDir string) (Pty, error)
}
