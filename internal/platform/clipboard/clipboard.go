// Package clipboard is the thin adapter behind the clipboard
// collaborator the core's copy/paste keybindings call (spec §4.7). The
// core never decides clipboard policy beyond serializing a selection to
// UTF-8; this package only moves that string to and from the system.
package clipboard

import "github.com/atotto/clipboard"

// Provider reads and writes the system clipboard as plain UTF-8 text.
type Provider interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System is the real clipboard, backed by github.com/atotto/clipboard.
type System struct{}

func (System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process Provider for tests.
type Memory struct {
	Text string
}

func (m *Memory) ReadText() (string, error) {
	return m.Text, nil
}

func (m *Memory) WriteText(text string) error {
	m.Text = text
	return nil
}

var (
	_ Provider = System{}
	_ Provider = (*Memory)(nil)
)
