package window

// Key and Modifiers mirror the subset of SDL's keycode/keymod space the
// dispatcher cares about, kept as plain ints so the dispatch table in
// this file is testable without an SDL build tag (sdlkeys.go is the
// only place that maps these to real sdl.Keycode values and reads the
// SDL modifier state).
type Key int

const (
	KeyUnknown Key = iota
	KeyReturn
	KeyKpEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyC
	KeyV
	KeyT
	KeyN
	KeyW
	KeyQ
	KeyComma
	KeyF11
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
)

func (m Modifiers) has(bit Modifiers) bool { return m&bit != 0 }

// Action is the abstracted command a keybinding resolves to (spec §4.7).
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionPaste
	ActionNewTab
	ActionNewWindow
	ActionCloseTabOrWindow
	ActionNextTab
	ActionPrevTab
	ActionSwitchTab // Arg carries the 0-based tab index
	ActionOpenConfig
	ActionToggleFullscreen
	ActionScrollPageUp
	ActionScrollPageDown
	ActionSendSequence // Arg carries a key to translate below
)

// Dispatch is the result of resolving one key event: either an Action,
// or (for terminal-bound keys) the raw byte sequence to write to the
// active surface's pty.
type Dispatch struct {
	Action Action
	TabArg int
	Bytes  []byte
}

// ResolveKey maps a key + modifier chord to a Dispatch, per spec §4.7's
// abstracted keybinding list. Spec §6 is silent on the literal chords
// (an Open Question resolved here): copy/paste/tab/window management use
// the Ctrl+Shift chords conventional for Windows terminal emulators,
// since the plain Ctrl+C/Ctrl+V chords are reserved for terminal signals
// and paste-as-text.
func ResolveKey(key Key, mods Modifiers) Dispatch {

	ctrlShift := mods.has(ModCtrl) && mods.has(ModShift)

	if ctrlShift {
		switch key {
		case KeyC:
			return Dispatch{Action: ActionCopy}
		case KeyV:
			return Dispatch{Action: ActionPaste}
		case KeyT:
			return Dispatch{Action: ActionNewTab}
		case KeyN:
			return Dispatch{Action: ActionNewWindow}
		case KeyW, KeyQ:
			return Dispatch{Action: ActionCloseTabOrWindow}
		case KeyComma:
			return Dispatch{Action: ActionOpenConfig}
		case KeyPageUp:
			return Dispatch{Action: ActionScrollPageUp}
		case KeyPageDown:
			return Dispatch{Action: ActionScrollPageDown}
		}
		if key >= Key1 && key <= Key9 {
			return Dispatch{Action: ActionSwitchTab, TabArg: int(key - Key1)}
		}
	}

	if mods.has(ModCtrl) && key == KeyTab {
		if mods.has(ModShift) {
			return Dispatch{Action: ActionPrevTab}
		}
		return Dispatch{Action: ActionNextTab}
	}

	if key == KeyF11 {
		return Dispatch{Action: ActionToggleFullscreen}
	}

	if seq, ok := translateTerminalKey(key, mods); ok {
		return Dispatch{Action: ActionSendSequence, Bytes: seq}
	}

	return Dispatch{Action: ActionNone}
}

// translateTerminalKey produces the standard VT/xterm escape sequence for
// navigation keys and control-letter combinations, per spec §4.7's
// "Arrow/Home/End/Page-Up/Down and control-letter combinations translate
// to standard terminal sequences" note.
func translateTerminalKey(key Key, mods Modifiers) ([]byte, bool) {
	switch key {
	case KeyReturn, KeyKpEnter:
		return []byte{'\r'}, true
	case KeyEscape:
		return []byte{0x1b}, true
	case KeyBackspace:
		return []byte{0x7f}, true
	case KeyDelete:
		return []byte("\x1b[3~"), true
	case KeyTab:
		return []byte{'\t'}, true
	case KeyLeft:
		return []byte("\x1b[D"), true
	case KeyRight:
		return []byte("\x1b[C"), true
	case KeyUp:
		return []byte("\x1b[A"), true
	case KeyDown:
		return []byte("\x1b[B"), true
	case KeyHome:
		return []byte("\x1b[H"), true
	case KeyEnd:
		return []byte("\x1b[F"), true
	case KeyPageUp:
		return []byte("\x1b[5~"), true
	case KeyPageDown:
		return []byte("\x1b[6~"), true
	}

	// Ctrl+letter -> C0 control code. Only reached for the letters not
	// already claimed by a Ctrl+Shift chord above.
	if mods == ModCtrl {
		if ch, ok := ctrlLetterCode(key); ok {
			return []byte{ch}, true
		}
	}

	return nil, false
}

func ctrlLetterCode(key Key) (byte, bool) {
	switch key {
	case KeyC:
		return 0x03, true
	case KeyV:
		return 0x16, true
	}
	return 0, false
}
