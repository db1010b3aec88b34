// Package config holds the plain configuration surface the core reads.
// Parsing config files, theme files, and CLI flags is explicitly out of
// scope for the core (spec §1) — this package only carries the resolved
// values and their defaults, the way AppCoordinator expects to receive
// them.
package config

import "github.com/bloeys/gglm/gglm"

// CursorStyle is the shape the render pipeline draws for the terminal cursor.
type CursorStyle int

const (
	CursorStyleBlock CursorStyle = iota
	CursorStyleBlockHollow
	CursorStyleBar
	CursorStyleUnderline
)

// Shell identifies which shell AppCoordinator resolves and launches.
type Shell int

const (
	ShellCmd Shell = iota
	ShellPowershell
	ShellPwsh
	ShellWSL
	ShellPath
)

// Theme is the color shape consumed by the render pipeline (spec §6).
type Theme struct {
	Foreground          gglm.Vec3
	Background          gglm.Vec3
	CursorColor         gglm.Vec3
	CursorText          *gglm.Vec3 // nil falls back to Background
	SelectionBackground gglm.Vec3
	SelectionForeground *gglm.Vec3 // nil preserves the cell's own foreground
	Palette             [16]gglm.Vec3
}

// Config is the process-wide configuration consumed by AppCoordinator.
// Named keys and defaults match spec §6 exactly.
type Config struct {
	FontFamily       string // "" -> embedded fallback
	FontWeight       string // default "semi-bold"
	FontSize         float32
	CursorStyle      CursorStyle
	CursorBlink      bool
	Theme            Theme
	CustomShaderPath string // "" -> none
	WindowHeight     int    // in character rows
	WindowWidth      int    // in character columns
	ScrollbackLimit  int    // bytes
	ShellCommand     Shell
	ShellPath        string // only used when ShellCommand == ShellPath

	// ResolvedShellCommand is computed from ShellCommand/ShellPath once,
	// the exact string AppCoordinator stores per spec §3.
	ResolvedShellCommand string
}

// Default returns the configuration defaults enumerated in spec §6.
func Default() Config {
	return Config{
		FontFamily:       "",
		FontWeight:       "semi-bold",
		FontSize:         14,
		CursorStyle:      CursorStyleBlock,
		CursorBlink:      true,
		Theme:            DefaultTheme(),
		CustomShaderPath: "",
		WindowHeight:     28,
		WindowWidth:      110,
		ScrollbackLimit:  10_000_000,
		ShellCommand:     ShellCmd,
	}
}

// ResolveShellCommand computes the command line AppCoordinator stores
// and every spawned pty runs (spec §3's resolved_shell_command).
func ResolveShellCommand(shell Shell, shellPath string) string {
	switch shell {
	case ShellPowershell:
		return "powershell.exe"
	case ShellPwsh:
		return "pwsh.exe"
	case ShellWSL:
		return "wsl.exe"
	case ShellPath:
		return shellPath
	default:
		return "cmd.exe"
	}
}

// DefaultTheme is the built-in theme used when no theme file is loaded.
func DefaultTheme() Theme {
	return Theme{
		Foreground:          *gglm.NewVec3(0.92, 0.92, 0.92),
		Background:          *gglm.NewVec3(0.08, 0.08, 0.1),
		CursorColor:         *gglm.NewVec3(0.92, 0.92, 0.92),
		SelectionBackground: *gglm.NewVec3(0.25, 0.35, 0.55),
	}
}
