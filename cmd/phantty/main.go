//go:build windows

package main

import (
	"os"
	"runtime"

	"github.com/bloeys/nmage/engine"
	"github.com/rs/zerolog"
	"github.com/veandco/go-sdl2/sdl"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/phantty/phantty/internal/app"
	"github.com/phantty/phantty/internal/config"
	"github.com/phantty/phantty/internal/fontrend"
	"github.com/phantty/phantty/internal/platform/clipboard"
	"github.com/phantty/phantty/internal/platform/winstate"
	"github.com/phantty/phantty/internal/pty"
	"github.com/phantty/phantty/internal/term"
	"github.com/phantty/phantty/internal/term/headless"
	"github.com/phantty/phantty/internal/window"
)

const windowStatePath = "./phantty-window-state"

func init() {
	// The first window's GL context and SDL event pump live on the
	// process's main thread.
	runtime.LockOSThread()
}

func main() {

	log := newLogger()

	if err := engine.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to init engine")
	}

	cfg := config.Default()
	cfg.ResolvedShellCommand = config.ResolveShellCommand(cfg.ShellCommand, cfg.ShellPath)

	finder, err := fontrend.NewWindowsSystemFontFinder("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open system font registry")
	}

	shaper := fontrend.NewHarfbuzzShaper()

	factory := func(coord window.Coordinator, x, y int32, cwd string) (app.WindowHandle, error) {
		return window.New(window.Options{
			Config:      cfg,
			Log:         log,
			Spawner:     pty.WindowsSpawner{},
			NewTerminal: newTerminal,
			Rasterizer:  fontrend.FreeTypeRasterizer{},
			Shaper:      shaper,
			FontFinder:  finder,
			Clipboard:   clipboard.System{},
			Coordinator: coord,
			X:           x,
			Y:           y,
			InitialCwd:  cwd,
			SaveState: func(x, y int32) {
				winstate.Save(windowStatePath, winstate.State{X: x, Y: y})
			},
		})
	}

	coordinator := app.New(cfg, log, factory, nil)

	x, y := int32(-1), int32(-1)
	if s, ok := winstate.Load(windowStatePath); ok && winstate.Restorable(s, displayBounds()) {
		x, y = s.X, s.Y
	}

	if err := coordinator.Run(x, y, ""); err != nil {
		log.Fatal().Err(err).Msg("cannot open any window")
	}
}

// displayBounds enumerates visible monitor rectangles so a persisted
// window position from a since-disconnected display is discarded.
func displayBounds() []winstate.Rect {

	n, err := sdl.GetNumVideoDisplays()
	if err != nil {
		return nil
	}

	rects := make([]winstate.Rect, 0, n)
	for i := 0; i < n; i++ {
		r, err := sdl.GetDisplayBounds(i)
		if err != nil {
			continue
		}
		rects = append(rects, winstate.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H})
	}
	return rects
}

func newTerminal(cols, rows, scrollbackLimit int) term.Terminal {
	return headless.New(cols, rows, scrollbackLimit)
}

// newLogger writes structured logs through a size-rotated file plus a
// console stream while developing.
func newLogger() zerolog.Logger {

	fileWriter := &lumberjack.Logger{
		Filename:   "./logs/phantty.log",
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}

	writer := zerolog.MultiLevelWriter(fileWriter, zerolog.ConsoleWriter{Out: os.Stderr})
	return zerolog.New(writer).With().Timestamp().Logger()
}
