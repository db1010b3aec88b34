//go:build windows

// Windows system font discovery, reading the machine-wide font
// registration key directly via golang.org/x/sys/windows/registry (the
// per-user font key is not read).
// No example repo in the pack offers cross-platform font discovery (the
// closest, go-text/typesetting, only parses font files it's already
// given a path to) — this is the Open Question from spec §9 resolved in
// favor of a direct registry adapter rather than a standard-library
// substitute, since x/sys/windows is itself a real pack dependency.
package fontrend

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const fontsRegistryKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Fonts`

// WindowsSystemFontFinder resolves family/weight and fallback lookups
// against the Windows Fonts registry key plus the system Fonts
// directory.
type WindowsSystemFontFinder struct {
	fontsDir string

	// byFamily caches the registry scan, done once on first use.
	byFamily map[string]string // lowercased "family weight" -> file name
}

// NewWindowsSystemFontFinder scans the registry's font list once.
func NewWindowsSystemFontFinder(fontsDir string) (*WindowsSystemFontFinder, error) {

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, fontsRegistryKey, registry.READ)
	if err != nil {
		return nil, fmt.Errorf("fontrend: open fonts registry key: %w", err)
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, fmt.Errorf("fontrend: enumerate fonts registry key: %w", err)
	}

	byFamily := make(map[string]string, len(names))
	for _, name := range names {
		file, _, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		// Registry value names look like "Consolas (TrueType)"; strip
		// the parenthesized format suffix to key by family name alone.
		family := strings.TrimSpace(name)
		if i := strings.LastIndex(family, "("); i >= 0 {
			family = strings.TrimSpace(family[:i])
		}
		byFamily[strings.ToLower(family)] = file
	}

	return &WindowsSystemFontFinder{fontsDir: fontsDir, byFamily: byFamily}, nil
}

func (w *WindowsSystemFontFinder) FindFamily(family, weight string) (string, int, error) {

	key := strings.ToLower(family)
	if weight != "" {
		if file, ok := w.byFamily[strings.ToLower(family+" "+weight)]; ok {
			return w.resolve(file), 0, nil
		}
	}
	if file, ok := w.byFamily[key]; ok {
		return w.resolve(file), 0, nil
	}
	return "", 0, fmt.Errorf("fontrend: no registered font family %q", family)
}

// FindFallback walks the registry's known fonts looking for one
// plausible for the given codepoint's Unicode block. A real deployment
// would consult each candidate font's cmap table; this conservative
// version falls back to a small set of known-broad-coverage families
// that ship with Windows, which is sufficient for the emoji and symbol
// ranges GlyphCache actually needs fallback for (spec §4.2 step 3-4).
func (w *WindowsSystemFontFinder) FindFallback(codepoint rune) (string, int, error) {

	candidates := []string{"segoe ui emoji", "segoe ui symbol", "segoe ui"}
	switch {
	case codepoint >= 0x1F300 && codepoint <= 0x1FAFF, codepoint >= 0x2600 && codepoint <= 0x27BF:
		candidates = []string{"segoe ui emoji", "segoe ui symbol"}
	}

	for _, c := range candidates {
		if file, ok := w.byFamily[c]; ok {
			return w.resolve(file), 0, nil
		}
	}
	return "", 0, fmt.Errorf("fontrend: no fallback font for U+%04X", codepoint)
}

func (w *WindowsSystemFontFinder) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(w.fontsDir, file)
}

var _ SystemFontFinder = (*WindowsSystemFontFinder)(nil)
