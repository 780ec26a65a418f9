// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
)

type (
	// Theme represents the visual theme for prompts.
	Theme string

	// Config holds common configuration for prompts.
	Config struct {
		// Theme specifies the visual theme to use.
		Theme Theme
		// Accessible replaces the full-screen form with plain line-based prompts.
		Accessible bool
		// Input is where answers are read from.
		Input io.Reader
		// Output is where prompts are written.
		Output io.Writer
	}
)

// DefaultConfig returns the configuration for prompts on the process streams.
// Accessible mode is enabled when stdin is not a terminal or ACCESSIBLE is set,
// and prompts then go to stderr so they stay visible when stdout is redirected.
func DefaultConfig() Config {
	accessible := !IsInteractive(os.Stdin) || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}

	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Input:      os.Stdin,
		Output:     output,
	}
}

// IsInteractive reports whether r is a terminal a user can answer prompts on.
func IsInteractive(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (cfg Config) form(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(huhTheme(cfg.Theme)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(false)
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	if cfg.Output != nil {
		form = form.WithOutput(cfg.Output)
	}
	return form
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	default:
		return huh.ThemeBase()
	}
}
