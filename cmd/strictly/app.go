// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/strictly-typed/strictly/internal/config"
	"github.com/strictly-typed/strictly/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and reaches settings, prompts
	// and output streams through it.
	App struct {
		Config  config.Provider
		Confirm ConfirmFunc
		// Interactive reports whether prompts can be shown on stdin.
		Interactive func() bool

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		opts rootOptions
		// colorScheme is the glamour style, updated once settings are loaded.
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		Confirm     ConfirmFunc
		Interactive func() bool
		Stdin       io.Reader
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfirmFunc asks the user a yes/no question.
	ConfirmFunc func(ctx context.Context, opts tui.ConfirmOptions) (bool, error)

	// rootOptions holds the global flags.
	rootOptions struct {
		verbose    bool
		configPath string
		dryRun     bool
		force      bool
		yes        bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Confirm == nil {
		deps.Confirm = tui.Confirm
	}
	if deps.Interactive == nil {
		stdin := deps.Stdin
		deps.Interactive = func() bool { return tui.IsInteractive(stdin) }
	}

	return &App{
		Config:      deps.Config,
		Confirm:     deps.Confirm,
		Interactive: deps.Interactive,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		colorScheme: config.ColorSchemeAuto,
	}
}

// loadConfig loads settings for a project directory, honoring --config.
func (a *App) loadConfig(ctx context.Context, dir string) (*config.Loaded, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.opts.configPath,
		BaseDir:        dir,
	})
}

// newLogger creates the leveled stderr logger passed to targets.
func (a *App) newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix:          "strictly",
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// promptConfig returns the prompt configuration bound to the App streams.
func (a *App) promptConfig() tui.Config {
	cfg := tui.DefaultConfig()
	cfg.Input = a.stdin
	cfg.Output = a.stderr
	return cfg
}
