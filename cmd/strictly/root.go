// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/strictly-typed/strictly/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with the code of the run.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(app.handleError),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(ExitUsage))
	}
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "strictly [dir]",
		Short: "Turn on strict mode in TypeScript, linter and framework configs",
		Long: TitleStyle.Render("strictly") + SubtitleStyle.Render(" - strict mode for your TypeScript toolchain") + `

strictly finds the configuration files of the tools in a project and rewrites
them in place with their strictest settings, keeping comments, formatting and
everything it does not need to touch.

Supported tools: TypeScript, Angular, ESLint (flat and legacy configs), Biome,
Deno and TSLint. Options are only added when the installed version supports them.

` + SubtitleStyle.Render("Examples:") + `
  strictly                     Enable every target in the current directory
  strictly ./web --dry-run     Show the changes for ./web without writing
  strictly enable eslint       Only update the ESLint config
  strictly list --details      Show what each target changes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return app.run(cmd.Context(), dir, nil)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&app.opts.configPath, "config", "", "settings file (default ./strictly.cue, then the user config directory)")
	flags.BoolVar(&app.opts.dryRun, "dry-run", false, "print unified diffs instead of writing files")
	flags.BoolVarP(&app.opts.force, "force", "f", false, "skip the uncommitted changes check")
	flags.BoolVarP(&app.opts.yes, "yes", "y", false, "never prompt, continue on uncommitted changes")

	root.SetIn(app.stdin)
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.AddCommand(newEnableCommand(app))
	root.AddCommand(newListCommand(app))
	root.AddCommand(newConfigCommand(app))

	return root
}

// handleError prints errors returned from RunE. Actionable errors get their
// suggestions and, when a catalog entry is attached, its rendered guidance.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	_, _ = fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.opts.verbose))
	if guide := issue.GuideFor(err); guide != nil {
		rendered, renderErr := guide.Render(a.colorScheme.GlamourStyle())
		if renderErr == nil {
			_, _ = fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
