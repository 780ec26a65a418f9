// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strictly-typed/strictly/internal/config"
	"github.com/strictly-typed/strictly/internal/strict"
)

// newConfigCommand creates the `strictly config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage strictly settings",
		Long: `Manage strictly settings.

Settings are read from the first file found of:
  - the file passed with --config
  - ./strictly.cue
  - Linux: ~/.config/strictly/config.cue
  - macOS: ~/Library/Application Support/strictly/config.cue
  - Windows: %APPDATA%\strictly\config.cue

Environment variables override file values, e.g. STRICTLY_GIT_CHECK=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the settings file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with the defaults (--force overwrites)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, local, app.opts.force)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "create ./strictly.cue instead of the user settings file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective settings as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := app.loadConfig(cmd.Context(), ".")
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			_, err = io.WriteString(app.stdout, config.GenerateCUE(loaded.Config))
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	loaded, err := app.loadConfig(ctx, ".")
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	cfg := loaded.Config
	w := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	_, _ = fmt.Fprintln(w, TitleStyle.Render("Current Settings"))
	_, _ = fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Path != "" {
		source = loaded.Path
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n\n", keyStyle.Render("Settings file"), source)

	targets := SubtitleStyle.Render("(all)")
	if len(cfg.Targets) > 0 {
		targets = valueStyle.Render(strings.Join(cfg.Targets, ", "))
	}
	skip := SubtitleStyle.Render("(none)")
	if len(cfg.Skip) > 0 {
		skip = valueStyle.Render(strings.Join(cfg.Skip, ", "))
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("targets"), targets)
	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("skip"), skip)
	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("git_check"), valueStyle.Render(fmt.Sprint(cfg.GitCheck)))
	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("include_untracked"), valueStyle.Render(fmt.Sprint(cfg.IncludeUntracked)))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	_, _ = fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	_, _ = fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("available targets"), SubtitleStyle.Render(strings.Join(strict.Names(), ", ")))
	return nil
}

func showConfigPath(app *App) error {
	path, err := config.Resolve(config.LoadOptions{ConfigFilePath: app.opts.configPath})
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	if path != "" {
		_, _ = fmt.Fprintln(app.stdout, path)
		return nil
	}

	global, err := config.GlobalConfigPath()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", global, SubtitleStyle.Render("(not created, using defaults)"))
	return nil
}

func initConfig(app *App, local, force bool) error {
	path := config.LocalConfigFile
	if !local {
		var err error
		if path, err = config.GlobalConfigPath(); err != nil {
			return err
		}
	}

	if force {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.GenerateCUE(config.DefaultConfig())), 0o644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Wrote"), path)
		return nil
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return err
	}
	if !created {
		_, _ = fmt.Fprintf(app.stdout, "%s %s %s\n", WarningStyle.Render("Exists"), path, SubtitleStyle.Render("(use --force to overwrite)"))
		return nil
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
	return nil
}
