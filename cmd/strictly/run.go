// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/strictly-typed/strictly/internal/config"
	"github.com/strictly-typed/strictly/internal/issue"
	"github.com/strictly-typed/strictly/internal/strict"
	"github.com/strictly-typed/strictly/internal/tui"
)

// run enables the selected targets in dir. Explicit names replace the targets
// from the settings file; the skip list only applies to configured runs.
func (a *App) run(ctx context.Context, dir string, names []string) error {
	abs, err := projectDir(dir)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	loaded, err := a.loadConfig(ctx, abs)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	cfg := loaded.Config
	a.colorScheme = cfg.UI.ColorScheme

	logger := a.newLogger(a.opts.verbose || cfg.UI.Verbose)
	if loaded.Path != "" {
		logger.Debug("loaded settings", "file", loaded.Path)
	}

	targets, err := a.selectTargets(cfg, names)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	if err := a.checkWorktree(ctx, abs, cfg, logger); err != nil {
		return err
	}

	opts := []strict.EnvOption{strict.WithLogger(logger)}
	if a.opts.dryRun {
		opts = append(opts, strict.WithDryRun(a.stdout))
	}
	report := strict.Run(ctx, strict.NewEnv(abs, opts...), targets)

	renderReport(a.stdout, report, a.opts.verbose || cfg.UI.Verbose)

	if failed := report.Failed(); len(failed) > 0 {
		return &ExitError{
			Code: ExitTargetFailed,
			Err:  fmt.Errorf("%d of %d targets failed", len(failed), len(report.Outcomes)),
		}
	}
	if report.Count(strict.StatusSkipped) == len(report.Outcomes) {
		logger.Warn("no configuration files found", "dir", abs)
	}
	return nil
}

func (a *App) selectTargets(cfg *config.Config, names []string) ([]strict.Target, error) {
	include, exclude := cfg.Targets, cfg.Skip
	if len(names) > 0 {
		include, exclude = names, nil
	}

	targets, err := strict.Select(include, exclude)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select targets").
			WithIssue(issue.UnknownTargetId).
			WithSuggestion("Run 'strictly list' to see the available targets").
			Wrap(err).
			BuildError()
	}
	return targets, nil
}

// checkWorktree refuses to touch a repository with uncommitted changes unless the
// user agrees. Dry runs write nothing and skip the check.
func (a *App) checkWorktree(ctx context.Context, dir string, cfg *config.Config, logger *log.Logger) error {
	if !cfg.GitCheck || a.opts.force || a.opts.dryRun {
		return nil
	}

	err := strict.CheckWorktree(dir, cfg.IncludeUntracked)
	var dirty *strict.DirtyWorktreeError
	switch {
	case err == nil:
		return nil
	case !errors.As(err, &dirty):
		return &ExitError{Code: ExitTargetFailed, Err: issue.WrapWithContext(err, "check git status", dir)}
	case a.opts.yes:
		logger.Warn("continuing with uncommitted changes", "files", len(dirty.Paths))
		return nil
	}

	if a.Interactive() {
		ok, promptErr := a.Confirm(ctx, tui.ConfirmOptions{
			Title:       "Continue with uncommitted changes?",
			Description: summarizePaths(dirty.Paths),
			Config:      a.promptConfig(),
		})
		if promptErr != nil && !errors.Is(promptErr, tui.ErrCancelled) {
			return &ExitError{Code: ExitUsage, Err: promptErr}
		}
		if ok {
			return nil
		}
	}

	return &ExitError{
		Code: ExitDirtyWorktree,
		Err: issue.NewErrorContext().
			WithOperation("check git status").
			WithResource(dir).
			WithIssue(issue.DirtyWorktreeId).
			WithSuggestion("Commit or stash your changes first").
			WithSuggestion("Pass --yes to continue anyway, or --force to skip the check").
			Wrap(err).
			BuildError(),
	}
}

func projectDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", issue.WrapWithContext(err, "open project directory", dir)
	}
	if !info.IsDir() {
		return "", issue.WrapWithContext(errors.New("not a directory"), "open project directory", dir)
	}
	return abs, nil
}

// summarizePaths lists at most five paths.
func summarizePaths(paths []string) string {
	const limit = 5
	if len(paths) <= limit {
		return strings.Join(paths, "\n")
	}
	return strings.Join(paths[:limit], "\n") + fmt.Sprintf("\n… and %d more", len(paths)-limit)
}
