// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strictly-typed/strictly/internal/vcs"
)

// ErrDirtyWorktree is returned when the project has uncommitted changes.
var ErrDirtyWorktree = errors.New("worktree has uncommitted changes")

type (
	// Report collects the outcomes of a run in execution order.
	Report struct {
		Outcomes []Outcome
	}

	// DirtyWorktreeError lists the uncommitted paths found before a run.
	// It wraps ErrDirtyWorktree for errors.Is() compatibility.
	DirtyWorktreeError struct {
		Dir   string
		Paths []string
	}
)

// Error implements the error interface.
func (e *DirtyWorktreeError) Error() string {
	return fmt.Sprintf("%s has uncommitted changes: %s", e.Dir, strings.Join(e.Paths, ", "))
}

// Unwrap returns ErrDirtyWorktree.
func (e *DirtyWorktreeError) Unwrap() error {
	return ErrDirtyWorktree
}

// CheckWorktree returns a *DirtyWorktreeError when dir is inside a git repository with
// uncommitted changes. Directories outside a repository pass.
func CheckWorktree(dir string, includeUntracked bool) error {
	paths, err := vcs.Changes(dir, includeUntracked)
	if errors.Is(err, vcs.ErrNotRepository) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check git status: %w", err)
	}
	if len(paths) > 0 {
		return &DirtyWorktreeError{Dir: dir, Paths: paths}
	}
	return nil
}

// Run enables each target in order. A failing target is recorded and the run goes on.
// Cancelling ctx stops before the next target.
func Run(ctx context.Context, env *Env, targets []Target) *Report {
	report := &Report{}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Target: t.Name(), Status: StatusFailed, Err: err})
			continue
		}

		env.Log.Debug("running target", "target", t.Name())
		out, err := t.Enable(ctx, env)
		if out.Target == "" {
			out.Target = t.Name()
		}
		if err != nil {
			out.Status = StatusFailed
			out.Err = err
			env.Log.Error(t.Title()+" failed", "err", err)
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report
}

// Failed returns the outcomes of targets that failed.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
