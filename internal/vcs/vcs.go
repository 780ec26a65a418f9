// SPDX-License-Identifier: MPL-2.0

// Package vcs checks whether a project's git working tree has uncommitted changes.
package vcs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when the directory is not inside a git repository.
var ErrNotRepository = errors.New("not a git repository")

// Changes lists the paths with uncommitted changes in the repository containing dir.
// Untracked files are reported only when includeUntracked is set.
func Changes(dir string, includeUntracked bool) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return nil, fmt.Errorf("%s: bare repository: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("read worktree status: %w", err)
	}

	var paths []string
	for path, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		if !includeUntracked && fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths, nil
}

// Dirty reports whether the repository containing dir has uncommitted changes.
func Dirty(dir string, includeUntracked bool) (bool, error) {
	paths, err := Changes(dir, includeUntracked)
	if err != nil {
		return false, err
	}
	return len(paths) > 0, nil
}
