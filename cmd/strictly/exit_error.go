// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitOK means every selected target succeeded, was unchanged or skipped.
	ExitOK ExitCode = iota
	// ExitTargetFailed means at least one target failed.
	ExitTargetFailed
	// ExitUsage covers invalid arguments and settings.
	ExitUsage
	// ExitDirtyWorktree means the run was aborted on uncommitted changes.
	ExitDirtyWorktree
)

type (
	// ExitCode is the process exit status of a strictly run.
	ExitCode int

	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code ExitCode
		Err  error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
