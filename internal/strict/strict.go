// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/internal/npm"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

const (
	// StatusApplied means the target's config file was rewritten.
	StatusApplied Status = iota + 1
	// StatusUnchanged means the config file already had every strict setting.
	StatusUnchanged
	// StatusSkipped means the tool is not used by the project.
	StatusSkipped
	// StatusFailed means the target returned an error.
	StatusFailed
)

const (
	// OpSet writes a value.
	OpSet Op = iota + 1
	// OpDelete removes a value.
	OpDelete
	// OpAppend adds an element to an array.
	OpAppend
)

const (
	// NoteInfo is an informational note.
	NoteInfo NoteLevel = iota + 1
	// NoteWarning asks the user to act.
	NoteWarning
)

var (
	// ErrUnknownTarget is returned when a target name is not registered.
	ErrUnknownTarget = errors.New("unknown target")

	registry []Target
)

type (
	// Target enables strict mode for one tool.
	Target interface {
		// Name is the identifier used on the command line and in settings.
		Name() string
		// Title is the human readable tool name.
		Title() string
		// Enable rewrites the tool's configuration in env.Dir.
		Enable(ctx context.Context, env *Env) (Outcome, error)
	}

	// Describer is implemented by targets that can document their settings as Markdown.
	Describer interface {
		Describe() string
	}

	// WriteFunc persists the new content of a config file. before is nil for new files.
	WriteFunc func(name string, before, after []byte) error

	// Env is the context a target runs in.
	Env struct {
		// Dir is the project directory.
		Dir string
		// Log receives progress and warnings.
		Log *log.Logger
		// DryRun is set when files must not be written.
		DryRun bool
		// Write persists changed files.
		Write WriteFunc
		// Deps resolves the project's npm dependencies.
		Deps *npm.Project
	}

	// EnvOption configures an Env.
	EnvOption func(*Env)

	// Status is the result kind of a target run.
	Status int

	// Op is the kind of a recorded change.
	Op int

	// NoteLevel is the severity of a note.
	NoteLevel int

	// Change is one edit applied to a config file.
	Change struct {
		Path  confpath.Path
		Op    Op
		Value any
	}

	// Note is a message for the user attached to an outcome.
	Note struct {
		Level NoteLevel
		Text  string
	}

	// Outcome is the result of running one target.
	Outcome struct {
		Target  string
		Status  Status
		File    string
		Changes []Change
		Notes   []Note
		Err     error
	}

	// UnknownTargetError reports a target name that is not registered.
	// It wraps ErrUnknownTarget for errors.Is() compatibility.
	UnknownTargetError struct {
		Name  string
		Known []string
	}
)

// Register adds a target to the registry. Targets run in registration order.
func Register(t Target) {
	if _, err := Lookup(t.Name()); err == nil {
		panic(fmt.Sprintf("strict: target %q registered twice", t.Name()))
	}
	registry = append(registry, t)
}

// All returns the registered targets in execution order.
func All() []Target {
	return slices.Clone(registry)
}

// Names returns the registered target names in execution order.
func Names() []string {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = t.Name()
	}
	return names
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, error) {
	for _, t := range registry {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, &UnknownTargetError{Name: name, Known: Names()}
}

// Select returns the targets named in include (all when empty) minus those in exclude,
// in execution order.
func Select(include, exclude []string) ([]Target, error) {
	for _, name := range slices.Concat(include, exclude) {
		if _, err := Lookup(name); err != nil {
			return nil, err
		}
	}
	var out []Target
	for _, t := range registry {
		if len(include) > 0 && !slices.Contains(include, t.Name()) {
			continue
		}
		if slices.Contains(exclude, t.Name()) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns ErrUnknownTarget.
func (e *UnknownTargetError) Unwrap() error {
	return ErrUnknownTarget
}

// NewEnv returns an Env for dir that writes files to disk.
func NewEnv(dir string, opts ...EnvOption) *Env {
	env := &Env{
		Dir:   dir,
		Log:   log.New(io.Discard),
		Write: writeToDisk(dir),
		Deps:  npm.NewProject(dir),
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) EnvOption {
	return func(e *Env) {
		e.Log = l
	}
}

// WithDryRun prints unified diffs to w instead of writing files.
func WithDryRun(w io.Writer) EnvOption {
	return func(e *Env) {
		e.DryRun = true
		e.Write = DiffWriter(w)
	}
}

// WithWriter replaces the function used to persist files.
func WithWriter(fn WriteFunc) EnvOption {
	return func(e *Env) {
		e.Write = fn
	}
}

// DiffWriter returns a WriteFunc that prints a unified diff for each file.
func DiffWriter(w io.Writer) WriteFunc {
	return func(name string, before, after []byte) error {
		diff, err := document.Diff(name, before, after)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, diff)
		return err
	}
}

func writeToDisk(dir string) WriteFunc {
	return func(name string, _, after []byte) error {
		return document.WriteFile(filepath.Join(dir, name), after)
	}
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpDelete:
		return "delete"
	case OpAppend:
		return "append"
	default:
		return "unknown"
	}
}

// String renders the change for summaries.
func (c Change) String() string {
	switch c.Op {
	case OpDelete:
		return "- " + c.Path.String()
	case OpAppend:
		return fmt.Sprintf("+ %s += %s", c.Path, formatValue(c.Value))
	default:
		return fmt.Sprintf("~ %s = %s", c.Path, formatValue(c.Value))
	}
}

// Warnings returns the warning notes of the outcome.
func (o Outcome) Warnings() []Note {
	var out []Note
	for _, n := range o.Notes {
		if n.Level == NoteWarning {
			out = append(out, n)
		}
	}
	return out
}

// skipped builds a skipped outcome and logs why.
func (e *Env) skipped(t Target, reason string) Outcome {
	e.Log.Info("skipping "+t.Title(), "reason", reason)
	return Outcome{Target: t.Name(), Status: StatusSkipped, Notes: []Note{{Level: NoteInfo, Text: reason}}}
}

// warn logs a warning and records it on the outcome.
func (e *Env) warn(out *Outcome, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.Log.Warn(msg)
	out.Notes = append(out.Notes, Note{Level: NoteWarning, Text: msg})
}
