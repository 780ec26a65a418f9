// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

const (
	angularCorePackage     = "@angular/core"
	angularCompilerPackage = "@angular/compiler"
)

var (
	angularWorkspaceFiles = []string{"angular.json", ".angular.json"}

	angularCompilerOptions = []compilerOption{
		{Name: "strictInjectionParameters"},
		{Name: "strictTemplates"},
		{Name: "strictInputAccessModifiers"},
		{Name: "typeCheckHostBindings", MinVersion: "20.0.0"},
	}
)

// Angular enables strict template and injection checks in angularCompilerOptions.
type Angular struct{}

// Name implements Target.
func (Angular) Name() string { return "angular" }

// Title implements Target.
func (Angular) Title() string { return "Angular" }

// Enable implements Target.
func (t Angular) Enable(_ context.Context, env *Env) (Outcome, error) {
	if _, err := document.Find(env.Dir, angularWorkspaceFiles...); err != nil && !env.Deps.Exists(angularCorePackage) {
		return env.skipped(t, "not an Angular project"), nil
	}

	f, err := env.load(tsconfigFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no tsconfig.base.json or tsconfig.json"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	e := newEditor(f, "angularCompilerOptions")
	for _, opt := range angularCompilerOptions {
		if opt.MinVersion == "" || env.Deps.Satisfies(angularCompilerPackage, ">="+opt.MinVersion) {
			e.set(confpath.New(opt.Name), true)
		}
	}
	return env.commit(t, e, Outcome{})
}
