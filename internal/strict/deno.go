// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

var (
	denoFiles = []string{"deno.json", "deno.jsonc"}

	// denoDefaultOn are on by default in Deno; an explicit false is removed.
	denoDefaultOn = []string{
		"strict",
		"alwaysStrict",
		"noImplicitAny",
		"noImplicitThis",
		"strictBindCallApply",
		"strictFunctionTypes",
		"strictNullChecks",
		"strictPropertyInitialization",
	}

	denoEnabled = []string{
		"exactOptionalPropertyTypes",
		"noFallthroughCasesInSwitch",
		"noImplicitOverride",
		"noImplicitReturns",
		"noUncheckedIndexedAccess",
		"useUnknownInCatchVariables",
	}

	denoLintRules = []string{
		"eqeqeq",
		"explicit-function-return-type",
		"no-non-null-assertion",
	}
)

// Deno enables strict compiler options and lint rules in deno.json.
type Deno struct{}

// Name implements Target.
func (Deno) Name() string { return "deno" }

// Title implements Target.
func (Deno) Title() string { return "Deno" }

// Enable implements Target.
func (t Deno) Enable(_ context.Context, env *Env) (Outcome, error) {
	f, err := env.load(denoFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no deno.json or deno.jsonc"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	e := newEditor(f)
	for _, name := range denoDefaultOn {
		p := confpath.New("compilerOptions", name)
		if v, ok := e.lookup(p); ok && v == false {
			e.delete(p)
		}
	}
	for _, name := range denoEnabled {
		e.set(confpath.New("compilerOptions", name), true)
	}

	e.appendUnique(confpath.New("lint", "rules", "tags"), "recommended")
	for _, rule := range denoLintRules {
		e.appendUnique(confpath.New("lint", "rules", "include"), rule)
	}

	return env.commit(t, e, Outcome{})
}
