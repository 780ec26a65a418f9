// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

// TypeScriptPackage is the npm package of the TypeScript compiler.
const TypeScriptPackage = "typescript"

// tsconfigFiles are tried in order; a shared base config wins over the project one.
var tsconfigFiles = []string{"tsconfig.base.json", "tsconfig.json"}

type (
	// TypeScript enables strict compiler options in tsconfig.json.
	TypeScript struct{}

	// compilerOption is a boolean compiler option gated on a TypeScript version.
	compilerOption struct {
		Name       string
		MinVersion string
	}
)

// strictCompilerOptions are turned on in addition to "strict".
var strictCompilerOptions = []compilerOption{
	{Name: "exactOptionalPropertyTypes", MinVersion: "4.4.0"},
	{Name: "noFallthroughCasesInSwitch"},
	{Name: "noImplicitOverride", MinVersion: "4.3.0"},
	{Name: "noImplicitReturns"},
	{Name: "noPropertyAccessFromIndexSignature", MinVersion: "4.2.0"},
	{Name: "noUncheckedIndexedAccess", MinVersion: "5.0.0"},
}

// impliedByStrict are removed so that "strict" alone controls them.
var impliedByStrict = []string{
	"alwaysStrict",
	"noImplicitAny",
	"noImplicitThis",
	"strictBindCallApply",
	"strictFunctionTypes",
	"strictNullChecks",
	"strictPropertyInitialization",
	"useUnknownInCatchVariables",
}

// Name implements Target.
func (TypeScript) Name() string { return "typescript" }

// Title implements Target.
func (TypeScript) Title() string { return "TypeScript" }

// Enable implements Target.
func (t TypeScript) Enable(_ context.Context, env *Env) (Outcome, error) {
	f, err := env.load(tsconfigFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no tsconfig.base.json or tsconfig.json"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	e := newEditor(f, "compilerOptions")
	e.set(confpath.New("strict"), true)

	for _, opt := range strictCompilerOptions {
		if opt.MinVersion == "" || env.Deps.Satisfies(TypeScriptPackage, ">="+opt.MinVersion) {
			e.set(confpath.New(opt.Name), true)
		}
	}
	for _, name := range impliedByStrict {
		e.delete(confpath.New(name))
	}

	return env.commit(t, e, Outcome{})
}
