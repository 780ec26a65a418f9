// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

// BiomePackage is the npm package of the Biome toolchain.
const BiomePackage = "@biomejs/biome"

var biomeFiles = []string{"biome.jsonc", "biome.json"}

type (
	// Biome enables strict lint rules in biome.json.
	Biome struct{}

	// biomeRule is a Biome lint rule with the release that introduced it.
	biomeRule struct {
		Name        string
		Group       string
		MinVersion  string
		Recommended bool
	}
)

var biomeRules = []biomeRule{
	{Name: "noDoubleEquals", Group: "suspicious", MinVersion: "1.0.0", Recommended: true},
	{Name: "noExplicitAny", Group: "suspicious", MinVersion: "1.0.0", Recommended: true},
	{Name: "noImplicitAnyLet", Group: "suspicious", MinVersion: "1.4.0", Recommended: true},
	{Name: "noNonNullAssertion", Group: "style", MinVersion: "1.0.0", Recommended: true},
	{Name: "useArrowFunction", Group: "complexity", MinVersion: "1.0.0", Recommended: true},
	{Name: "useForOf", Group: "style", MinVersion: "1.5.0"},
	{Name: "useOptionalChain", Group: "complexity", MinVersion: "1.0.0", Recommended: true},
	{Name: "useTemplate", Group: "style", MinVersion: "1.0.0", Recommended: true},
}

// Name implements Target.
func (Biome) Name() string { return "biome" }

// Title implements Target.
func (Biome) Title() string { return "Biome" }

// Enable implements Target.
func (t Biome) Enable(_ context.Context, env *Env) (Outcome, error) {
	f, err := env.load(biomeFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no biome.jsonc or biome.json"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	e := newEditor(f, "linter", "rules")
	var out Outcome

	// Recommended rules are already errors unless the preset is off or another
	// config is extended.
	recommended, _ := e.lookup(confpath.New("recommended"))
	_, extends := f.Doc.Lookup(confpath.New("extends"))
	presetActive := recommended == true && !extends

	for _, r := range biomeRules {
		if !env.Deps.Satisfies(BiomePackage, ">="+r.MinVersion) {
			env.warn(&out, "Biome rule %q was not added because it requires %s >= %s", r.Name, BiomePackage, r.MinVersion)
			continue
		}
		if r.Recommended && presetActive {
			continue
		}
		e.set(confpath.New(r.Group, r.Name), "error")
	}

	return env.commit(t, e, out)
}
