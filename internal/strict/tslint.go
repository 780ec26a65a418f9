// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

const typedefCallSignature = "call-signature"

var tslintFiles = []string{"tslint.json", "tslint.yaml", "tslint.yml"}

// TSLint forbids any and requires return types on functions.
type TSLint struct{}

// Name implements Target.
func (TSLint) Name() string { return "tslint" }

// Title implements Target.
func (TSLint) Title() string { return "TSLint" }

// Enable implements Target.
func (t TSLint) Enable(_ context.Context, env *Env) (Outcome, error) {
	f, err := env.load(tslintFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no tslint.json or tslint.yaml"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	e := newEditor(f, "rules")
	e.set(confpath.New("no-any"), true)

	typedef := confpath.New("typedef")
	if cur, ok := e.lookup(typedef); ok {
		if _, isArray := cur.([]any); isArray {
			e.appendUnique(typedef, typedefCallSignature)
			return env.commit(t, e, Outcome{})
		}
	}
	e.set(typedef, []any{true, typedefCallSignature})

	return env.commit(t, e, Outcome{})
}
