// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/internal/jsmodule"
	"github.com/strictly-typed/strictly/internal/npm"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

const (
	noExplicitAnyRule = "@typescript-eslint/no-explicit-any"
	angularNoAnyRule  = "@angular-eslint/template/no-any"

	flatFallbackFile   = "eslint.config.json"
	scriptFallbackFile = ".eslintrc.json"
	packageConfigKey   = "eslintConfig"
)

var (
	flatConfigFiles = []string{"eslint.config.mjs", "eslint.config.js", "eslint.config.cjs"}
	scriptConfigs   = []string{".eslintrc.js", ".eslintrc.cjs"}

	eslintFiles = []string{
		"eslint.config.js",
		"eslint.config.mjs",
		"eslint.config.cjs",
		".eslintrc.js",
		".eslintrc.cjs",
		".eslintrc.yaml",
		".eslintrc.yml",
		".eslintrc.json",
		".eslintrc",
		npm.ManifestFile,
	}

	// TypeScriptESLintPackages provide the @typescript-eslint rules.
	TypeScriptESLintPackages = []string{"@typescript-eslint/eslint-plugin", "typescript-eslint"}

	angularESLintPackages = []string{"angular-eslint", "@angular-eslint/eslint-plugin", "@angular-eslint/builder"}

	// Sample paths an override's files pattern is matched against.
	typescriptSamples = []string{"main.ts", "src/app/main.ts"}
	htmlSamples       = []string{"index.html", "src/app/app.component.html"}
)

type (
	// ESLint enables strict core and @typescript-eslint rules.
	ESLint struct{}

	eslintRule struct {
		Name  string
		Value any
		// MinVersion gates the rule on the @typescript-eslint plugin version.
		MinVersion string
		// LegacyOnly rules are not written to flat configs.
		LegacyOnly bool
	}
)

var eslintRules = []eslintRule{
	{Name: "eqeqeq", Value: "error"},
	{Name: "prefer-arrow-callback", Value: "error"},
	{Name: "prefer-template", Value: "error"},
	{Name: "@typescript-eslint/explicit-function-return-type", Value: "error", LegacyOnly: true},
	{Name: noExplicitAnyRule, Value: "error"},
	{Name: "@typescript-eslint/no-non-null-assertion", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-argument", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-assignment", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-call", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-member-access", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-return", Value: "error"},
	{Name: "@typescript-eslint/no-unsafe-type-assertion", Value: "error", MinVersion: "8.15.0"},
	{Name: "@typescript-eslint/prefer-for-of", Value: "error"},
	{Name: "@typescript-eslint/prefer-nullish-coalescing", Value: "error"},
	{Name: "@typescript-eslint/prefer-optional-chain", Value: "error"},
	{Name: "@typescript-eslint/restrict-plus-operands", Value: []any{"error", map[string]any{
		"allowAny":             false,
		"allowBoolean":         false,
		"allowNullish":         false,
		"allowNumberAndString": false,
		"allowRegExp":          false,
	}}},
	{Name: "@typescript-eslint/restrict-template-expressions", Value: "error"},
	{Name: "@typescript-eslint/strict-boolean-expressions", Value: []any{"error", map[string]any{
		"allowNumber": false,
		"allowString": false,
	}}},
	{Name: "@typescript-eslint/strict-void-return", Value: "error", MinVersion: "8.53.0"},
	{Name: "@typescript-eslint/use-unknown-in-catch-callback-variable", Value: "error"},
}

// Name implements Target.
func (ESLint) Name() string { return "eslint" }

// Title implements Target.
func (ESLint) Title() string { return "ESLint" }

// Enable implements Target. JavaScript flat configs are edited in place when their
// shape allows it; every other format goes through the JSON/YAML editors.
func (t ESLint) Enable(ctx context.Context, env *Env) (Outcome, error) {
	var out Outcome

	if name, err := document.Find(env.Dir, flatConfigFiles...); err == nil {
		src, err := os.ReadFile(filepath.Join(env.Dir, name))
		if err != nil {
			return Outcome{Target: t.Name(), Status: StatusFailed}, err
		}
		cfg, err := jsmodule.ParseFlatConfig(ctx, src)
		if err == nil {
			return t.enableFlat(env, name, src, cfg)
		}
		env.Log.Debug("flat config not editable", "file", name, "err", err)
		env.warn(&out, "Could not handle %s, falling back to JSON solution.", name)
	}

	name, err := document.Find(env.Dir, eslintFiles...)
	if errors.Is(err, document.ErrNotFound) {
		return env.skipped(t, "no ESLint config file"), nil
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed}, err
	}

	var (
		f      *document.File
		prefix []any
	)
	switch {
	case slices.Contains(flatConfigFiles, name):
		f, err = t.flatFallback(env, name, &out)
	case slices.Contains(scriptConfigs, name):
		f, err = t.scriptFallback(ctx, env, name, &out)
	case name == npm.ManifestFile:
		f, err = document.Load(env.Dir, name)
		if err == nil {
			v, _ := f.Doc.Lookup(confpath.New(packageConfigKey))
			if _, ok := v.(map[string]any); !ok {
				return env.skipped(t, "package.json has no eslintConfig"), nil
			}
		}
		prefix = []any{packageConfigKey}
	default:
		f, err = document.Load(env.Dir, name)
	}
	if err != nil {
		return Outcome{Target: t.Name(), Status: StatusFailed, Notes: out.Notes}, err
	}

	e := newEditor(f, prefix...)
	t.enableLegacy(env, e)

	if !env.Deps.ExistsAny(TypeScriptESLintPackages...) {
		env.warn(&out, "'%s' or '%s' dependency must be installed, otherwise rules will not be checked.",
			TypeScriptESLintPackages[0], TypeScriptESLintPackages[1])
	}
	return env.commit(t, e, out)
}

// enableLegacy adds the rules to every override that targets TypeScript sources, or to
// the root when there is none.
func (t ESLint) enableLegacy(env *Env, e *editor) {
	overrides, _ := e.lookup(confpath.New("overrides"))
	items, _ := overrides.([]any)
	angular := env.Deps.ExistsAny(angularESLintPackages...)

	typed := false
	for i, item := range items {
		override, _ := item.(map[string]any)
		files := filePatterns(override["files"])
		base := confpath.New("overrides", i)

		if matchesFiles(files, "*.ts", typescriptSamples) {
			e.setDefault(confpath.Join(base, "parserOptions", "project"), true)
			t.addRules(env, e, base)
			typed = true
		}
		if angular && matchesFiles(files, "*.html", htmlSamples) {
			e.set(confpath.Join(base, "rules", angularNoAnyRule), "error")
		}
	}

	if !typed {
		e.setDefault(confpath.New("parserOptions", "project"), true)
		t.addRules(env, e, confpath.New())
	}
}

func (ESLint) addRules(env *Env, e *editor, base confpath.Path) {
	for _, r := range eslintRules {
		if !r.available(env) {
			continue
		}
		p := confpath.Join(base, "rules", r.Name)
		cur, _ := e.lookup(p)
		e.set(p, r.valueFor(cur))
	}
}

func (t ESLint) enableFlat(env *Env, name string, src []byte, cfg *jsmodule.FlatConfig) (Outcome, error) {
	values := make(map[string]any)
	for _, r := range eslintRules {
		if r.LegacyOnly || !r.available(env) {
			continue
		}
		cur, ok := cfg.Rule(r.Name)
		v := r.valueFor(cur)
		if ok && sameValue(cur, v) {
			continue
		}
		cfg.SetRule(r.Name, v)
		values[r.Name] = v
	}

	out := Outcome{Target: t.Name(), File: name}
	after, changes := cfg.Bytes()
	for _, c := range changes {
		out.Changes = append(out.Changes, Change{Path: confpath.New("rules", c.Name), Op: OpSet, Value: values[c.Name]})
	}
	if len(changes) == 0 {
		out.Status = StatusUnchanged
		env.Log.Info(t.Title()+" is already strict", "file", name)
		return out, nil
	}
	return env.write(t, out, name, src, after)
}

// flatFallback opens eslint.config.json, which ESLint does not read, for the rules of
// a flat config whose JavaScript could not be edited.
func (ESLint) flatFallback(env *Env, name string, out *Outcome) (*document.File, error) {
	env.warn(out, "Your project is using the new %s format, which cannot be rewritten safely. "+
		"The strict configuration was saved in %s instead. ESLint does not read that file: "+
		"copy the options to %s by hand, then delete %s.", name, flatFallbackFile, name, flatFallbackFile)
	if document.Exists(env.Dir, flatFallbackFile) {
		return document.Load(env.Dir, flatFallbackFile)
	}
	return document.New(env.Dir, flatFallbackFile)
}

// scriptFallback copies the literal object exported by a .eslintrc.js file into
// .eslintrc.json so that it can be edited.
func (ESLint) scriptFallback(ctx context.Context, env *Env, name string, out *Outcome) (*document.File, error) {
	env.warn(out, "Your project is using the advanced %s format, which cannot be rewritten safely. "+
		"The strict configuration was saved in %s instead. As %s has precedence over %s, "+
		"copy the options to %s by hand, then delete %s.",
		name, scriptFallbackFile, name, scriptFallbackFile, name, scriptFallbackFile)

	src, err := os.ReadFile(filepath.Join(env.Dir, name))
	if err != nil {
		return nil, err
	}
	obj, exportErr := jsmodule.ExportedObject(ctx, src)

	var f *document.File
	if document.Exists(env.Dir, scriptFallbackFile) {
		f, err = document.Load(env.Dir, scriptFallbackFile)
	} else {
		f, err = document.New(env.Dir, scriptFallbackFile)
	}
	if err != nil {
		return nil, err
	}
	if exportErr != nil {
		// keep what an earlier run wrote to the fallback file
		env.Log.Debug("exported object is not a literal", "file", name, "err", exportErr)
		return f, nil
	}
	if err := f.Doc.Set(confpath.New(), obj); err != nil {
		return nil, err
	}
	return f, nil
}

func (r eslintRule) available(env *Env) bool {
	return r.MinVersion == "" || env.Deps.SatisfiesAny(TypeScriptESLintPackages, ">="+r.MinVersion)
}

// valueFor returns the value to write given the rule's current value.
func (r eslintRule) valueFor(current any) any {
	if r.Name == noExplicitAnyRule {
		return noExplicitAny(current)
	}
	return r.Value
}

// noExplicitAny keeps a configured fixToUnknown option.
func noExplicitAny(current any) any {
	items, ok := current.([]any)
	if !ok || len(items) < 2 {
		return "error"
	}
	opts, ok := items[1].(map[string]any)
	if !ok {
		return "error"
	}
	fix, ok := opts["fixToUnknown"]
	if !ok {
		return "error"
	}
	return []any{"error", map[string]any{"fixToUnknown": fix}}
}

// filePatterns accepts the string or list forms of an override's files.
func filePatterns(v any) []string {
	switch files := v.(type) {
	case string:
		return []string{files}
	case []any:
		out := make([]string, 0, len(files))
		for _, f := range files {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// matchesFiles reports whether a pattern mentions ext or matches one of the sample paths.
func matchesFiles(patterns []string, ext string, samples []string) bool {
	for _, p := range patterns {
		if strings.Contains(p, ext) {
			return true
		}
		for _, s := range samples {
			if ok, _ := doublestar.Match(p, s); ok {
				return true
			}
		}
	}
	return false
}
