// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAngular_Enable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		files       map[string]string
		wantStatus  Status
		wantHostBnd bool
	}{
		{
			name: "workspace file",
			files: map[string]string{
				"angular.json":  `{}`,
				"tsconfig.json": `{"compilerOptions": {"strict": true}}`,
			},
			wantStatus: StatusApplied,
		},
		{
			name: "angular 20",
			files: map[string]string{
				"package.json":  `{"dependencies": {"@angular/core": "^20.1.0", "@angular/compiler": "^20.1.0"}}`,
				"tsconfig.json": `{}`,
			},
			wantStatus:  StatusApplied,
			wantHostBnd: true,
		},
		{
			name:       "not angular",
			files:      map[string]string{"tsconfig.json": `{}`},
			wantStatus: StatusSkipped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newProject(t, tt.files)
			out := p.enable(Angular{})
			if out.Status != tt.wantStatus {
				t.Fatalf("Status = %v, want %v", out.Status, tt.wantStatus)
			}
			if tt.wantStatus != StatusApplied {
				return
			}

			doc := p.output("tsconfig.json")
			for _, name := range []string{"strictInjectionParameters", "strictTemplates", "strictInputAccessModifiers"} {
				if lookup(doc, "angularCompilerOptions", name) != true {
					t.Errorf("angularCompilerOptions.%s should be true", name)
				}
			}
			if got := has(doc, "angularCompilerOptions", "typeCheckHostBindings"); got != tt.wantHostBnd {
				t.Errorf("typeCheckHostBindings present = %t, want %t", got, tt.wantHostBnd)
			}
		})
	}
}

func TestTSLint_Enable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		file        string
		content     string
		wantTypedef any
	}{
		{
			name:        "json without typedef",
			file:        "tslint.json",
			content:     `{"rules": {"no-console": true}}`,
			wantTypedef: []any{true, "call-signature"},
		},
		{
			name:        "json typedef array",
			file:        "tslint.json",
			content:     `{"rules": {"typedef": [true, "parameter"]}}`,
			wantTypedef: []any{true, "parameter", "call-signature"},
		},
		{
			name:        "json typedef boolean",
			file:        "tslint.json",
			content:     `{"rules": {"typedef": false}}`,
			wantTypedef: []any{true, "call-signature"},
		},
		{
			name:        "yaml",
			file:        "tslint.yaml",
			content:     "# lint\nrules:\n  typedef:\n    - true\n    - call-signature\n",
			wantTypedef: []any{true, "call-signature"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newProject(t, map[string]string{tt.file: tt.content})
			p.enable(TSLint{})

			doc := p.output(tt.file)
			if got := lookup(doc, "rules", "no-any"); got != true {
				t.Errorf("rules.no-any = %v, want true", got)
			}
			if diff := cmp.Diff(tt.wantTypedef, lookup(doc, "rules", "typedef")); diff != "" {
				t.Errorf("rules.typedef mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBiome_Enable(t *testing.T) {
	t.Parallel()

	biome := func(version string) string {
		return `{"devDependencies": {"@biomejs/biome": "` + version + `"}}`
	}

	tests := []struct {
		name         string
		files        map[string]string
		wantRules    []string
		wantAbsent   []string
		wantWarnings int
	}{
		{
			name: "recommended preset active",
			files: map[string]string{
				"package.json": biome("^1.9.4"),
				"biome.json":   `{"linter": {"rules": {"recommended": true}}}`,
			},
			wantRules:  []string{"style.useForOf"},
			wantAbsent: []string{"suspicious.noExplicitAny", "style.useTemplate"},
		},
		{
			name: "recommended preset off",
			files: map[string]string{
				"package.json": biome("1.9.4"),
				"biome.jsonc":  "{\n  // lint\n  \"linter\": {}\n}\n",
			},
			wantRules: []string{
				"suspicious.noDoubleEquals",
				"suspicious.noExplicitAny",
				"suspicious.noImplicitAnyLet",
				"style.noNonNullAssertion",
				"complexity.useArrowFunction",
				"style.useForOf",
				"complexity.useOptionalChain",
				"style.useTemplate",
			},
		},
		{
			name: "extends overrides the preset",
			files: map[string]string{
				"package.json": biome("1.9.4"),
				"biome.json":   `{"extends": ["./shared.json"], "linter": {"rules": {"recommended": true}}}`,
			},
			wantRules: []string{"suspicious.noExplicitAny", "style.useForOf"},
		},
		{
			name: "old biome",
			files: map[string]string{
				"package.json": biome("1.3.0"),
				"biome.json":   `{}`,
			},
			wantRules:    []string{"suspicious.noExplicitAny"},
			wantAbsent:   []string{"suspicious.noImplicitAnyLet", "style.useForOf"},
			wantWarnings: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newProject(t, tt.files)
			out := p.enable(Biome{})
			if got := len(out.Warnings()); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d: %v", got, tt.wantWarnings, out.Warnings())
			}

			doc := p.output(out.File)
			for _, rule := range tt.wantRules {
				group, name, _ := strings.Cut(rule, ".")
				if got := lookup(doc, "linter", "rules", group, name); got != "error" {
					t.Errorf("linter.rules.%s = %v, want error", rule, got)
				}
			}
			for _, rule := range tt.wantAbsent {
				group, name, _ := strings.Cut(rule, ".")
				if has(doc, "linter", "rules", group, name) {
					t.Errorf("linter.rules.%s should not be set", rule)
				}
			}
		})
	}
}

func TestBiome_PrefersJSONC(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{
		"package.json": `{"devDependencies": {"@biomejs/biome": "2.0.0"}}`,
		"biome.json":   `{}`,
		"biome.jsonc":  `{}`,
	})
	if out := p.enable(Biome{}); out.File != "biome.jsonc" {
		t.Errorf("File = %q, want biome.jsonc", out.File)
	}
}

func TestDeno_Enable(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{
		"deno.json": `{
  "compilerOptions": {
    "strict": false,
    "noImplicitAny": true,
    "strictNullChecks": false
  },
  "lint": {
    "rules": {
      "tags": ["jsr"],
      "include": ["eqeqeq"]
    }
  }
}
`,
	})
	out := p.enable(Deno{})
	if out.Status != StatusApplied {
		t.Fatalf("Status = %v, want applied", out.Status)
	}

	doc := p.output("deno.json")
	for _, name := range []string{"strict", "strictNullChecks"} {
		if has(doc, "compilerOptions", name) {
			t.Errorf("compilerOptions.%s: false should be removed", name)
		}
	}
	if lookup(doc, "compilerOptions", "noImplicitAny") != true {
		t.Error("an explicit true must be kept")
	}
	for _, name := range denoEnabled {
		if lookup(doc, "compilerOptions", name) != true {
			t.Errorf("compilerOptions.%s should be true", name)
		}
	}

	if diff := cmp.Diff([]any{"jsr", "recommended"}, lookup(doc, "lint", "rules", "tags")); diff != "" {
		t.Errorf("lint.rules.tags mismatch (-want +got):\n%s", diff)
	}
	want := []any{"eqeqeq", "explicit-function-return-type", "no-non-null-assertion"}
	if diff := cmp.Diff(want, lookup(doc, "lint", "rules", "include")); diff != "" {
		t.Errorf("lint.rules.include mismatch (-want +got):\n%s", diff)
	}
}

func TestDeno_EmptyConfig(t *testing.T) {
	t.Parallel()

	p := newProject(t, map[string]string{"deno.jsonc": "{}\n"})
	p.enable(Deno{})

	doc := p.output("deno.jsonc")
	if diff := cmp.Diff([]any{"recommended"}, lookup(doc, "lint", "rules", "tags")); diff != "" {
		t.Errorf("lint.rules.tags mismatch (-want +got):\n%s", diff)
	}
}
