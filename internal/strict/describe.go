// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"fmt"
	"strings"
)

// Describe implements Describer.
func (TypeScript) Describe() string {
	var b strings.Builder
	b.WriteString("Edits `compilerOptions` in `tsconfig.base.json` or `tsconfig.json`.\n\n")
	b.WriteString("| Option | Value | Requires typescript |\n|---|---|---|\n")
	b.WriteString("| `strict` | `true` | |\n")
	for _, opt := range strictCompilerOptions {
		fmt.Fprintf(&b, "| `%s` | `true` | %s |\n", opt.Name, orAny(opt.MinVersion))
	}
	for _, name := range impliedByStrict {
		fmt.Fprintf(&b, "| `%s` | removed | |\n", name)
	}
	return b.String()
}

// Describe implements Describer.
func (Angular) Describe() string {
	var b strings.Builder
	b.WriteString("Edits `angularCompilerOptions` when the project uses Angular.\n\n")
	b.WriteString("| Option | Value | Requires @angular/compiler |\n|---|---|---|\n")
	for _, opt := range angularCompilerOptions {
		fmt.Fprintf(&b, "| `%s` | `true` | %s |\n", opt.Name, orAny(opt.MinVersion))
	}
	return b.String()
}

// Describe implements Describer.
func (ESLint) Describe() string {
	var b strings.Builder
	b.WriteString("Edits `eslint.config.{mjs,js,cjs}` in place, or the first legacy config found. ")
	b.WriteString("Rules go to the overrides targeting `*.ts` files when there are any.\n\n")
	b.WriteString("| Rule | Value | Requires typescript-eslint |\n|---|---|---|\n")
	for _, r := range eslintRules {
		v := formatValue(r.Value)
		if r.LegacyOnly {
			v += " (legacy configs)"
		}
		fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", r.Name, v, orAny(r.MinVersion))
	}
	return b.String()
}

// Describe implements Describer.
func (Biome) Describe() string {
	var b strings.Builder
	b.WriteString("Edits `linter.rules` in `biome.jsonc` or `biome.json`. ")
	b.WriteString("Recommended rules are only written when the recommended preset is off.\n\n")
	b.WriteString("| Rule | Group | Recommended | Requires @biomejs/biome |\n|---|---|---|---|\n")
	for _, r := range biomeRules {
		fmt.Fprintf(&b, "| `%s` | %s | %t | %s |\n", r.Name, r.Group, r.Recommended, orAny(r.MinVersion))
	}
	return b.String()
}

// Describe implements Describer.
func (Deno) Describe() string {
	var b strings.Builder
	b.WriteString("Edits `compilerOptions` and `lint.rules` in `deno.json` or `deno.jsonc`.\n\n")
	b.WriteString("| Setting | Value |\n|---|---|\n")
	for _, name := range denoDefaultOn {
		fmt.Fprintf(&b, "| `compilerOptions.%s` | removed when `false` |\n", name)
	}
	for _, name := range denoEnabled {
		fmt.Fprintf(&b, "| `compilerOptions.%s` | `true` |\n", name)
	}
	b.WriteString("| `lint.rules.tags` | includes `recommended` |\n")
	for _, rule := range denoLintRules {
		fmt.Fprintf(&b, "| `lint.rules.include` | includes `%s` |\n", rule)
	}
	return b.String()
}

// Describe implements Describer.
func (TSLint) Describe() string {
	return "Edits `rules` in `tslint.json` or `tslint.yaml`.\n\n" +
		"| Rule | Value |\n|---|---|\n" +
		"| `no-any` | `true` |\n" +
		"| `typedef` | includes `\"call-signature\"` |\n"
}

func orAny(version string) string {
	if version == "" {
		return "any"
	}
	return ">= " + version
}
