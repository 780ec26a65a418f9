// SPDX-License-Identifier: MPL-2.0

package strict

// Registration order is execution order: the compiler first, then the linters.
func init() {
	for _, t := range []Target{
		TypeScript{},
		Angular{},
		ESLint{},
		Biome{},
		Deno{},
		TSLint{},
	} {
		Register(t)
	}
}
