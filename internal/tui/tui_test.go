// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm_Accessible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "no", input: "n\n", def: true, want: false},
		{name: "empty keeps default", input: "\n", def: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got, err := Confirm(t.Context(), ConfirmOptions{
				Title:   "Continue with uncommitted changes?",
				Default: tt.def,
				Config: Config{
					Accessible: true,
					Input:      strings.NewReader(tt.input),
					Output:     &out,
				},
			})
			if err != nil {
				t.Fatalf("Confirm() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %t, want %t", got, tt.want)
			}
			if !strings.Contains(out.String(), "Continue with uncommitted changes?") {
				t.Errorf("prompt was not written:\n%s", out.String())
			}
		})
	}
}

func TestIsInteractive(t *testing.T) {
	t.Parallel()

	if IsInteractive(strings.NewReader("")) {
		t.Error("a string reader is not a terminal")
	}
}

func TestHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, "unknown"} {
		if huhTheme(theme) == nil {
			t.Errorf("huhTheme(%q) = nil", theme)
		}
	}
}
