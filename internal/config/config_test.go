// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/viper"

	"github.com/strictly-typed/strictly/internal/issue"
	"github.com/strictly-typed/strictly/internal/strict"
	"github.com/strictly-typed/strictly/internal/testutil"
)

// isolate points the global config directory at a fresh temp dir.
// Tests using it must not run in parallel.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	return dir
}

func loadInto(t *testing.T, path string) *viper.Viper {
	t.Helper()
	v := viper.New()
	if err := loadCUEIntoViper(v, path); err != nil {
		t.Fatalf("loadCUEIntoViper() error: %v", err)
	}
	return v
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	loaded, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if diff := cmp.Diff(DefaultConfig(), loaded.Config, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if !loaded.Config.GitCheck || !loaded.Config.IncludeUntracked {
		t.Error("by default the git check should count untracked files")
	}
}

func TestLoad_LocalFile(t *testing.T) {
	global := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(global, "config.cue"), `git_check: false`)

	base := t.TempDir()
	local := filepath.Join(base, LocalConfigFile)
	testutil.MustWriteFile(t, local, `
targets: ["typescript", "eslint"]
skip: ["tslint"]
ui: color_scheme: "dark"
`)

	loaded, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: base})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Path != local {
		t.Errorf("Path = %q, want %q", loaded.Path, local)
	}

	want := DefaultConfig()
	want.Targets = []string{"typescript", "eslint"}
	want.Skip = []string{"tslint"}
	want.UI.ColorScheme = ColorSchemeDark
	if diff := cmp.Diff(want, loaded.Config, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_GlobalFile(t *testing.T) {
	global := isolate(t)
	testutil.MustWriteFile(t, filepath.Join(global, "config.cue"), "git_check: false\ninclude_untracked: false\n")

	loaded, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Config.GitCheck || loaded.Config.IncludeUntracked {
		t.Errorf("Config = %+v, want git_check and include_untracked off", loaded.Config)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("STRICTLY_GIT_CHECK", "false")
	t.Setenv("STRICTLY_UI_VERBOSE", "true")

	loaded, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Config.GitCheck {
		t.Error("STRICTLY_GIT_CHECK=false was ignored")
	}
	if !loaded.Config.UI.Verbose {
		t.Error("STRICTLY_UI_VERBOSE=true was ignored")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{name: "syntax", content: `targets: [`, want: "strictly.cue"},
		{name: "unknown field", content: `editor: "vim"`, want: "editor"},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, want: "ui.color_scheme"},
		{name: "unknown target", content: `targets: ["prettier"]`, is: strict.ErrUnknownTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			base := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(base, LocalConfigFile), tt.content)

			_, err := NewProvider().Load(t.Context(), LoadOptions{BaseDir: base})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var actionable *issue.ActionableError
			if !errors.As(err, &actionable) {
				t.Errorf("error %T is not actionable", err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.is)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if len(actionable.Suggestions) == 0 {
		t.Error("missing file error should carry suggestions")
	}
}

func TestGlobalConfigPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	home := t.TempDir()
	testutil.SetHomeDir(t, home)

	want := filepath.Join(home, AppName, "config.cue")
	if runtime.GOOS == "darwin" {
		want = filepath.Join(home, "Library", "Application Support", AppName, "config.cue")
	}

	got, err := GlobalConfigPath()
	if err != nil {
		t.Fatalf("GlobalConfigPath() error: %v", err)
	}
	if got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "strictly", "config.cue")
	created, err := CreateDefaultConfig(path)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %t, %v", created, err)
	}

	v := loadInto(t, path)
	if !v.GetBool("git_check") || v.GetString("ui.color_scheme") != "auto" {
		t.Errorf("generated file does not round-trip: %v", v.AllSettings())
	}

	created, err = CreateDefaultConfig(path)
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = %t, %v, want false, nil", created, err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"git_check"}, "git_check"},
		{[]string{"ui", "color_scheme"}, "ui.color_scheme"},
		{[]string{"targets", "1"}, "targets[1]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColorScheme(t *testing.T) {
	t.Parallel()

	if valid, _ := ColorScheme("neon").IsValid(); valid {
		t.Error("neon should be invalid")
	}
	_, errs := ColorScheme("neon").IsValid()
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("IsValid() errors = %v", errs)
	}
	if got := ColorSchemeLight.GlamourStyle(); got != "light" {
		t.Errorf("GlamourStyle() = %q, want light", got)
	}
	if got := ColorSchemeAuto.GlamourStyle(); got != "auto" {
		t.Errorf("GlamourStyle() = %q, want auto", got)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Skip = []string{"jshint"}
	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) || !errors.Is(errs[0], strict.ErrUnknownTarget) {
		t.Errorf("IsValid() error %v should match ErrInvalidConfig and ErrUnknownTarget", errs[0])
	}
}
