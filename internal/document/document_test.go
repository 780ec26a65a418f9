// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/strictly-typed/strictly/pkg/confpath"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", "{}")
	if err := os.Mkdir(filepath.Join(dir, "tsconfig.base.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(dir, "tsconfig.base.json", "tsconfig.json")
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if got != "tsconfig.json" {
		t.Errorf("Find() = %q, want tsconfig.json (directories must be skipped)", got)
	}

	_, err = Find(dir, "biome.jsonc", "biome.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "biome.jsonc, biome.json") {
		t.Errorf("error %q should list the candidates", err)
	}
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "tsconfig.json", want: FormatJSON},
		{name: "biome.jsonc", want: FormatJSON},
		{name: ".eslintrc", want: FormatJSON},
		{name: "packages/web/.eslintrc", want: FormatJSON},
		{name: ".eslintrc.js", wantErr: true},
		{name: "tslint.yaml", want: FormatYAML},
		{name: ".eslintrc.YML", want: FormatYAML},
		{name: "eslint.config.mjs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatOf(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("FormatOf() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatOf() = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": }`)

	_, err := Load(dir, "tsconfig.json")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if parseErr.File != "tsconfig.json" {
		t.Errorf("ParseError.File = %q", parseErr.File)
	}
}

func TestLoadEditSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "tslint.yaml", "rules:\n  no-any: false\n")

	f, err := Load(dir, "tslint.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Format != FormatYAML {
		t.Errorf("Format = %v, want yaml", f.Format)
	}

	changed, err := f.Changed()
	if err != nil || changed {
		t.Fatalf("Changed() before edit = %v, %v", changed, err)
	}

	if err := f.Doc.Set(confpath.New("rules", "no-any"), true); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if changed, _ := f.Changed(); !changed {
		t.Error("Changed() after edit = false")
	}
	if err := Save(f); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "rules:\n  no-any: true\n" {
		t.Errorf("saved content = %q", got)
	}
}

func TestWriteFile_KeepsMode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "deno.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte(`{"lint": {}}`)); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	fresh := filepath.Join(dir, "eslint.config.json")
	if err := WriteFile(fresh, []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if info, _ := os.Stat(fresh); info.Mode().Perm() != defaultFileMode {
		t.Errorf("new file mode = %v, want %v", info.Mode().Perm(), defaultFileMode)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	f, err := New(t.TempDir(), "eslint.config.json")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := f.Doc.Set(confpath.New("rules", "eqeqeq"), "error"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if changed, _ := f.Changed(); !changed {
		t.Error("a new file with content should report a change")
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	out, err := Diff("tsconfig.json", []byte("{\n  \"a\": 1\n}\n"), []byte("{\n  \"a\": 2\n}\n"))
	if err != nil {
		t.Fatalf("Diff() error: %v", err)
	}
	for _, want := range []string{"--- a/tsconfig.json", "+++ b/tsconfig.json", "-  \"a\": 1", "+  \"a\": 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}

	if out, _ := Diff("x.json", []byte("{}"), []byte("{}")); out != "" {
		t.Errorf("Diff() of equal content = %q, want empty", out)
	}

	out, _ = Diff("eslint.config.json", nil, []byte("{}\n"))
	if !strings.Contains(out, "--- /dev/null") {
		t.Errorf("diff of a new file should start from /dev/null:\n%s", out)
	}
}
