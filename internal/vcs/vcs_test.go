// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/strictly-typed/strictly/internal/testutil"
)

func initRepo(t *testing.T) string {
	t.Helper()

	dir := testutil.NewProject(t, map[string]string{"tsconfig.json": "{}\n"})
	testutil.CommitAll(t, testutil.InitRepo(t, dir), "initial")
	return dir
}

func TestDirty(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)

	dirty, err := Dirty(dir, true)
	if err != nil {
		t.Fatalf("Dirty() error: %v", err)
	}
	if dirty {
		t.Fatal("fresh commit should be clean")
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dirty, _ := Dirty(dir, false); dirty {
		t.Error("untracked files should be ignored unless requested")
	}
	if dirty, _ := Dirty(dir, true); !dirty {
		t.Error("untracked files should count when requested")
	}

	if err := os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(`{"compilerOptions": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	paths, err := Changes(dir, false)
	if err != nil {
		t.Fatalf("Changes() error: %v", err)
	}
	if diff := cmp.Diff([]string{"tsconfig.json"}, paths); diff != "" {
		t.Errorf("Changes() mismatch (-want +got):\n%s", diff)
	}
}

func TestDirty_Subdirectory(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	sub := filepath.Join(dir, "packages", "app")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Dirty(sub, false); err != nil {
		t.Errorf("Dirty() from a subdirectory error: %v", err)
	}
}

func TestDirty_NotRepository(t *testing.T) {
	t.Parallel()

	_, err := Dirty(t.TempDir(), false)
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("Dirty() error = %v, want ErrNotRepository", err)
	}
}
