// SPDX-License-Identifier: MPL-2.0

package yamldoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/strictly-typed/strictly/pkg/confpath"
)

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func text(t *testing.T, doc *Document) string {
	t.Helper()
	b, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	return string(b)
}

func TestSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		path  confpath.Path
		value any
		want  string
	}{
		{
			name:  "replace scalar",
			src:   "rules:\n  no-any: false\n",
			path:  confpath.New("rules", "no-any"),
			value: true,
			want:  "rules:\n  no-any: true\n",
		},
		{
			name:  "append new key",
			src:   "rules:\n  eqeqeq: true\n",
			path:  confpath.New("rules", "no-any"),
			value: true,
			want:  "rules:\n  eqeqeq: true\n  no-any: true\n",
		},
		{
			name:  "create missing parents",
			src:   "extends: tslint:recommended\n",
			path:  confpath.New("rules", "typedef"),
			value: []any{true, "call-signature"},
			want:  "extends: tslint:recommended\nrules:\n  typedef:\n    - true\n    - call-signature\n",
		},
		{
			name:  "empty document",
			src:   "",
			path:  confpath.New("rules", "no-any"),
			value: true,
			want:  "rules:\n  no-any: true\n",
		},
		{
			name:  "null intermediate becomes mapping",
			src:   "rules:\n",
			path:  confpath.New("rules", "no-any"),
			value: true,
			want:  "rules:\n  no-any: true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := mustParse(t, tt.src)
			if err := doc.Set(tt.path, tt.value); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, text(t, doc)); diff != "" {
				t.Errorf("Set() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSet_KeepsComments(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "# tslint settings\nrules:\n  no-any: false # loosened\n")
	if err := doc.Set(confpath.New("rules", "no-any"), true); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got := text(t, doc)
	for _, want := range []string{"# tslint settings", "no-any: true # loosened"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSet_IndexOutOfRange(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a:\n  - 1\n")
	if err := doc.Set(confpath.New("a", 4), 2); !errors.Is(err, confpath.ErrIndexOutOfRange) {
		t.Errorf("Set() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a: 1\nb:\n  - x\n  - y\nc: 3\n")
	for _, p := range []confpath.Path{
		confpath.New("a"),
		confpath.New("b", 0),
		confpath.New("missing"),
		confpath.New("missing", "deeper"),
	} {
		if err := doc.Delete(p); err != nil {
			t.Fatalf("Delete(%s) error: %v", p, err)
		}
	}

	if diff := cmp.Diff("b:\n  - y\nc: 3\n", text(t, doc)); diff != "" {
		t.Errorf("Delete() mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendUnique(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "rules:\n  typedef:\n    - true\n    - arrow-parameter\n  label: x\n")

	for range 2 {
		if err := doc.AppendUnique(confpath.New("rules", "typedef"), "call-signature"); err != nil {
			t.Fatalf("AppendUnique() error: %v", err)
		}
	}
	got, _ := doc.Lookup(confpath.New("rules", "typedef"))
	if diff := cmp.Diff([]any{true, "arrow-parameter", "call-signature"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := doc.AppendUnique(confpath.New("rules", "tags"), "recommended"); err != nil {
		t.Fatalf("AppendUnique() on missing key error: %v", err)
	}
	got, _ = doc.Lookup(confpath.New("rules", "tags"))
	if diff := cmp.Diff([]any{"recommended"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := doc.AppendUnique(confpath.New("rules", "label"), "y"); !errors.Is(err, confpath.ErrNotArray) {
		t.Errorf("AppendUnique() on scalar error = %v, want ErrNotArray", err)
	}
}

func TestLookup_NormalizesNumbers(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "rules:\n  max-line-length: [true, 120]\n")
	got, ok := doc.Lookup(confpath.New("rules", "max-line-length"))
	if !ok {
		t.Fatal("Lookup() did not find the rule")
	}
	if diff := cmp.Diff([]any{true, float64(120)}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, ok := doc.Lookup(confpath.New("rules", "nope")); ok {
		t.Error("Lookup() found a missing key")
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("a: [1,\n")); err == nil {
		t.Error("Parse() expected an error for malformed YAML")
	}
}
