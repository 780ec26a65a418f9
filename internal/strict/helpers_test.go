// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/internal/testutil"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

// project is a temporary project directory whose writes are captured in memory.
type project struct {
	t       *testing.T
	dir     string
	written map[string][]byte
	env     *Env
}

func newProject(t *testing.T, files map[string]string) *project {
	t.Helper()

	p := &project{t: t, dir: testutil.NewProject(t, files), written: make(map[string][]byte)}
	p.env = NewEnv(p.dir, WithWriter(func(name string, _, after []byte) error {
		p.written[name] = after
		return nil
	}))
	return p
}

func (p *project) enable(target Target) Outcome {
	p.t.Helper()
	out, err := target.Enable(context.Background(), p.env)
	if err != nil {
		p.t.Fatalf("%s.Enable() error: %v", target.Name(), err)
	}
	return out
}

// output returns the parsed content written for name.
func (p *project) output(name string) document.Document {
	p.t.Helper()
	b, ok := p.written[name]
	if !ok {
		p.t.Fatalf("%s was not written (written: %v)", name, keys(p.written))
	}
	format, err := document.FormatOf(name)
	if err != nil {
		p.t.Fatal(err)
	}
	doc, err := document.Parse(format, b)
	if err != nil {
		p.t.Fatalf("written %s does not parse: %v\n%s", name, err, b)
	}
	return doc
}

func lookup(doc document.Document, segments ...any) any {
	v, _ := doc.Lookup(confpath.New(segments...))
	return v
}

func has(doc document.Document, segments ...any) bool {
	_, ok := doc.Lookup(confpath.New(segments...))
	return ok
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func containsLine(b []byte, s string) bool {
	return bytes.Contains(b, []byte(s))
}

// writeBack stores the captured content of name on disk so that a second run sees it.
func writeBack(p *project, name string) error {
	b, ok := p.written[name]
	if !ok {
		return os.ErrNotExist
	}
	delete(p.written, name)
	return os.WriteFile(filepath.Join(p.dir, name), b, 0o644)
}
