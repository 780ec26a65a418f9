// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"
	"golang.org/x/mod/semver"
)

// ManifestFile is the npm package manifest name.
const ManifestFile = "package.json"

var (
	// ErrInvalidVersion indicates a version or constraint that is not valid semver.
	ErrInvalidVersion = errors.New("invalid semantic version")
	// ErrUnknownVersion indicates a declared range that does not name a version,
	// such as a git URL or a file: link.
	ErrUnknownVersion = errors.New("cannot determine version")

	constraintPattern = regexp.MustCompile(`^\s*(>=|<=|>|<|=)?\s*v?(\S+)\s*$`)
	operatorSpace     = regexp.MustCompile(`([<>=^~]+)\s+`)
	versionPattern    = regexp.MustCompile(`^v?(\d+|[xX*])(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?([-+].*)?$`)
)

type (
	// Manifest is the subset of package.json read by strictly.
	Manifest struct {
		Name            string            `json:"name"`
		Version         string            `json:"version"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}

	// Version is a resolved dependency version.
	Version struct {
		// Semver is the canonical "vMAJOR.MINOR.PATCH" form, empty when Latest is set.
		Semver string
		// Latest is set for declarations that float to the newest release ("*", "latest").
		Latest bool
		// Installed is set when the version was read from node_modules.
		Installed bool
	}

	// Project gives access to the dependencies of the package in Dir.
	Project struct {
		Dir      string
		manifest *Manifest
		loaded   bool
		err      error
	}
)

// String renders the version for messages.
func (v Version) String() string {
	if v.Latest {
		return "latest"
	}
	return strings.TrimPrefix(v.Semver, "v")
}

// NewProject returns a Project rooted at dir. The manifest is read lazily.
func NewProject(dir string) *Project {
	return &Project{Dir: dir}
}

// Manifest returns the parsed package.json. A missing file yields an empty manifest.
func (p *Project) Manifest() (*Manifest, error) {
	if !p.loaded {
		p.loaded = true
		p.manifest, p.err = ReadManifest(filepath.Join(p.Dir, ManifestFile))
		if errors.Is(p.err, os.ErrNotExist) {
			p.manifest, p.err = &Manifest{}, nil
		}
	}
	return p.manifest, p.err
}

// Exists reports whether name is declared in dependencies or devDependencies.
func (p *Project) Exists(name string) bool {
	_, ok := p.declared(name)
	return ok
}

// Version resolves the version of name: the installed one in node_modules when present,
// otherwise the lowest version the declared range accepts.
func (p *Project) Version(name string) (Version, error) {
	if m, err := ReadManifest(filepath.Join(p.Dir, "node_modules", filepath.FromSlash(name), ManifestFile)); err == nil && m.Version != "" {
		if norm, err := normalizeVersion(m.Version); err == nil {
			return Version{Semver: norm, Installed: true}, nil
		}
	}

	declared, ok := p.declared(name)
	if !ok {
		return Version{}, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return MinVersion(declared)
}

// Satisfies reports whether the resolved version of name matches constraint, for
// example ">=4.4.0". A missing or unresolvable dependency never satisfies.
func (p *Project) Satisfies(name, constraint string) bool {
	v, err := p.Version(name)
	if err != nil {
		return false
	}
	ok, err := Satisfies(v, constraint)
	return err == nil && ok
}

// SatisfiesAny reports whether any of the packages satisfies constraint.
func (p *Project) SatisfiesAny(names []string, constraint string) bool {
	for _, name := range names {
		if p.Satisfies(name, constraint) {
			return true
		}
	}
	return false
}

// ExistsAny reports whether any of the packages is declared.
func (p *Project) ExistsAny(names ...string) bool {
	for _, name := range names {
		if p.Exists(name) {
			return true
		}
	}
	return false
}

func (p *Project) declared(name string) (string, bool) {
	m, err := p.Manifest()
	if err != nil || m == nil {
		return "", false
	}
	if v, ok := m.Dependencies[name]; ok {
		return v, true
	}
	v, ok := m.DevDependencies[name]
	return v, ok
}

// ReadManifest parses a package.json file. Comments and trailing commas are tolerated.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

// Satisfies checks v against a single comparator: ">=X.Y.Z", ">X", "<=X", "<X" or "=X".
// A bare version means "=". Latest satisfies every lower bound and no upper bound.
func Satisfies(v Version, constraint string) (bool, error) {
	match := constraintPattern.FindStringSubmatch(constraint)
	if match == nil {
		return false, fmt.Errorf("%w: constraint %q", ErrInvalidVersion, constraint)
	}
	op := match[1]
	if op == "" {
		op = "="
	}
	want, err := normalizeVersion(match[2])
	if err != nil {
		return false, err
	}

	if v.Latest {
		return op == ">=" || op == ">", nil
	}

	cmp := semver.Compare(v.Semver, want)
	switch op {
	case ">=":
		return cmp >= 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case "<":
		return cmp < 0, nil
	default:
		return cmp == 0, nil
	}
}

// MinVersion returns the lowest version accepted by an npm range declaration.
func MinVersion(declared string) (Version, error) {
	r := strings.TrimSpace(declared)

	for _, prefix := range []string{"workspace:", "catalog:"} {
		r = strings.TrimPrefix(r, prefix)
	}
	if rest, ok := strings.CutPrefix(r, "npm:"); ok {
		// npm:pkg@range, the package name may itself be scoped.
		at := strings.LastIndex(rest, "@")
		if at <= 0 {
			return Version{Latest: true}, nil
		}
		r = rest[at+1:]
	}

	if alt, _, found := strings.Cut(r, "||"); found {
		r = alt
	}
	if lo, _, found := strings.Cut(r, " - "); found {
		r = lo
	}
	r = strings.TrimSpace(r)

	switch r {
	case "", "*", "x", "X", "latest", "next", "^", "~":
		return Version{Latest: true}, nil
	}

	// First comparator of a set like ">= 1.2.0 <2".
	r = operatorSpace.ReplaceAllString(r, "$1")
	r = strings.Fields(r)[0]
	bare := strings.TrimLeft(r, "^~<>=")
	if strings.HasPrefix(r, "<") {
		// Only an upper bound: every release below it is accepted.
		return Version{Semver: "v0.0.0"}, nil
	}

	match := versionPattern.FindStringSubmatch(bare)
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrUnknownVersion, declared)
	}
	if isWildcard(match[1]) {
		return Version{Latest: true}, nil
	}

	parts := []string{match[1], "0", "0"}
	for i, p := range match[2:4] {
		if p != "" && !isWildcard(p) {
			parts[i+1] = p
		}
	}
	v := "v" + strings.Join(parts, ".")
	if pre := match[4]; strings.HasPrefix(pre, "-") {
		v += pre
	}
	if !semver.IsValid(v) {
		return Version{}, fmt.Errorf("%w: %q", ErrUnknownVersion, declared)
	}
	return Version{Semver: semver.Canonical(v)}, nil
}

func isWildcard(s string) bool {
	return s == "x" || s == "X" || s == "*"
}

// normalizeVersion ensures the version string has a "v" prefix as required by
// the semver package, and validates the result.
func normalizeVersion(v string) (string, error) {
	norm := strings.TrimSpace(v)
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if !semver.IsValid(norm) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return semver.Canonical(norm), nil
}
