package artifact

import (
	"path/filepath"
	"sort"
	"strings"
)

// Resolver maps an artifact's identity to a physical output location. The
// mapping must be a pure function of name, scopes, and kind so that repeated
// invocations resolve the same artifact to the same path.
type Resolver interface {
	// Output resolves the output path for the given identity. A false
	// return means no output provider exists for this identity; the engine
	// skips such artifacts without error.
	Output(name string, scopes []string, kind Kind) (string, bool)

	// Roots returns every output root known for the current scope set.
	// The deletion propagator sweeps these for stale mirrored copies.
	Roots() []string
}

// ScopedResolver is the standard Resolver: each scope combination maps to one
// output root under a base directory. Archives become "<name>.jar" files under
// their root; directory artifacts mirror their trees directly into the root,
// so a contained file keeps the same relative path in every root it has ever
// been written to. Callers keep scope tags distinct enough that no two
// artifacts resolve to the same output path.
type ScopedResolver struct {
	base  string
	roots []string
}

// NewScopedResolver creates a resolver over base for the given scope sets.
// Only scope sets named here contribute output roots; identities carrying an
// unknown scope combination resolve to nothing.
func NewScopedResolver(base string, scopeSets ...[]string) *ScopedResolver {
	r := &ScopedResolver{base: base}
	for _, scopes := range scopeSets {
		r.roots = append(r.roots, filepath.Join(base, scopeKey(scopes)))
	}
	return r
}

// Output implements Resolver.Output.
func (r *ScopedResolver) Output(name string, scopes []string, kind Kind) (string, bool) {
	root := filepath.Join(r.base, scopeKey(scopes))
	known := false
	for _, candidate := range r.roots {
		if candidate == root {
			known = true
			break
		}
	}
	if !known {
		return "", false
	}
	if kind == KindArchive {
		return filepath.Join(root, name+".jar"), true
	}
	return root, true
}

// Roots implements Resolver.Roots.
func (r *ScopedResolver) Roots() []string {
	return r.roots
}

// scopeKey folds a scope tag set into a stable directory name.
func scopeKey(scopes []string) string {
	if len(scopes) == 0 {
		return "default"
	}
	sorted := make([]string, len(scopes))
	copy(sorted, scopes)
	sort.Strings(sorted)
	return strings.Join(sorted, "-")
}
