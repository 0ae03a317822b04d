package artifact

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Record maps an artifact identity to the output path written for it during
// the current invocation. Records live only for the invocation that produced
// them; the verification pass consumes them before they are discarded.
type Record struct {
	Name   string
	Scopes []string
	Kind   Kind
	Path   string
}

// BaseName returns the record's file base name with the extension stripped,
// the stable key the verification pass orders records by.
func (r Record) BaseName() string {
	base := filepath.Base(r.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Records collects the outputs produced by one invocation. It is safe for
// concurrent appends from worker goroutines; removal is not supported.
type Records struct {
	mu  sync.Mutex
	all []Record
}

// Add appends a record.
func (r *Records) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, rec)
}

// All returns a copy of the collected records.
func (r *Records) All() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.all))
	copy(out, r.all)
	return out
}

// Sorted returns the records ordered by base name, extension-insensitive.
func (r *Records) Sorted() []Record {
	out := r.All()
	sort.Slice(out, func(i, j int) bool {
		return out[i].BaseName() < out[j].BaseName()
	})
	return out
}

// Len returns the number of collected records.
func (r *Records) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.all)
}
