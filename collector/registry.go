package collector

import (
	"reflect"
	"sync"
)

// Registry is the invocation-scoped set of active collectors. Transformers
// register and unregister collectors during the pre-transform hook, and the
// look-ahead scanner reads a snapshot once scheduling begins; both sides may
// touch the registry from different goroutines.
type Registry struct {
	mu         sync.RWMutex
	collectors []Collector
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a collector. Duplicate registrations are kept; each copy runs.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors = append(r.collectors, c)
}

// Unregister removes the first registration equal to c, if any. A collector
// of a non-comparable type can never match and is left alone rather than
// letting the interface comparison panic.
func (r *Registry) Unregister(c Collector) {
	if c == nil || !reflect.TypeOf(c).Comparable() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.collectors {
		if existing == c {
			r.collectors = append(r.collectors[:i], r.collectors[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.collectors)
}

// Composite returns a Composite over a snapshot of the current registrations.
func (r *Registry) Composite() *Composite {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]Collector, len(r.collectors))
	copy(snapshot, r.collectors)
	return NewComposite(snapshot...)
}
