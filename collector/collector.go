// Package collector defines the look-ahead protocol: pluggable analyses that
// run over every input artifact before scheduling and decide which
// otherwise-unchanged artifacts must be reprocessed anyway. A transformer that
// needs whole-program information (say, every class implementing a given
// interface) registers a collector; any artifact the collector matches is
// treated by the incremental algorithm as if it had changed.
package collector

import (
	"fmt"

	"github.com/Qautry/booster/artifact"
)

// Matches is the result set of one collection run. The engine only ever tests
// it for emptiness; the elements themselves are the collector's own concern.
type Matches map[string]struct{}

// NewMatches creates a Matches set from the given elements.
func NewMatches(elems ...string) Matches {
	m := make(Matches, len(elems))
	for _, e := range elems {
		m[e] = struct{}{}
	}
	return m
}

// Empty reports whether the set holds no matches.
func (m Matches) Empty() bool {
	return len(m) == 0
}

// Merge adds every element of other into m.
func (m Matches) Merge(other Matches) {
	for e := range other {
		m[e] = struct{}{}
	}
}

// Collector scans one artifact and returns whatever it matched. Collectors
// may also accumulate shared analysis state for later consumption by
// transformers; that accumulation is opaque to the engine. Implementations
// must be safe for concurrent Collect calls: the look-ahead scanner runs them
// from multiple workers.
type Collector interface {
	Collect(a *artifact.Artifact) (Matches, error)
}

// ScanError wraps a collector failure for one artifact. A scan error fails
// the whole invocation at the look-ahead barrier.
type ScanError struct {
	Artifact string
	Err      error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("collecting %q: %v", e.Artifact, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Composite evaluates a list of collectors against one artifact and unions
// their matches. Its result is non-empty iff at least one collector matched.
type Composite struct {
	collectors []Collector
}

// NewComposite creates a Composite over the given collectors.
func NewComposite(collectors ...Collector) *Composite {
	return &Composite{collectors: collectors}
}

// Collect implements Collector.
func (c *Composite) Collect(a *artifact.Artifact) (Matches, error) {
	union := make(Matches)
	for _, col := range c.collectors {
		m, err := col.Collect(a)
		if err != nil {
			return nil, err
		}
		union.Merge(m)
	}
	return union, nil
}
