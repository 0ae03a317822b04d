package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Qautry/booster/artifact"
	"github.com/Qautry/booster/collector"
	"github.com/Qautry/booster/fs"
	"github.com/Qautry/booster/workpool"
)

// Phase is the lifecycle state of one invocation.
type Phase int

const (
	PhasePreTransform Phase = iota
	PhaseLookAhead
	PhaseScheduling
	PhaseAwaiting
	PhasePostTransform
	PhaseVerify
	PhaseDone
	PhaseFailed
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePreTransform:
		return "pre-transform"
	case PhaseLookAhead:
		return "look-ahead"
	case PhaseScheduling:
		return "scheduling"
	case PhaseAwaiting:
		return "awaiting"
	case PhasePostTransform:
		return "post-transform"
	case PhaseVerify:
		return "verify"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Invocation is the per-invocation context handed to transformer and
// collector plugins. All invocation-scoped mutable state lives here and is
// discarded when the invocation completes.
type Invocation struct {
	options *Options
	mode    Mode
	pool    *workpool.Pool

	collectors *collector.Registry
	records    *artifact.Records

	mu        sync.Mutex
	outOfDate map[string]struct{}
	phase     Phase

	// values carries opaque shared analysis state between collectors and
	// transformers. The engine never reads it.
	values sync.Map
}

func newInvocation(options *Options, mode Mode) *Invocation {
	return &Invocation{
		options:    options,
		mode:       mode,
		collectors: collector.NewRegistry(),
		records:    &artifact.Records{},
		outOfDate:  make(map[string]struct{}),
	}
}

// FS returns the invocation's filesystem.
func (inv *Invocation) FS() fs.Filesystem {
	return inv.options.FS
}

// Logger returns the invocation's logger.
func (inv *Invocation) Logger() *slog.Logger {
	return inv.options.Logger
}

// TempDir returns the scratch directory.
func (inv *Invocation) TempDir() string {
	return inv.options.TempDir
}

// ReportDir returns the report directory.
func (inv *Invocation) ReportDir() string {
	return inv.options.ReportDir
}

// Mode returns the transform algorithm selected for this invocation.
func (inv *Invocation) Mode() Mode {
	return inv.mode
}

// Collectors returns the invocation's collector registry. Transformers may
// register and unregister collectors during PreTransform only.
func (inv *Invocation) Collectors() *collector.Registry {
	return inv.collectors
}

// Store saves shared plugin state under key. The engine never interprets it.
func (inv *Invocation) Store(key string, value any) {
	inv.values.Store(key, value)
}

// Load retrieves shared plugin state saved under key.
func (inv *Invocation) Load(key string) (any, bool) {
	return inv.values.Load(key)
}

// Phase returns the invocation's current lifecycle phase.
func (inv *Invocation) Phase() Phase {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.phase
}

func (inv *Invocation) setPhase(p Phase) {
	inv.mu.Lock()
	inv.phase = p
	inv.mu.Unlock()
}

// OutOfDate reports whether the look-ahead scan forced the named artifact
// into reprocessing.
func (inv *Invocation) OutOfDate(name string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	_, ok := inv.outOfDate[name]
	return ok
}

func (inv *Invocation) markOutOfDate(name string) {
	inv.mu.Lock()
	inv.outOfDate[name] = struct{}{}
	inv.mu.Unlock()
}

// run drives one invocation through its phases. The pool is always drained
// before an error is surfaced so no worker outlives the invocation.
func (inv *Invocation) run(ctx context.Context, set *artifact.Set) (report *Report, err error) {
	if err := ctx.Err(); err != nil {
		inv.setPhase(PhaseFailed)
		return nil, err
	}
	inv.pool = workpool.New(inv.options.Workers)
	defer func() {
		if derr := inv.pool.Shutdown(inv.options.DrainTimeout); derr != nil && err == nil {
			err = derr
		}
		if err != nil {
			inv.setPhase(PhaseFailed)
		}
	}()

	inv.setPhase(PhasePreTransform)
	for _, t := range inv.options.Transformers {
		if pre, ok := t.(PreTransformer); ok {
			if err := pre.PreTransform(inv); err != nil {
				return nil, fmt.Errorf("engine: pre-transform %s: %w", t.Name(), err)
			}
		}
	}

	inv.setPhase(PhaseLookAhead)
	if err := inv.lookAhead(set); err != nil {
		return nil, err
	}

	inv.setPhase(PhaseScheduling)
	var group workpool.Group
	switch inv.mode {
	case ModeFull:
		inv.scheduleFull(&group, set)
	case ModeIncremental:
		inv.scheduleIncremental(&group, set)
	}

	inv.setPhase(PhaseAwaiting)
	if err := group.Wait(); err != nil {
		return nil, err
	}

	inv.setPhase(PhasePostTransform)
	for _, t := range inv.options.Transformers {
		if post, ok := t.(PostTransformer); ok {
			if err := post.PostTransform(inv); err != nil {
				return nil, fmt.Errorf("engine: post-transform %s: %w", t.Name(), err)
			}
		}
	}

	report = &Report{Records: inv.records.All()}
	if inv.options.Verify {
		inv.setPhase(PhaseVerify)
		report.Verifications = inv.runVerification(ctx)
	}

	inv.setPhase(PhaseDone)
	return report, nil
}
