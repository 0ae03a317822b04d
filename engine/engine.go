// Package engine implements the transformation-invocation core: it decides,
// per build, which compiled artifacts must be rewritten, runs the registered
// transformer chain over each across a fixed worker pool, commits results to
// resolved output locations, propagates deletions (including stale mirrors in
// sibling output roots), and optionally verifies every output it produced.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Qautry/booster/artifact"
	"github.com/Qautry/booster/fs"
	"github.com/Qautry/booster/verify"
)

// Mode selects the transform algorithm for one invocation.
type Mode int

const (
	// ModeFull rewrites every input unconditionally.
	ModeFull Mode = iota

	// ModeIncremental rewrites only changed, added, or out-of-date inputs
	// and propagates deletions for removed ones.
	ModeIncremental
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "incremental"
}

// Options configures an Engine.
type Options struct {
	// FS is the filesystem all artifact reads, output writes, and
	// deletions go through.
	FS fs.Filesystem

	// Resolver maps artifact identities to output locations. Required.
	Resolver artifact.Resolver

	// Transformers is the ordered transform chain.
	Transformers []Transformer

	// Workers sizes the per-invocation pool. Non-positive means one
	// worker per available processing unit.
	Workers int

	// TempDir receives verifier scratch output. Defaults to os.TempDir
	// semantics of the configured filesystem root.
	TempDir string

	// ReportDir receives the verification report file. Empty disables the
	// report file; results are still logged.
	ReportDir string

	// Logger receives progress and verification lines.
	Logger *slog.Logger

	// Verify enables the post-transform verification pass.
	Verify bool

	// Verifier validates outputs when Verify is set.
	Verifier verify.Verifier

	// VerifyTarget is the platform/version parameter handed to the
	// verifier.
	VerifyTarget string

	// DrainTimeout bounds the pool drain before a failing invocation
	// surfaces its error.
	DrainTimeout time.Duration
}

// DefaultOptions returns the default engine options.
func DefaultOptions() *Options {
	return &Options{
		FS:           fs.NewBaseOS(),
		TempDir:      "/tmp",
		Logger:       slog.Default(),
		DrainTimeout: time.Hour,
	}
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithFS sets the filesystem.
func WithFS(fsys fs.Filesystem) Option {
	return func(o *Options) { o.FS = fsys }
}

// WithResolver sets the output resolver.
func WithResolver(r artifact.Resolver) Option {
	return func(o *Options) { o.Resolver = r }
}

// WithTransformers sets the ordered transform chain.
func WithTransformers(ts ...Transformer) Option {
	return func(o *Options) { o.Transformers = ts }
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithTempDir sets the scratch directory.
func WithTempDir(dir string) Option {
	return func(o *Options) { o.TempDir = dir }
}

// WithReportDir sets the report directory.
func WithReportDir(dir string) Option {
	return func(o *Options) { o.ReportDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithVerify enables the verification pass with the given verifier and
// target version.
func WithVerify(v verify.Verifier, target string) Option {
	return func(o *Options) {
		o.Verify = true
		o.Verifier = v
		o.VerifyTarget = target
	}
}

// WithDrainTimeout bounds the pool drain on failure.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *Options) { o.DrainTimeout = d }
}

// Engine runs transform invocations. It is safe to reuse across builds; all
// mutable state lives in the per-invocation context.
type Engine struct {
	options *Options
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Resolver == nil {
		return nil, errors.New("engine: an output resolver is required")
	}
	if options.FS == nil {
		return nil, errors.New("engine: a filesystem is required")
	}
	if options.Verify && options.Verifier == nil {
		return nil, errors.New("engine: verification enabled without a verifier")
	}
	return &Engine{options: options}, nil
}

// Report is the outcome of one successful invocation.
type Report struct {
	// Records lists every output written during the invocation.
	Records []artifact.Record

	// Verifications holds the per-artifact verification results, in
	// verification order. Empty when verification is disabled.
	Verifications []verify.Result
}

// Run executes one transform invocation over the given input set.
func (e *Engine) Run(ctx context.Context, set *artifact.Set, mode Mode) (*Report, error) {
	inv := newInvocation(e.options, mode)
	return inv.run(ctx, set)
}
