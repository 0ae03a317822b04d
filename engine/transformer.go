package engine

// Transformer is one byte-rewriting plugin in the transform chain. The chain
// is ordered: each transformer consumes the previous transformer's output
// bytes. Transform must be safe for concurrent calls; the scheduler runs one
// chain per artifact across the worker pool.
type Transformer interface {
	// Name identifies the transformer in errors and logs.
	Name() string

	// Transform rewrites one artifact's bytes.
	Transform(inv *Invocation, data []byte) ([]byte, error)
}

// PreTransformer is implemented by transformers that need a hook before any
// scanning or scheduling happens. This is the only point where the collector
// registry may be mutated.
type PreTransformer interface {
	PreTransform(inv *Invocation) error
}

// PostTransformer is implemented by transformers that need a hook after every
// transform and delete task of the invocation has completed.
type PostTransformer interface {
	PostTransform(inv *Invocation) error
}
