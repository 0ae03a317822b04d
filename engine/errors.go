package engine

import "fmt"

// TransformError wraps a transformer failure for one artifact. The artifact's
// output is not written; the batch it belongs to fails once awaited, after
// every sibling task has finished.
type TransformError struct {
	Artifact    string
	Transformer string
	Err         error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transforming %q with %s: %v", e.Artifact, e.Transformer, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
