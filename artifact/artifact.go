// Package artifact models the inputs and outputs of one transform invocation:
// the binary units handed over by the upstream build (archives and directory
// trees of class files), their per-item change statuses, the resolution of an
// artifact's identity to a physical output location, and the records of every
// output produced during the invocation.
package artifact

import "fmt"

// Kind distinguishes how an artifact is laid out on disk.
type Kind int

const (
	// KindArchive is a single-file archive transformed as a whole.
	KindArchive Kind = iota

	// KindDirectory is a tree of files, each carrying its own change status.
	KindDirectory
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "archive"
	case KindDirectory:
		return "directory"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status classifies an artifact (or a file within a directory artifact)
// relative to the previous build.
type Status int

const (
	// StatusUnchanged means the item is identical to the previous build.
	StatusUnchanged Status = iota

	// StatusChangedOrAdded means the item is new or its contents changed.
	StatusChangedOrAdded

	// StatusRemoved means the item existed in the previous build and is gone.
	StatusRemoved
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChangedOrAdded:
		return "changed-or-added"
	case StatusRemoved:
		return "removed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// FileChange is one entry in a directory artifact's change list. Path is
// relative to the artifact's root. The list carries only files whose state
// differs from the previous build; files absent from the list are unchanged.
type FileChange struct {
	Path   string
	Status Status
}

// Artifact is one binary unit handed to the engine for transformation.
//
// Archive artifacts point Path at the archive file and are rewritten
// wholesale. Directory artifacts point Path at the tree root and carry the
// per-file change list in Files.
type Artifact struct {
	// Name is the logical identity of the artifact, unique within one
	// invocation's input set.
	Name string

	// Scopes are the content-scope tags that participate in output
	// resolution. Callers must keep (Name, Scopes) pairs distinct per
	// output path; two artifacts resolving to the same path is undefined.
	Scopes []string

	Kind   Kind
	Path   string
	Status Status

	// Files is the contained-file change list for directory artifacts.
	Files []FileChange
}

// Set is the normalized input set of one invocation. Iteration order is
// insertion order; the scheduler submits tasks in this order.
type Set struct {
	artifacts []*Artifact
	byName    map[string]*Artifact
}

// NewSet creates a Set from the given artifacts.
func NewSet(artifacts ...*Artifact) *Set {
	s := &Set{byName: make(map[string]*Artifact, len(artifacts))}
	for _, a := range artifacts {
		s.Add(a)
	}
	return s
}

// Add appends an artifact to the set. A later artifact with a duplicate name
// replaces the earlier one in lookups but keeps the original position.
func (s *Set) Add(a *Artifact) {
	if _, ok := s.byName[a.Name]; !ok {
		s.artifacts = append(s.artifacts, a)
	}
	s.byName[a.Name] = a
}

// All returns the artifacts in insertion order. The returned slice is shared;
// callers must not modify it.
func (s *Set) All() []*Artifact {
	return s.artifacts
}

// Lookup returns the artifact with the given name, if present.
func (s *Set) Lookup(name string) (*Artifact, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// Len returns the number of artifacts in the set.
func (s *Set) Len() int {
	return len(s.artifacts)
}
