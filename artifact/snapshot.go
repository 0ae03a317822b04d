package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/minio/highwayhash"

	"github.com/Qautry/booster/fs"
)

// hashKey is fixed: snapshot hashes only ever compare against hashes produced
// by this package, never against external digests.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func hashBytes(data []byte) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// archiveEntry keys an archive artifact's single content hash inside the
// per-artifact hash map.
const archiveEntry = "."

type artifactState struct {
	Kind   string            `json:"kind"`
	Scopes []string          `json:"scopes,omitempty"`
	Hashes map[string]string `json:"hashes"`
}

type snapshotState struct {
	Artifacts map[string]artifactState `json:"artifacts"`
}

// Snapshotter derives per-artifact change statuses by comparing content
// hashes against the state recorded by a previous build. It covers the case
// where the upstream build cannot supply per-item statuses itself; builds
// that do supply statuses never need it.
type Snapshotter struct {
	fs   fs.Filesystem
	path string
}

// NewSnapshotter creates a Snapshotter persisting state at the given path.
func NewSnapshotter(fsys fs.Filesystem, statePath string) *Snapshotter {
	return &Snapshotter{fs: fsys, path: statePath}
}

// Apply fills in the Status (and, for directory artifacts, Files) of every
// artifact in the set by diffing current content hashes against the prior
// snapshot, and appends a REMOVED artifact for every name the prior snapshot
// knows that the set no longer contains. With no prior snapshot on disk,
// everything is CHANGED_OR_ADDED.
func (s *Snapshotter) Apply(set *Set) error {
	prior, err := s.load()
	if err != nil {
		return err
	}
	for _, a := range set.All() {
		before, known := prior.Artifacts[a.Name]
		switch a.Kind {
		case KindArchive:
			if err := s.applyArchive(a, before, known); err != nil {
				return err
			}
		case KindDirectory:
			if err := s.applyDirectory(a, before, known); err != nil {
				return err
			}
		}
	}
	for name, before := range prior.Artifacts {
		if _, ok := set.Lookup(name); ok {
			continue
		}
		kind := KindArchive
		if before.Kind == KindDirectory.String() {
			kind = KindDirectory
		}
		removed := &Artifact{
			Name:   name,
			Scopes: before.Scopes,
			Kind:   kind,
			Status: StatusRemoved,
		}
		// A vanished directory must still drive per-file deletion: the
		// prior snapshot holds every relative path the last build wrote.
		if kind == KindDirectory {
			rels := make([]string, 0, len(before.Hashes))
			for rel := range before.Hashes {
				rels = append(rels, rel)
			}
			sort.Strings(rels)
			for _, rel := range rels {
				removed.Files = append(removed.Files, FileChange{Path: rel, Status: StatusRemoved})
			}
		}
		set.Add(removed)
	}
	return nil
}

func (s *Snapshotter) applyArchive(a *Artifact, before artifactState, known bool) error {
	data, err := s.fs.ReadFile(a.Path)
	if err != nil {
		return fmt.Errorf("snapshot: read archive %q: %w", a.Path, err)
	}
	sum, err := hashBytes(data)
	if err != nil {
		return fmt.Errorf("snapshot: hash archive %q: %w", a.Name, err)
	}
	if known && before.Hashes[archiveEntry] == sum {
		a.Status = StatusUnchanged
	} else {
		a.Status = StatusChangedOrAdded
	}
	return nil
}

func (s *Snapshotter) applyDirectory(a *Artifact, before artifactState, known bool) error {
	current, err := s.hashTree(a.Path)
	if err != nil {
		return err
	}
	a.Files = a.Files[:0]
	changed := false
	for rel, sum := range current {
		if known && before.Hashes[rel] == sum {
			continue
		}
		a.Files = append(a.Files, FileChange{Path: rel, Status: StatusChangedOrAdded})
		changed = true
	}
	if known {
		for rel := range before.Hashes {
			if _, ok := current[rel]; !ok {
				a.Files = append(a.Files, FileChange{Path: rel, Status: StatusRemoved})
				changed = true
			}
		}
	}
	if changed {
		a.Status = StatusChangedOrAdded
	} else {
		a.Status = StatusUnchanged
	}
	return nil
}

// Save records the current content hashes of every non-removed artifact in
// the set, to seed the next build's diff.
func (s *Snapshotter) Save(set *Set) error {
	state := snapshotState{Artifacts: make(map[string]artifactState, set.Len())}
	for _, a := range set.All() {
		if a.Status == StatusRemoved {
			continue
		}
		entry := artifactState{Kind: a.Kind.String(), Scopes: a.Scopes}
		switch a.Kind {
		case KindArchive:
			data, err := s.fs.ReadFile(a.Path)
			if err != nil {
				return fmt.Errorf("snapshot: read archive %q: %w", a.Path, err)
			}
			sum, err := hashBytes(data)
			if err != nil {
				return fmt.Errorf("snapshot: hash archive %q: %w", a.Name, err)
			}
			entry.Hashes = map[string]string{archiveEntry: sum}
		case KindDirectory:
			hashes, err := s.hashTree(a.Path)
			if err != nil {
				return err
			}
			entry.Hashes = hashes
		}
		state.Artifacts[a.Name] = entry
	}
	data, err := json.MarshalIndent(&state, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return s.fs.WriteFile(s.path, data, 0o644)
}

func (s *Snapshotter) load() (snapshotState, error) {
	state := snapshotState{Artifacts: map[string]artifactState{}}
	exists, err := s.fs.Exists(s.path)
	if err != nil || !exists {
		return state, err
	}
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("snapshot: decode state %q: %w", s.path, err)
	}
	if state.Artifacts == nil {
		state.Artifacts = map[string]artifactState{}
	}
	return state, nil
}

func (s *Snapshotter) hashTree(root string) (map[string]string, error) {
	hashes := make(map[string]string)
	err := s.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return err
		}
		sum, err := hashBytes(data)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		hashes[rel] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: walk %q: %w", root, err)
	}
	return hashes, nil
}
