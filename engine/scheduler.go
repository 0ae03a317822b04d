package engine

import (
	"os"
	"path/filepath"

	"github.com/Qautry/booster/artifact"
	"github.com/Qautry/booster/workpool"
)

// scheduleFull submits one task per artifact that rewrites it
// unconditionally. The out-of-date set is not consulted: a full build has no
// prior state to be incremental against.
func (inv *Invocation) scheduleFull(group *workpool.Group, set *artifact.Set) {
	for _, a := range set.All() {
		switch a.Kind {
		case artifact.KindArchive:
			group.Go(inv.pool, func() error {
				return inv.transformArchive(a)
			})
		case artifact.KindDirectory:
			group.Go(inv.pool, func() error {
				return inv.transformDirectory(a)
			})
		}
	}
}

// scheduleIncremental submits rewrite tasks for changed, added, and
// out-of-date inputs and delete tasks for removed ones. Archive outputs are
// always rewritten wholesale, never merged. For a directory artifact the
// change list drives per-file scheduling; a directory matched by the
// look-ahead has every contained file treated as changed.
func (inv *Invocation) scheduleIncremental(group *workpool.Group, set *artifact.Set) {
	for _, a := range set.All() {
		switch a.Kind {
		case artifact.KindArchive:
			inv.scheduleArchive(group, a)
		case artifact.KindDirectory:
			inv.scheduleDirectory(group, a)
		}
	}
}

func (inv *Invocation) scheduleArchive(group *workpool.Group, a *artifact.Artifact) {
	switch {
	case a.Status == artifact.StatusRemoved:
		group.Go(inv.pool, func() error {
			return inv.deleteOutput(a)
		})
	case a.Status == artifact.StatusChangedOrAdded || inv.OutOfDate(a.Name):
		group.Go(inv.pool, func() error {
			return inv.transformArchive(a)
		})
	}
}

func (inv *Invocation) scheduleDirectory(group *workpool.Group, a *artifact.Artifact) {
	files := a.Files
	if inv.OutOfDate(a.Name) {
		all, err := inv.treeAsChanged(a)
		if err != nil {
			group.Go(inv.pool, func() error { return err })
			return
		}
		files = all
	}
	for _, fc := range files {
		switch fc.Status {
		case artifact.StatusRemoved:
			group.Go(inv.pool, func() error {
				return inv.deleteFile(a, fc.Path)
			})
		default:
			group.Go(inv.pool, func() error {
				return inv.transformFile(a, fc.Path)
			})
		}
	}
}

// treeAsChanged enumerates every file under the directory artifact as
// CHANGED_OR_ADDED, removed entries from the change list preserved.
func (inv *Invocation) treeAsChanged(a *artifact.Artifact) ([]artifact.FileChange, error) {
	var files []artifact.FileChange
	for _, fc := range a.Files {
		if fc.Status == artifact.StatusRemoved {
			files = append(files, fc)
		}
	}
	err := inv.FS().Walk(a.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(a.Path, path)
		if err != nil {
			return err
		}
		files = append(files, artifact.FileChange{Path: rel, Status: artifact.StatusChangedOrAdded})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
