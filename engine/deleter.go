package engine

import (
	"path/filepath"

	"github.com/Qautry/booster/artifact"
)

// deleteOutput removes the prior output of a removed archive artifact. The
// resolver is a pure function of identity, so the removed artifact resolves
// to the same path the previous build wrote.
func (inv *Invocation) deleteOutput(a *artifact.Artifact) error {
	out, ok := inv.options.Resolver.Output(a.Name, a.Scopes, a.Kind)
	if !ok {
		return nil
	}
	removed, err := inv.removeIfPresent(out)
	if err != nil {
		return err
	}
	if removed {
		inv.Logger().Info("deleted output", "artifact", a.Name, "output", out)
	}
	return nil
}

// deleteFile removes the mirrored output of a removed contained file, then
// sweeps every sibling output root for a stale copy at the same relative
// path. Scope-to-root mapping can change between builds; without the sweep a
// moved or deleted source file would leave an orphaned output in the root it
// used to live under, corrupting the next packaging step.
func (inv *Invocation) deleteFile(a *artifact.Artifact, rel string) error {
	root, ok := inv.options.Resolver.Output(a.Name, a.Scopes, a.Kind)
	if !ok {
		return nil
	}
	removed, err := inv.removeIfPresent(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	if removed {
		inv.Logger().Info("deleted file", "artifact", a.Name, "file", rel)
	}
	return inv.sweepStaleMirrors(rel, root)
}

// sweepStaleMirrors deletes any file at the same relative path under every
// known output root except the current one.
func (inv *Invocation) sweepStaleMirrors(rel, currentRoot string) error {
	for _, root := range inv.options.Resolver.Roots() {
		if root == currentRoot {
			continue
		}
		removed, err := inv.removeIfPresent(filepath.Join(root, rel))
		if err != nil {
			return err
		}
		if removed {
			inv.Logger().Info("deleted stale mirror", "file", rel, "root", root)
		}
	}
	return nil
}

// removeIfPresent reports whether a file was actually removed so callers can
// keep the deletion log honest.
func (inv *Invocation) removeIfPresent(path string) (bool, error) {
	exists, err := inv.FS().Exists(path)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := inv.FS().Remove(path); err != nil {
		return false, err
	}
	return true, nil
}
