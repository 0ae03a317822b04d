package engine

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Qautry/booster/artifact"
)

// applyChain folds the transform chain left to right over data. The write for
// an artifact happens only after the whole chain has succeeded, so a failing
// transformer leaves no partial output behind.
func (inv *Invocation) applyChain(name string, data []byte) ([]byte, error) {
	for _, t := range inv.options.Transformers {
		out, err := t.Transform(inv, data)
		if err != nil {
			return nil, &TransformError{Artifact: name, Transformer: t.Name(), Err: err}
		}
		data = out
	}
	return data, nil
}

// transformArchive rewrites a whole archive artifact to its resolved output
// path and records the output. An identity with no output provider is
// skipped: nothing to write this invocation.
func (inv *Invocation) transformArchive(a *artifact.Artifact) error {
	out, ok := inv.options.Resolver.Output(a.Name, a.Scopes, a.Kind)
	if !ok {
		inv.Logger().Debug("no output provider, skipping", "artifact", a.Name)
		return nil
	}
	data, err := inv.FS().ReadFile(a.Path)
	if err != nil {
		return fmt.Errorf("engine: read archive %q: %w", a.Path, err)
	}
	data, err = inv.applyChain(a.Name, data)
	if err != nil {
		return err
	}
	if err := inv.writeOutput(out, data); err != nil {
		return err
	}
	inv.records.Add(artifact.Record{Name: a.Name, Scopes: a.Scopes, Kind: a.Kind, Path: out})
	inv.Logger().Info("transformed archive", "artifact", a.Name, "output", out)
	return nil
}

// transformDirectory rewrites every file of a directory artifact under its
// resolved output root, mirroring relative paths. Used by the full algorithm;
// the incremental algorithm schedules contained files individually.
func (inv *Invocation) transformDirectory(a *artifact.Artifact) error {
	root, ok := inv.options.Resolver.Output(a.Name, a.Scopes, a.Kind)
	if !ok {
		inv.Logger().Debug("no output provider, skipping", "artifact", a.Name)
		return nil
	}
	return inv.FS().Walk(a.Path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(a.Path, p)
		if err != nil {
			return err
		}
		return inv.transformFileTo(a, rel, root)
	})
}

// transformFile rewrites one contained file of a directory artifact.
func (inv *Invocation) transformFile(a *artifact.Artifact, rel string) error {
	root, ok := inv.options.Resolver.Output(a.Name, a.Scopes, a.Kind)
	if !ok {
		inv.Logger().Debug("no output provider, skipping", "artifact", a.Name, "file", rel)
		return nil
	}
	return inv.transformFileTo(a, rel, root)
}

func (inv *Invocation) transformFileTo(a *artifact.Artifact, rel, root string) error {
	src := filepath.Join(a.Path, rel)
	data, err := inv.FS().ReadFile(src)
	if err != nil {
		return fmt.Errorf("engine: read file %q: %w", src, err)
	}
	name := path.Join(a.Name, filepath.ToSlash(rel))
	data, err = inv.applyChain(name, data)
	if err != nil {
		return err
	}
	dst := filepath.Join(root, rel)
	if err := inv.writeOutput(dst, data); err != nil {
		return err
	}
	inv.records.Add(artifact.Record{Name: name, Scopes: a.Scopes, Kind: a.Kind, Path: dst})
	inv.Logger().Info("transformed file", "artifact", a.Name, "file", rel, "output", dst)
	return nil
}

func (inv *Invocation) writeOutput(dst string, data []byte) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := inv.FS().MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return inv.FS().WriteFile(dst, data, 0o644)
}
