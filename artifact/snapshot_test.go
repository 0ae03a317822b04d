package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qautry/booster/artifact"
	"github.com/Qautry/booster/fs"
)

func snapshotInputs(t *testing.T) (*fs.BillyFS, *artifact.Set) {
	t.Helper()
	fsys := fs.NewInMemory()
	require.NoError(t, fsys.WriteFile("/in/lib.jar", []byte("archive-bytes"), 0o644))
	require.NoError(t, fsys.MkdirAll("/in/classes/com", 0o755))
	require.NoError(t, fsys.WriteFile("/in/classes/com/A.class", []byte("class-a"), 0o644))
	require.NoError(t, fsys.WriteFile("/in/classes/com/B.class", []byte("class-b"), 0o644))

	set := artifact.NewSet(
		&artifact.Artifact{Name: "lib", Scopes: []string{"main"}, Kind: artifact.KindArchive, Path: "/in/lib.jar"},
		&artifact.Artifact{Name: "classes", Scopes: []string{"main"}, Kind: artifact.KindDirectory, Path: "/in/classes"},
	)
	return fsys, set
}

func TestSnapshotterFirstBuildMarksEverythingChanged(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")

	require.NoError(t, snap.Apply(set))

	lib, _ := set.Lookup("lib")
	assert.Equal(t, artifact.StatusChangedOrAdded, lib.Status)

	classes, _ := set.Lookup("classes")
	assert.Equal(t, artifact.StatusChangedOrAdded, classes.Status)
	assert.Len(t, classes.Files, 2)
	for _, fc := range classes.Files {
		assert.Equal(t, artifact.StatusChangedOrAdded, fc.Status)
	}
}

func TestSnapshotterUnchangedAfterSave(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")
	require.NoError(t, snap.Save(set))

	require.NoError(t, snap.Apply(set))

	lib, _ := set.Lookup("lib")
	assert.Equal(t, artifact.StatusUnchanged, lib.Status)

	classes, _ := set.Lookup("classes")
	assert.Equal(t, artifact.StatusUnchanged, classes.Status)
	assert.Empty(t, classes.Files)
}

func TestSnapshotterDetectsFileChangeAndRemoval(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")
	require.NoError(t, snap.Save(set))

	require.NoError(t, fsys.WriteFile("/in/classes/com/A.class", []byte("class-a-v2"), 0o644))
	require.NoError(t, fsys.Remove("/in/classes/com/B.class"))
	require.NoError(t, fsys.WriteFile("/in/classes/com/C.class", []byte("class-c"), 0o644))

	require.NoError(t, snap.Apply(set))

	classes, _ := set.Lookup("classes")
	assert.Equal(t, artifact.StatusChangedOrAdded, classes.Status)

	byPath := map[string]artifact.Status{}
	for _, fc := range classes.Files {
		byPath[fc.Path] = fc.Status
	}
	assert.Equal(t, artifact.StatusChangedOrAdded, byPath["com/A.class"])
	assert.Equal(t, artifact.StatusRemoved, byPath["com/B.class"])
	assert.Equal(t, artifact.StatusChangedOrAdded, byPath["com/C.class"])
	assert.Len(t, byPath, 3)
}

func TestSnapshotterDetectsArchiveChange(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")
	require.NoError(t, snap.Save(set))

	require.NoError(t, fsys.WriteFile("/in/lib.jar", []byte("archive-bytes-v2"), 0o644))

	require.NoError(t, snap.Apply(set))
	lib, _ := set.Lookup("lib")
	assert.Equal(t, artifact.StatusChangedOrAdded, lib.Status)
}

func TestSnapshotterSynthesizesRemovedArtifacts(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")
	require.NoError(t, snap.Save(set))

	next := artifact.NewSet(
		&artifact.Artifact{Name: "classes", Scopes: []string{"main"}, Kind: artifact.KindDirectory, Path: "/in/classes"},
	)
	require.NoError(t, snap.Apply(next))

	lib, ok := next.Lookup("lib")
	require.True(t, ok, "removed artifact should be synthesized into the set")
	assert.Equal(t, artifact.StatusRemoved, lib.Status)
	assert.Equal(t, artifact.KindArchive, lib.Kind)
	assert.Equal(t, []string{"main"}, lib.Scopes)
}

func TestSnapshotterSynthesizedDirectoryCarriesRemovedFiles(t *testing.T) {
	fsys, set := snapshotInputs(t)
	snap := artifact.NewSnapshotter(fsys, "/state/snapshot.json")
	require.NoError(t, snap.Save(set))

	require.NoError(t, fsys.RemoveAll("/in/classes"))
	next := artifact.NewSet(
		&artifact.Artifact{Name: "lib", Scopes: []string{"main"}, Kind: artifact.KindArchive, Path: "/in/lib.jar"},
	)
	require.NoError(t, snap.Apply(next))

	classes, ok := next.Lookup("classes")
	require.True(t, ok, "removed artifact should be synthesized into the set")
	assert.Equal(t, artifact.StatusRemoved, classes.Status)
	assert.Equal(t, artifact.KindDirectory, classes.Kind)

	require.Len(t, classes.Files, 2)
	assert.Equal(t, artifact.FileChange{Path: "com/A.class", Status: artifact.StatusRemoved}, classes.Files[0])
	assert.Equal(t, artifact.FileChange{Path: "com/B.class", Status: artifact.StatusRemoved}, classes.Files[1])
}
