package artifact_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qautry/booster/artifact"
)

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := artifact.NewSet(
		&artifact.Artifact{Name: "b"},
		&artifact.Artifact{Name: "a"},
		&artifact.Artifact{Name: "c"},
	)

	var names []string
	for _, a := range s.All() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
	assert.Equal(t, 3, s.Len())

	a, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestSetDuplicateNameReplacesLookup(t *testing.T) {
	first := &artifact.Artifact{Name: "a", Status: artifact.StatusUnchanged}
	second := &artifact.Artifact{Name: "a", Status: artifact.StatusChangedOrAdded}

	s := artifact.NewSet(first, second)
	assert.Equal(t, 2, len(s.All()))

	got, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, artifact.StatusChangedOrAdded, got.Status)
}

func TestScopedResolverArchive(t *testing.T) {
	r := artifact.NewScopedResolver("/out", []string{"main"}, []string{"test"})

	p, ok := r.Output("lib", []string{"main"}, artifact.KindArchive)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/out", "main", "lib.jar"), p)
}

func TestScopedResolverDirectoryMirrorsIntoRoot(t *testing.T) {
	r := artifact.NewScopedResolver("/out", []string{"main"})

	p, ok := r.Output("classes", []string{"main"}, artifact.KindDirectory)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/out", "main"), p)
}

func TestScopedResolverUnknownScope(t *testing.T) {
	r := artifact.NewScopedResolver("/out", []string{"main"})

	_, ok := r.Output("lib", []string{"other"}, artifact.KindArchive)
	assert.False(t, ok)
}

func TestScopedResolverScopeKeyIsOrderInsensitive(t *testing.T) {
	r := artifact.NewScopedResolver("/out", []string{"main", "sub"})

	a, ok := r.Output("lib", []string{"main", "sub"}, artifact.KindArchive)
	require.True(t, ok)
	b, ok := r.Output("lib", []string{"sub", "main"}, artifact.KindArchive)
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestScopedResolverRoots(t *testing.T) {
	r := artifact.NewScopedResolver("/out", []string{"main"}, []string{"test"})
	assert.Equal(t, []string{
		filepath.Join("/out", "main"),
		filepath.Join("/out", "test"),
	}, r.Roots())
}

func TestRecordsSortedByBaseNameExtensionInsensitive(t *testing.T) {
	recs := &artifact.Records{}
	recs.Add(artifact.Record{Name: "z", Path: "/out/zeta.jar"})
	recs.Add(artifact.Record{Name: "a", Path: "/out/alpha.class"})
	recs.Add(artifact.Record{Name: "m", Path: "/out/mid"})

	sorted := recs.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "alpha", sorted[0].BaseName())
	assert.Equal(t, "mid", sorted[1].BaseName())
	assert.Equal(t, "zeta", sorted[2].BaseName())
}

func TestRecordsConcurrentAppend(t *testing.T) {
	recs := &artifact.Records{}
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				recs.Add(artifact.Record{Name: "n", Path: "/p"})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 800, recs.Len())
}

func TestStatusAndKindStrings(t *testing.T) {
	assert.Equal(t, "unchanged", artifact.StatusUnchanged.String())
	assert.Equal(t, "changed-or-added", artifact.StatusChangedOrAdded.String())
	assert.Equal(t, "removed", artifact.StatusRemoved.String())
	assert.Equal(t, "archive", artifact.KindArchive.String())
	assert.Equal(t, "directory", artifact.KindDirectory.String())
}
