package archive_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qautry/booster/archive"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"META-INF/MANIFEST.MF", "com/example/A.class", "com/example/B.class"} {
		data, ok := entries[name]
		if !ok {
			continue
		}
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(content)
	}
	return out
}

func TestRewriteTransformsEveryEntry(t *testing.T) {
	in := buildZip(t, map[string]string{
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n",
		"com/example/A.class":  "class-a",
		"com/example/B.class":  "class-b",
	})

	out, err := archive.Rewrite(in, func(name string, data []byte) ([]byte, error) {
		if !strings.HasSuffix(name, ".class") {
			return data, nil
		}
		return append(data, []byte("+woven")...), nil
	})
	require.NoError(t, err)

	entries := readZip(t, out)
	assert.Equal(t, "Manifest-Version: 1.0\n", entries["META-INF/MANIFEST.MF"])
	assert.Equal(t, "class-a+woven", entries["com/example/A.class"])
	assert.Equal(t, "class-b+woven", entries["com/example/B.class"])
}

func TestRewritePreservesEntryOrder(t *testing.T) {
	in := buildZip(t, map[string]string{
		"META-INF/MANIFEST.MF": "m",
		"com/example/A.class":  "a",
		"com/example/B.class":  "b",
	})

	out, err := archive.Rewrite(in, func(_ string, data []byte) ([]byte, error) {
		return data, nil
	})
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"META-INF/MANIFEST.MF", "com/example/A.class", "com/example/B.class"}, names)
}

func TestRewriteEntryErrorAborts(t *testing.T) {
	in := buildZip(t, map[string]string{"com/example/A.class": "a"})

	boom := errors.New("unreadable constant pool")
	_, err := archive.Rewrite(in, func(string, []byte) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestRewriteRejectsGarbage(t *testing.T) {
	_, err := archive.Rewrite([]byte("not a zip"), func(_ string, data []byte) ([]byte, error) {
		return data, nil
	})
	require.Error(t, err)
}
