// Package archive rewrites zip archives entry by entry. The engine treats an
// archive artifact's bytes wholesale; transformers that operate per class
// file use Rewrite inside Transform to open the archive, rewrite each entry,
// and repack the result.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// EntryFunc rewrites the contents of one archive entry. Returning the input
// slice unmodified keeps the entry as-is.
type EntryFunc func(name string, data []byte) ([]byte, error)

// Rewrite applies fn to every file entry of the zip archive in data and
// returns the repacked archive. Entry order, names, and compression methods
// are preserved; directory entries pass through untouched.
func Rewrite(data []byte, fn EntryFunc) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	r.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReader(in)
	})

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	for _, f := range r.File {
		if err := rewriteEntry(w, f, fn); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("archive: close: %w", err)
	}
	return buf.Bytes(), nil
}

func rewriteEntry(w *zip.Writer, f *zip.File, fn EntryFunc) error {
	header := f.FileHeader
	if header.FileInfo().IsDir() {
		if _, err := w.CreateHeader(&header); err != nil {
			return fmt.Errorf("archive: entry %q: %w", f.Name, err)
		}
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("archive: open entry %q: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	if cerr := rc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("archive: read entry %q: %w", f.Name, err)
	}

	data, err = fn(f.Name, data)
	if err != nil {
		return fmt.Errorf("archive: rewrite entry %q: %w", f.Name, err)
	}

	// Sizes and CRC belong to the old contents; the writer recomputes them.
	header.CRC32 = 0
	header.CompressedSize64 = 0
	header.UncompressedSize64 = 0

	out, err := w.CreateHeader(&header)
	if err != nil {
		return fmt.Errorf("archive: entry %q: %w", f.Name, err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("archive: write entry %q: %w", f.Name, err)
	}
	return nil
}
