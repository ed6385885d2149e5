package persistence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/arraybench/internal/fs"
)

// ErrOpen marks failures to create or open the file itself, as opposed to
// failures while transferring its contents.
var ErrOpen = errors.New("cannot open file")

// WriteOptions tunes WriteFile.
type WriteOptions struct {
	// BufferSize enables a bufio.Writer of this size. 0 writes straight to the file.
	BufferSize int
	// Sync fsyncs the file before closing it.
	Sync bool
	// FS opens the file. Nil uses fs.Default.
	FS fs.FileSystem
}

// WriteFile creates (or truncates) path, hands a writer to fn and releases the
// file on every exit path. It returns the number of bytes that reached the file.
// Errors opening the file wrap ErrOpen; flush, sync and close errors are
// reported even when fn succeeded.
func WriteFile(path string, opts WriteOptions, fn func(w io.Writer) error) (n int64, err error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	cw := &countingWriter{w: f}
	var w io.Writer = cw
	var bw *bufio.Writer
	if opts.BufferSize > 0 {
		bw = bufio.NewWriterSize(cw, opts.BufferSize)
		w = bw
	}

	if err := fn(w); err != nil {
		return cw.n, err
	}
	if bw != nil {
		if err := bw.Flush(); err != nil {
			return cw.n, fmt.Errorf("flush %s: %w", path, err)
		}
	}
	if opts.Sync {
		if err := f.Sync(); err != nil {
			return cw.n, fmt.Errorf("sync %s: %w", path, err)
		}
	}
	return cw.n, nil
}

// ReadFile opens path read-only, passes the file and its size to fn and
// closes it afterwards. A nil fsys uses fs.Default. Errors opening or
// stating the file wrap ErrOpen.
func ReadFile(fsys fs.FileSystem, path string, fn func(f fs.File, size int64) error) error {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrOpen, path, err)
	}
	return fn(f, fi.Size())
}

// RemoveStale deletes path if it exists.
func RemoveStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
