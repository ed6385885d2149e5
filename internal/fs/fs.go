package fs

import (
	"io"
	"os"
)

// File represents an open file.
type File interface {
	io.ReadWriteCloser
	io.ReaderAt
	Sync() error
	Stat() (os.FileInfo, error)
}

// FileSystem abstracts the file operations codecs perform.
type FileSystem interface {
	// Create creates or truncates name for writing.
	Create(name string) (File, error)
	// Open opens name read-only.
	Open(name string) (File, error)
	Remove(name string) error
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) Create(name string) (File, error) { return os.Create(name) }
func (LocalFS) Open(name string) (File, error)   { return os.Open(name) }
func (LocalFS) Remove(name string) error         { return os.Remove(name) }

// Default is the default local file system.
var Default FileSystem = LocalFS{}
