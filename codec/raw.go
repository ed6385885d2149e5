package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/internal/fs"
	"github.com/hupe1980/arraybench/internal/mmap"
	"github.com/hupe1980/arraybench/persistence"
)

// Raw stores the buffer's native-endian bytes with no header.
// Files are not portable across byte orders.
type Raw struct {
	mmap bool
	sync bool
	fsys fs.FileSystem
}

// RawOption configures a Raw codec.
type RawOption func(*Raw)

// WithMmap reads through a read-only memory mapping instead of read(2).
func WithMmap(enabled bool) RawOption {
	return func(r *Raw) { r.mmap = enabled }
}

// WithSync fsyncs the file before closing it on write.
func WithSync(enabled bool) RawOption {
	return func(r *Raw) { r.sync = enabled }
}

// NewRaw returns a raw binary codec.
func NewRaw(opts ...RawOption) *Raw {
	r := &Raw{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Raw) Descriptor() Descriptor {
	return Descriptor{Name: NameRaw, ElementWidth: buffer.ElementWidth, Fidelity: buffer.ExactFidelity}
}

func (r *Raw) Extension() string { return "dat" }

// Write stores the buffer in one bulk write.
func (r *Raw) Write(buf *buffer.Buffer, dst string) (Outcome, error) {
	n, err := persistence.WriteFile(dst, persistence.WriteOptions{Sync: r.sync, FS: r.fsys}, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return Outcome{Bytes: n}, classify(NameRaw, "write", dst, ErrEncode, err)
	}
	return Outcome{Bytes: n}, nil
}

// Read loads exactly n elements. The file must hold exactly n*8 bytes.
func (r *Raw) Read(src string, n int) (*buffer.Buffer, Outcome, error) {
	if n < 0 {
		return nil, Outcome{}, newError(NameRaw, "read", src, ErrDecode, errors.New("element count required"))
	}
	if r.mmap {
		return r.readMapped(src, n)
	}

	var (
		out  *buffer.Buffer
		size int64
	)
	err := persistence.ReadFile(r.fsys, src, func(f fs.File, sz int64) error {
		size = sz
		if err := checkRawSize(sz, n); err != nil {
			return err
		}
		b, err := buffer.Make(n)
		if err != nil {
			return err
		}
		if _, err := io.ReadFull(f, b.Bytes()); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, Outcome{Bytes: size}, classify(NameRaw, "read", src, ErrDecode, err)
	}
	return out, Outcome{Bytes: size}, nil
}

func (r *Raw) readMapped(src string, n int) (*buffer.Buffer, Outcome, error) {
	m, err := mmap.Open(src, mmap.AccessSequential)
	if err != nil {
		return nil, Outcome{}, newError(NameRaw, "read", src, ErrIO, err)
	}
	defer m.Close()

	size := int64(m.Size())
	if err := checkRawSize(size, n); err != nil {
		return nil, Outcome{Bytes: size}, newError(NameRaw, "read", src, ErrDecode, err)
	}
	b, err := buffer.Make(n)
	if err != nil {
		return nil, Outcome{Bytes: size}, newError(NameRaw, "read", src, ErrDecode, err)
	}
	copy(b.Bytes(), m.Bytes())
	return b, Outcome{Bytes: size}, nil
}

func checkRawSize(size int64, n int) error {
	if size%buffer.ElementWidth != 0 {
		return fmt.Errorf("size %d is not a multiple of %d", size, buffer.ElementWidth)
	}
	if want := int64(n) * buffer.ElementWidth; size != want {
		return fmt.Errorf("size %d holds %d elements, want %d", size, size/buffer.ElementWidth, n)
	}
	return nil
}
