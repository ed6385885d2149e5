// Package native implements container.Backend with an architecture-independent
// single-file format.
//
// Layout:
//
//	[0:32)    persistence.FileHeader (little-endian, magic "ABH1")
//	[32:...)  dataset payloads, little-endian float64, in creation order
//	[dir:...) JSON directory of datasets, CRC32-protected by the header
//
// The header is written last, when the file ID is closed, so a file that was
// never closed fails magic validation on open.
package native

import (
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"slices"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/arraybench/container"
	"github.com/hupe1980/arraybench/internal/conv"
	"github.com/hupe1980/arraybench/persistence"
)

// Backend is the native container backend. The zero value is not usable; use New.
type Backend struct {
	objects container.Table[any]
}

// New returns a native backend.
func New() *Backend {
	return &Backend{}
}

// Name returns "native".
func (b *Backend) Name() string { return "native" }

type dataspace struct {
	dims []uint64
}

// entry is one dataset in the on-disk directory.
type entry struct {
	Name     string   `json:"name"`
	Datatype string   `json:"dtype"`
	Dims     []uint64 `json:"dims"`
	Offset   int64    `json:"offset"`
	Length   int64    `json:"length"`
	CRC32    uint32   `json:"crc32"`

	written bool
}

type directory struct {
	Datasets []*entry `json:"datasets"`
}

type file struct {
	path     string
	f        *os.File
	writable bool
	closed   bool
	end      int64
	dir      directory
}

func (f *file) lookup(name string) *entry {
	for _, e := range f.dir.Datasets {
		if e.Name == name {
			return e
		}
	}
	return nil
}

type dataset struct {
	file  *file
	entry *entry
}

func canonical(name string) string {
	return path.Clean("/" + name)
}

// CreateDataspace registers a shape.
func (b *Backend) CreateDataspace(dims []uint64) (container.ID, error) {
	return b.objects.Put(&dataspace{dims: slices.Clone(dims)}), nil
}

// CreateFile creates or truncates path for writing.
func (b *Backend) CreateFile(p string) (container.ID, error) {
	f, err := os.Create(p)
	if err != nil {
		return container.InvalidID, err
	}
	// Reserve the header; it is filled in on close.
	if _, err := f.WriteAt(make([]byte, persistence.HeaderSize), 0); err != nil {
		_ = f.Close()
		return container.InvalidID, fmt.Errorf("reserve header: %w", err)
	}
	return b.objects.Put(&file{path: p, f: f, writable: true, end: persistence.HeaderSize}), nil
}

// OpenFile opens an existing container read-only and loads its directory.
func (b *Backend) OpenFile(p string) (container.ID, error) {
	f, err := os.Open(p)
	if err != nil {
		return container.InvalidID, err
	}
	dir, err := loadDirectory(f)
	if err != nil {
		_ = f.Close()
		return container.InvalidID, fmt.Errorf("%s: %w", p, err)
	}
	return b.objects.Put(&file{path: p, f: f, dir: dir}), nil
}

func loadDirectory(f *os.File) (directory, error) {
	var dir directory

	fi, err := f.Stat()
	if err != nil {
		return dir, err
	}
	size := fi.Size()

	hb := make([]byte, persistence.HeaderSize)
	if _, err := f.ReadAt(hb, 0); err != nil {
		return dir, fmt.Errorf("%w: read header: %w", container.ErrCorrupt, err)
	}
	h, err := persistence.DecodeHeader(hb)
	if err != nil {
		return dir, fmt.Errorf("%w: %w", container.ErrCorrupt, err)
	}
	dirOff, err := conv.Uint64ToInt64(h.DirOffset)
	if err != nil {
		return dir, fmt.Errorf("%w: directory offset: %w", container.ErrCorrupt, err)
	}
	if dirOff < persistence.HeaderSize || dirOff > size || h.DirLength != uint64(size-dirOff) {
		return dir, fmt.Errorf("%w: directory [%d,+%d) does not end at file size %d",
			container.ErrCorrupt, h.DirOffset, h.DirLength, size)
	}

	raw := make([]byte, h.DirLength)
	if _, err := f.ReadAt(raw, dirOff); err != nil && err != io.EOF {
		return dir, fmt.Errorf("%w: read directory: %w", container.ErrCorrupt, err)
	}
	if err := persistence.VerifyChecksum(raw, h.DirChecksum); err != nil {
		return dir, fmt.Errorf("%w: directory: %w", container.ErrCorrupt, err)
	}
	if err := gojson.Unmarshal(raw, &dir); err != nil {
		return dir, fmt.Errorf("%w: directory: %w", container.ErrCorrupt, err)
	}

	for _, e := range dir.Datasets {
		want, err := payloadLength(e.Dims)
		if err != nil || e.Offset < persistence.HeaderSize || e.Length < 0 ||
			e.Length > dirOff-e.Offset || e.Length != want {
			return dir, fmt.Errorf("%w: dataset %q has bad bounds", container.ErrCorrupt, e.Name)
		}
		e.written = true
	}
	return dir, nil
}

// payloadLength returns the byte size of a float64 payload of shape dims.
func payloadLength(dims []uint64) (int64, error) {
	n := uint64(8)
	for _, d := range dims {
		var err error
		if n, err = conv.MulUint64(n, d); err != nil {
			return 0, err
		}
	}
	return conv.Uint64ToInt64(n)
}

// CreateDataset allocates a dataset of the dataspace's shape at the end of the file.
func (b *Backend) CreateDataset(fileID container.ID, name string, dtype container.Datatype, spaceID container.ID) (container.ID, error) {
	f, err := b.file(fileID)
	if err != nil {
		return container.InvalidID, err
	}
	if !f.writable {
		return container.InvalidID, container.ErrReadOnly
	}
	if dtype != container.Float64 {
		return container.InvalidID, fmt.Errorf("%w: %s", container.ErrUnsupportedType, dtype)
	}
	space, err := b.dataspace(spaceID)
	if err != nil {
		return container.InvalidID, err
	}

	name = canonical(name)
	if f.lookup(name) != nil {
		return container.InvalidID, fmt.Errorf("%w: %s", container.ErrExists, name)
	}

	length, err := payloadLength(space.dims)
	if err != nil || length > math.MaxInt64-f.end {
		return container.InvalidID, fmt.Errorf("%w: dataspace %v does not fit in a file", container.ErrShape, space.dims)
	}

	e := &entry{
		Name:     name,
		Datatype: dtype.String(),
		Dims:     slices.Clone(space.dims),
		Offset:   f.end,
		Length:   length,
	}
	f.end += e.Length
	f.dir.Datasets = append(f.dir.Datasets, e)

	return b.objects.Put(&dataset{file: f, entry: e}), nil
}

// OpenDataset looks up a dataset by name.
func (b *Backend) OpenDataset(fileID container.ID, name string) (container.ID, error) {
	f, err := b.file(fileID)
	if err != nil {
		return container.InvalidID, err
	}
	e := f.lookup(canonical(name))
	if e == nil {
		return container.InvalidID, fmt.Errorf("%w: %s", container.ErrNotFound, canonical(name))
	}
	return b.objects.Put(&dataset{file: f, entry: e}), nil
}

// Extent returns the dataset's dimensions.
func (b *Backend) Extent(id container.ID) ([]uint64, error) {
	ds, err := b.dataset(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(ds.entry.Dims), nil
}

// Write stores the full dataset in one transfer.
func (b *Backend) Write(id container.ID, data []float64) error {
	ds, err := b.dataset(id)
	if err != nil {
		return err
	}
	if ds.file.closed {
		return fmt.Errorf("%w: file closed", container.ErrInvalidID)
	}
	if !ds.file.writable {
		return container.ErrReadOnly
	}
	if int64(len(data))*8 != ds.entry.Length {
		return fmt.Errorf("%w: got %d elements, dataset holds %d", container.ErrShape, len(data), ds.entry.Length/8)
	}

	payload := persistence.EncodeFloat64sLE(data)
	if _, err := ds.file.f.WriteAt(payload, ds.entry.Offset); err != nil {
		return err
	}
	ds.entry.CRC32 = persistence.CalculateChecksum(payload)
	ds.entry.written = true
	return nil
}

// Read fills out with the full dataset and verifies its checksum.
func (b *Backend) Read(id container.ID, out []float64) error {
	ds, err := b.dataset(id)
	if err != nil {
		return err
	}
	if ds.file.closed {
		return fmt.Errorf("%w: file closed", container.ErrInvalidID)
	}
	if int64(len(out))*8 != ds.entry.Length {
		return fmt.Errorf("%w: got room for %d elements, dataset holds %d", container.ErrShape, len(out), ds.entry.Length/8)
	}

	if err := persistence.ReadFloat64sLE(ds.file.f, ds.entry.Offset, out); err != nil {
		return err
	}
	if err := persistence.VerifyChecksum(persistence.EncodeFloat64sLE(out), ds.entry.CRC32); err != nil {
		return fmt.Errorf("%w: dataset %s: %w", container.ErrCorrupt, ds.entry.Name, err)
	}
	return nil
}

// Close releases an identifier. Closing a writable file writes the directory
// and header and closes the descriptor.
func (b *Backend) Close(id container.ID) error {
	obj, err := b.objects.Remove(id)
	if err != nil {
		return err
	}
	f, ok := obj.(*file)
	if !ok {
		return nil
	}
	f.closed = true
	if !f.writable {
		return f.f.Close()
	}
	if err := finalize(f); err != nil {
		_ = f.f.Close()
		return fmt.Errorf("finalize %s: %w", f.path, err)
	}
	return f.f.Close()
}

func finalize(f *file) error {
	for _, e := range f.dir.Datasets {
		if !e.written {
			// Unwritten payloads are holes that read back as zeros.
			e.CRC32 = zeroChecksum(e.Length)
		}
	}

	raw, err := gojson.Marshal(&f.dir)
	if err != nil {
		return err
	}
	if _, err := f.f.WriteAt(raw, f.end); err != nil {
		return err
	}

	h := persistence.EncodeHeader(persistence.FileHeader{
		DirOffset:   uint64(f.end),
		DirLength:   uint64(len(raw)),
		DirChecksum: persistence.CalculateChecksum(raw),
	})
	_, err = f.f.WriteAt(h, 0)
	return err
}

func zeroChecksum(n int64) uint32 {
	cw := persistence.NewChecksumWriter(io.Discard)
	zeros := make([]byte, 64<<10)
	for n > 0 {
		chunk := min(n, int64(len(zeros)))
		_, _ = cw.Write(zeros[:chunk])
		n -= chunk
	}
	return cw.Sum()
}

func (b *Backend) file(id container.ID) (*file, error) {
	obj, err := b.objects.Get(id)
	if err != nil {
		return nil, err
	}
	f, ok := obj.(*file)
	if !ok {
		return nil, fmt.Errorf("%w: %d is not a file", container.ErrInvalidID, id)
	}
	return f, nil
}

func (b *Backend) dataspace(id container.ID) (*dataspace, error) {
	obj, err := b.objects.Get(id)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*dataspace)
	if !ok {
		return nil, fmt.Errorf("%w: %d is not a dataspace", container.ErrInvalidID, id)
	}
	return s, nil
}

func (b *Backend) dataset(id container.ID) (*dataset, error) {
	obj, err := b.objects.Get(id)
	if err != nil {
		return nil, err
	}
	ds, ok := obj.(*dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %d is not a dataset", container.ErrInvalidID, id)
	}
	return ds, nil
}

var _ container.Backend = (*Backend)(nil)
