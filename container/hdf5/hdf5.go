// Package hdf5 adapts github.com/scigolib/hdf5, a pure-Go HDF5 implementation,
// to container.Backend.
//
// HDF5 objects are kept in an identifier table and never leave the adapter.
// Datasets opened for reading are materialized on open, because the library
// exposes a dataset's extent only through its values.
//
// HDF5 through this library cannot hold a zero-length dimension. An empty
// dataset is stored as a single placeholder element tagged with the
// emptyAttr attribute and reads back with extent [0].
package hdf5

import (
	"fmt"
	"os"
	"path"
	"slices"

	"github.com/scigolib/hdf5"

	"github.com/hupe1980/arraybench/container"
)

// emptyAttr marks a placeholder dataset that stands for an empty extent.
const emptyAttr = "arraybench_empty"

// Backend stores containers as HDF5 files.
type Backend struct {
	objects container.Table[any]
}

// New returns an HDF5 backend.
func New() *Backend {
	return &Backend{}
}

// Name returns "hdf5".
func (b *Backend) Name() string { return "hdf5" }

type dataspace struct {
	dims []uint64
}

type writeFile struct {
	fw *hdf5.FileWriter
}

type readFile struct {
	f *hdf5.File
}

type writeDataset struct {
	dw    *hdf5.DatasetWriter
	dims  []uint64
	empty bool
}

type readDataset struct {
	values []float64
}

func (b *Backend) CreateDataspace(dims []uint64) (container.ID, error) {
	return b.objects.Put(&dataspace{dims: slices.Clone(dims)}), nil
}

func (b *Backend) CreateFile(p string) (container.ID, error) {
	fw, err := hdf5.CreateForWrite(p, hdf5.CreateTruncate)
	if err != nil {
		return container.InvalidID, err
	}
	return b.objects.Put(&writeFile{fw: fw}), nil
}

// OpenFile opens an existing file. A file that exists but does not parse
// as HDF5 is reported as container.ErrCorrupt.
func (b *Backend) OpenFile(p string) (container.ID, error) {
	if _, err := os.Stat(p); err != nil {
		return container.InvalidID, err
	}
	f, err := hdf5.Open(p)
	if err != nil {
		return container.InvalidID, fmt.Errorf("%w: %s: %w", container.ErrCorrupt, p, err)
	}
	return b.objects.Put(&readFile{f: f}), nil
}

func (b *Backend) CreateDataset(fileID container.ID, name string, dtype container.Datatype, spaceID container.ID) (container.ID, error) {
	obj, err := b.objects.Get(fileID)
	if err != nil {
		return container.InvalidID, err
	}
	wf, ok := obj.(*writeFile)
	if !ok {
		if _, isRead := obj.(*readFile); isRead {
			return container.InvalidID, container.ErrReadOnly
		}
		return container.InvalidID, fmt.Errorf("%w: %d is not a file", container.ErrInvalidID, fileID)
	}
	if dtype != container.Float64 {
		return container.InvalidID, fmt.Errorf("%w: %s", container.ErrUnsupportedType, dtype)
	}
	obj, err = b.objects.Get(spaceID)
	if err != nil {
		return container.InvalidID, err
	}
	space, ok := obj.(*dataspace)
	if !ok {
		return container.InvalidID, fmt.Errorf("%w: %d is not a dataspace", container.ErrInvalidID, spaceID)
	}

	dims := space.dims
	empty := len(dims) > 0 && container.Elements(dims) == 0
	if empty {
		dims = make([]uint64, len(space.dims))
		for i := range dims {
			dims[i] = 1
		}
	}
	dw, err := wf.fw.CreateDataset(path.Clean("/"+name), hdf5.Float64, dims)
	if err != nil {
		return container.InvalidID, err
	}
	if empty {
		if err := dw.WriteAttribute(emptyAttr, int32(1)); err != nil {
			return container.InvalidID, err
		}
	}
	return b.objects.Put(&writeDataset{dw: dw, dims: slices.Clone(space.dims), empty: empty}), nil
}

func (b *Backend) OpenDataset(fileID container.ID, name string) (container.ID, error) {
	obj, err := b.objects.Get(fileID)
	if err != nil {
		return container.InvalidID, err
	}
	rf, ok := obj.(*readFile)
	if !ok {
		return container.InvalidID, fmt.Errorf("%w: %d is not a readable file", container.ErrInvalidID, fileID)
	}

	want := path.Clean("/" + name)
	var found *hdf5.Dataset
	rf.f.Walk(func(p string, o hdf5.Object) {
		if found != nil {
			return
		}
		if ds, ok := o.(*hdf5.Dataset); ok && path.Clean("/"+p) == want {
			found = ds
		}
	})
	if found == nil {
		return container.InvalidID, fmt.Errorf("%w: %s", container.ErrNotFound, want)
	}

	if isEmpty(found) {
		return b.objects.Put(&readDataset{values: []float64{}}), nil
	}
	values, err := found.Read()
	if err != nil {
		return container.InvalidID, fmt.Errorf("read %s: %w", want, err)
	}
	return b.objects.Put(&readDataset{values: values}), nil
}

func isEmpty(ds *hdf5.Dataset) bool {
	v, err := ds.ReadAttribute(emptyAttr)
	if err != nil {
		return false
	}
	flag, ok := v.(int32)
	return ok && flag == 1
}

func (b *Backend) Extent(id container.ID) ([]uint64, error) {
	obj, err := b.objects.Get(id)
	if err != nil {
		return nil, err
	}
	switch ds := obj.(type) {
	case *readDataset:
		return []uint64{uint64(len(ds.values))}, nil
	case *writeDataset:
		return slices.Clone(ds.dims), nil
	default:
		return nil, fmt.Errorf("%w: %d is not a dataset", container.ErrInvalidID, id)
	}
}

func (b *Backend) Write(id container.ID, data []float64) error {
	obj, err := b.objects.Get(id)
	if err != nil {
		return err
	}
	ds, ok := obj.(*writeDataset)
	if !ok {
		if _, isRead := obj.(*readDataset); isRead {
			return container.ErrReadOnly
		}
		return fmt.Errorf("%w: %d is not a dataset", container.ErrInvalidID, id)
	}
	if uint64(len(data)) != container.Elements(ds.dims) {
		return fmt.Errorf("%w: got %d elements, dataset holds %d", container.ErrShape, len(data), container.Elements(ds.dims))
	}
	if ds.empty {
		return ds.dw.Write([]float64{0})
	}
	return ds.dw.Write(data)
}

func (b *Backend) Read(id container.ID, out []float64) error {
	obj, err := b.objects.Get(id)
	if err != nil {
		return err
	}
	ds, ok := obj.(*readDataset)
	if !ok {
		return fmt.Errorf("%w: %d is not a readable dataset", container.ErrInvalidID, id)
	}
	if len(out) != len(ds.values) {
		return fmt.Errorf("%w: got room for %d elements, dataset holds %d", container.ErrShape, len(out), len(ds.values))
	}
	copy(out, ds.values)
	return nil
}

// Close releases an identifier. Closing a file flushes it to disk.
func (b *Backend) Close(id container.ID) error {
	obj, err := b.objects.Remove(id)
	if err != nil {
		return err
	}
	switch o := obj.(type) {
	case *writeFile:
		return o.fw.Close()
	case *readFile:
		return o.f.Close()
	default:
		return nil
	}
}

var _ container.Backend = (*Backend)(nil)
