package container

import (
	"errors"
	"fmt"
)

// ID identifies a file, dataspace or dataset owned by a Backend.
// Negative values are invalid.
type ID int64

// InvalidID is returned alongside errors and by misbehaving backends.
const InvalidID ID = -1

// Valid reports whether id refers to a live object.
func (id ID) Valid() bool { return id >= 0 }

// Datatype is the element type of a dataset.
type Datatype uint8

const (
	// Float64 is an IEEE 754 double.
	Float64 Datatype = iota + 1
)

// String implements fmt.Stringer.
func (d Datatype) String() string {
	switch d {
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Datatype(%d)", uint8(d))
	}
}

// ParseDatatype is the inverse of Datatype.String.
func ParseDatatype(s string) (Datatype, error) {
	if s == "float64" {
		return Float64, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}

var (
	// ErrInvalidID is returned when an identifier is unknown, closed or of the wrong kind.
	ErrInvalidID = errors.New("container: invalid identifier")
	// ErrNotFound is returned when a named dataset does not exist.
	ErrNotFound = errors.New("container: dataset not found")
	// ErrExists is returned when a dataset name is already taken.
	ErrExists = errors.New("container: dataset already exists")
	// ErrUnsupportedType is returned for datatypes other than Float64.
	ErrUnsupportedType = errors.New("container: unsupported datatype")
	// ErrShape is returned when a buffer does not match a dataset's extent.
	ErrShape = errors.New("container: shape mismatch")
	// ErrReadOnly is returned when writing through a file opened for reading.
	ErrReadOnly = errors.New("container: file is read-only")
	// ErrCorrupt is returned when stored metadata or payload fails validation.
	ErrCorrupt = errors.New("container: corrupt file")
)

// Backend is a hierarchical storage library.
//
// Creation and open calls return an ID that must be checked with Valid; every
// other call returns an error. Closing a file ID finalizes the file on disk.
// Closing a dataset or dataspace ID only releases the identifier.
type Backend interface {
	Name() string
	CreateDataspace(dims []uint64) (ID, error)
	CreateFile(path string) (ID, error)
	OpenFile(path string) (ID, error)
	CreateDataset(file ID, name string, dtype Datatype, space ID) (ID, error)
	OpenDataset(file ID, name string) (ID, error)
	Extent(dataset ID) ([]uint64, error)
	Write(dataset ID, data []float64) error
	Read(dataset ID, out []float64) error
	Close(id ID) error
}

// Elements returns the number of elements described by dims.
// A rank-0 shape holds one element.
func Elements(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}
