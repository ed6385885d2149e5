// Package containertest provides fault injection for container.Backend.
package containertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/arraybench/container"
)

// ErrInjected is returned by operations configured to fail with an error.
var ErrInjected = errors.New("containertest: injected fault")

// Op names a Backend operation.
type Op string

const (
	OpCreateDataspace Op = "CreateDataspace"
	OpCreateFile      Op = "CreateFile"
	OpOpenFile        Op = "OpenFile"
	OpCreateDataset   Op = "CreateDataset"
	OpOpenDataset     Op = "OpenDataset"
	OpExtent          Op = "Extent"
	OpWrite           Op = "Write"
	OpRead            Op = "Read"
	OpClose           Op = "Close"
)

// Fault describes how an operation misbehaves.
//
// With Invalid set, identifier-returning operations return
// container.InvalidID and a nil error, the way C libraries report failure
// through a negative handle. Other operations, or faults without Invalid,
// return Err (ErrInjected when nil).
type Fault struct {
	Op      Op
	Invalid bool
	Err     error
}

// InvalidID returns a fault that makes op hand out an invalid identifier.
func InvalidID(op Op) Fault { return Fault{Op: op, Invalid: true} }

// Error returns a fault that makes op fail with ErrInjected.
func Error(op Op) Fault { return Fault{Op: op} }

// FaultBackend wraps a backend and injects faults per operation.
type FaultBackend struct {
	inner  container.Backend
	mu     sync.Mutex
	faults map[Op]Fault
	calls  map[Op]int
}

// New wraps inner with the given faults.
func New(inner container.Backend, faults ...Fault) *FaultBackend {
	b := &FaultBackend{
		inner:  inner,
		faults: make(map[Op]Fault, len(faults)),
		calls:  make(map[Op]int),
	}
	for _, f := range faults {
		b.faults[f.Op] = f
	}
	return b
}

// Calls returns how many times op was invoked, including faulted calls.
func (b *FaultBackend) Calls(op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *FaultBackend) enter(op Op) (Fault, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	f, ok := b.faults[op]
	return f, ok
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return fmt.Errorf("%w: %s", ErrInjected, f.Op)
}

func (b *FaultBackend) idOp(op Op, call func() (container.ID, error)) (container.ID, error) {
	if f, ok := b.enter(op); ok {
		if f.Invalid {
			return container.InvalidID, nil
		}
		return container.InvalidID, f.err()
	}
	return call()
}

func (b *FaultBackend) errOp(op Op, call func() error) error {
	if f, ok := b.enter(op); ok {
		return f.err()
	}
	return call()
}

func (b *FaultBackend) Name() string { return b.inner.Name() + "+faults" }

func (b *FaultBackend) CreateDataspace(dims []uint64) (container.ID, error) {
	return b.idOp(OpCreateDataspace, func() (container.ID, error) { return b.inner.CreateDataspace(dims) })
}

func (b *FaultBackend) CreateFile(path string) (container.ID, error) {
	return b.idOp(OpCreateFile, func() (container.ID, error) { return b.inner.CreateFile(path) })
}

func (b *FaultBackend) OpenFile(path string) (container.ID, error) {
	return b.idOp(OpOpenFile, func() (container.ID, error) { return b.inner.OpenFile(path) })
}

func (b *FaultBackend) CreateDataset(file container.ID, name string, dtype container.Datatype, space container.ID) (container.ID, error) {
	return b.idOp(OpCreateDataset, func() (container.ID, error) { return b.inner.CreateDataset(file, name, dtype, space) })
}

func (b *FaultBackend) OpenDataset(file container.ID, name string) (container.ID, error) {
	return b.idOp(OpOpenDataset, func() (container.ID, error) { return b.inner.OpenDataset(file, name) })
}

func (b *FaultBackend) Extent(dataset container.ID) ([]uint64, error) {
	var dims []uint64
	err := b.errOp(OpExtent, func() error {
		var err error
		dims, err = b.inner.Extent(dataset)
		return err
	})
	return dims, err
}

func (b *FaultBackend) Write(dataset container.ID, data []float64) error {
	return b.errOp(OpWrite, func() error { return b.inner.Write(dataset, data) })
}

func (b *FaultBackend) Read(dataset container.ID, out []float64) error {
	return b.errOp(OpRead, func() error { return b.inner.Read(dataset, out) })
}

func (b *FaultBackend) Close(id container.ID) error {
	return b.errOp(OpClose, func() error { return b.inner.Close(id) })
}

var _ container.Backend = (*FaultBackend)(nil)
