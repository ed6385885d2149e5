package codec

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/container"
	"github.com/hupe1980/arraybench/container/native"
	"github.com/hupe1980/arraybench/internal/conv"
)

// DefaultDataset is the dataset path used by SelfDescribing.
const DefaultDataset = "/mydata"

// SelfDescribing stores the buffer as a named float64 dataset in a
// hierarchical container. The container records the element count.
type SelfDescribing struct {
	backend container.Backend
	dataset string
}

// SelfDescribingOption configures a SelfDescribing codec.
type SelfDescribingOption func(*SelfDescribing)

// WithBackend selects the storage backend. The default is native.New().
func WithBackend(b container.Backend) SelfDescribingOption {
	return func(s *SelfDescribing) { s.backend = b }
}

// WithDataset sets the dataset path. The default is DefaultDataset.
func WithDataset(name string) SelfDescribingOption {
	return func(s *SelfDescribing) { s.dataset = name }
}

// NewSelfDescribing returns a self-describing codec.
func NewSelfDescribing(opts ...SelfDescribingOption) *SelfDescribing {
	s := &SelfDescribing{dataset: DefaultDataset}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = native.New()
	}
	return s
}

func (s *SelfDescribing) Descriptor() Descriptor {
	return Descriptor{
		Name:           NameSelfDescribing,
		ElementWidth:   buffer.ElementWidth,
		SelfDescribing: true,
		Fidelity:       buffer.ExactFidelity,
	}
}

func (s *SelfDescribing) Extension() string { return "h5" }

// Backend returns the storage backend in use.
func (s *SelfDescribing) Backend() container.Backend { return s.backend }

// Write creates the dataspace, the file and the dataset, writes the payload
// in one transfer and closes every identifier. Outcome.Bytes is the final
// file size, metadata included.
func (s *SelfDescribing) Write(buf *buffer.Buffer, dst string) (Outcome, error) {
	if err := s.write(buf, dst); err != nil {
		return Outcome{}, err
	}
	fi, err := os.Stat(dst)
	if err != nil {
		return Outcome{}, newError(NameSelfDescribing, "write", dst, ErrEncode, err)
	}
	return Outcome{Bytes: fi.Size()}, nil
}

func (s *SelfDescribing) write(buf *buffer.Buffer, dst string) (err error) {
	fail := func(kind error, cause error) error {
		return newError(NameSelfDescribing, "write", dst, kind, cause)
	}

	space, err := s.backend.CreateDataspace([]uint64{uint64(buf.Len())})
	if err := checkID("create dataspace", space, err); err != nil {
		return fail(ErrEncode, err)
	}
	defer s.release(space, ErrEncode, &err, fail)

	file, err := s.backend.CreateFile(dst)
	if err := checkID("create file", file, err); err != nil {
		return fail(ErrIO, err)
	}
	defer s.release(file, ErrEncode, &err, fail)

	ds, err := s.backend.CreateDataset(file, s.dataset, container.Float64, space)
	if err := checkID("create dataset", ds, err); err != nil {
		return fail(ErrEncode, err)
	}
	defer s.release(ds, ErrEncode, &err, fail)

	if err := s.backend.Write(ds, buf.Values()); err != nil {
		return fail(ErrEncode, fmt.Errorf("write dataset: %w", err))
	}
	return nil
}

// Read opens the container, locates the dataset and reads its full extent.
// n is ignored.
func (s *SelfDescribing) Read(src string, _ int) (*buffer.Buffer, Outcome, error) {
	out, err := s.read(src)
	if err != nil {
		return nil, Outcome{}, err
	}
	fi, err := os.Stat(src)
	if err != nil {
		return nil, Outcome{}, newError(NameSelfDescribing, "read", src, ErrDecode, err)
	}
	return out, Outcome{Bytes: fi.Size()}, nil
}

func (s *SelfDescribing) read(src string) (out *buffer.Buffer, err error) {
	fail := func(kind error, cause error) error {
		return newError(NameSelfDescribing, "read", src, kind, cause)
	}

	file, err := s.backend.OpenFile(src)
	if err := checkID("open file", file, err); err != nil {
		// The file opened but its container metadata is unreadable.
		if errors.Is(err, container.ErrCorrupt) {
			return nil, fail(ErrDecode, err)
		}
		return nil, fail(ErrIO, err)
	}
	defer s.release(file, ErrDecode, &err, fail)

	ds, err := s.backend.OpenDataset(file, s.dataset)
	if err := checkID("open dataset", ds, err); err != nil {
		return nil, fail(ErrDecode, err)
	}
	defer s.release(ds, ErrDecode, &err, fail)

	dims, err := s.backend.Extent(ds)
	if err != nil {
		return nil, fail(ErrDecode, fmt.Errorf("extent: %w", err))
	}
	if len(dims) != 1 {
		return nil, fail(ErrDecode, fmt.Errorf("dataset has rank %d, want 1", len(dims)))
	}
	n, err := conv.Uint64ToInt(dims[0])
	if err != nil || n > math.MaxInt/buffer.ElementWidth {
		return nil, fail(ErrDecode, fmt.Errorf("extent %d too large", dims[0]))
	}

	b, err := buffer.Make(n)
	if err != nil {
		return nil, fail(ErrDecode, err)
	}
	if err := s.backend.Read(ds, b.Values()); err != nil {
		return nil, fail(ErrDecode, fmt.Errorf("read dataset: %w", err))
	}
	return b, nil
}

// release closes id and reports a close failure as kind unless an earlier
// error is already set.
func (s *SelfDescribing) release(id container.ID, kind error, err *error, fail func(kind, cause error) error) {
	if cerr := s.backend.Close(id); cerr != nil && *err == nil {
		*err = fail(kind, fmt.Errorf("close: %w", cerr))
	}
}

// checkID turns a backend status into an error. Invalid identifiers without
// an error are reported as container.ErrInvalidID.
func checkID(step string, id container.ID, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	if !id.Valid() {
		return fmt.Errorf("%s: %w: %d", step, container.ErrInvalidID, id)
	}
	return nil
}
