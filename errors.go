package arraybench

import (
	"errors"
	"fmt"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/codec"
)

// Per-codec failure kinds. A recorded Failure matches exactly one of them.
var (
	// ErrIO is returned when a codec cannot open or create its file.
	ErrIO = codec.ErrIO
	// ErrEncode is returned when writing fails after the file was opened.
	ErrEncode = codec.ErrEncode
	// ErrDecode is returned when reading fails after the file was opened.
	ErrDecode = codec.ErrDecode
	// ErrFidelity is returned when decoded data does not match the original.
	ErrFidelity = errors.New("fidelity failure")
)

// Fatal errors returned by Run and NewRunner.
var (
	// ErrNoCodecs is returned when a runner has nothing to benchmark.
	ErrNoCodecs = errors.New("no codecs configured")
	// ErrBufferAllocation is returned when the shared buffer cannot be allocated.
	ErrBufferAllocation = errors.New("buffer allocation failed")
	// ErrOutputDir is returned when the output directory cannot be created.
	ErrOutputDir = errors.New("output directory unavailable")
	// ErrBusy is returned when Run is called while another Run is in progress.
	ErrBusy = errors.New("runner is busy")
)

// FidelityError describes a decoded buffer that deviates from the original.
type FidelityError struct {
	Codec    string
	Fidelity buffer.Fidelity
	Mismatch buffer.Mismatch
}

func (e *FidelityError) Error() string {
	return fmt.Sprintf("%s: %s (fidelity %s)", ErrFidelity, e.Mismatch, e.Fidelity)
}

func (e *FidelityError) Unwrap() error { return ErrFidelity }

// kindOf names the failure kind of err.
func kindOf(err error) string {
	switch {
	case errors.Is(err, ErrFidelity):
		return "fidelity"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}
