package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when the destination or source cannot be opened or created.
	ErrIO = errors.New("io failure")
	// ErrEncode is returned when writing fails after the destination was opened.
	ErrEncode = errors.New("encode failure")
	// ErrDecode is returned when reading fails after the source was opened,
	// including malformed or wrongly sized content.
	ErrDecode = errors.New("decode failure")
)

// Error is the error type returned by every codec operation. It matches
// exactly one of ErrIO, ErrEncode and ErrDecode via errors.Is.
type Error struct {
	Codec string
	Op    string // "write" or "read"
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Codec, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(codec, op, path string, kind, cause error) *Error {
	return &Error{Codec: codec, Op: op, Path: path, Err: fmt.Errorf("%w: %w", kind, cause)}
}

// Kind returns the codec sentinel matched by err, or nil.
func Kind(err error) error {
	for _, kind := range []error{ErrIO, ErrEncode, ErrDecode} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
