package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/internal/fs"
	"github.com/hupe1980/arraybench/persistence"
)

// DefaultPrecision is the number of significant digits written by Text,
// the default of C++ and C stdio stream formatting.
const DefaultPrecision = 6

const textBufferSize = 64 << 10

// Text stores one decimal value per line.
type Text struct {
	precision int
	fsys      fs.FileSystem
}

// TextOption configures a Text codec.
type TextOption func(*Text)

// WithPrecision sets the number of significant digits. -1 selects the
// shortest representation that round-trips exactly. Values below 1 other
// than -1 are treated as 1.
func WithPrecision(digits int) TextOption {
	return func(t *Text) {
		if digits < 1 && digits != -1 {
			digits = 1
		}
		t.precision = digits
	}
}

// NewText returns a text codec.
func NewText(opts ...TextOption) *Text {
	t := &Text{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Text) Descriptor() Descriptor {
	d := Descriptor{Name: NameText, ElementWidth: buffer.ElementWidth}
	if t.precision == -1 {
		d.Fidelity = buffer.ExactFidelity
	} else {
		d.Fidelity = buffer.Tolerant(math.Pow(10, float64(1-t.precision)))
	}
	return d
}

func (t *Text) Extension() string { return "txt" }

// Write formats every element with the configured precision followed by '\n'.
func (t *Text) Write(buf *buffer.Buffer, dst string) (Outcome, error) {
	n, err := persistence.WriteFile(dst, persistence.WriteOptions{BufferSize: textBufferSize, FS: t.fsys}, func(w io.Writer) error {
		scratch := make([]byte, 0, 32)
		for _, v := range buf.Values() {
			scratch = strconv.AppendFloat(scratch[:0], v, 'g', t.precision, 64)
			scratch = append(scratch, '\n')
			if _, err := w.Write(scratch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{Bytes: n}, classify(NameText, "write", dst, ErrEncode, err)
	}
	return Outcome{Bytes: n}, nil
}

// Read parses exactly n whitespace-separated values.
func (t *Text) Read(src string, n int) (*buffer.Buffer, Outcome, error) {
	if n < 0 {
		return nil, Outcome{}, newError(NameText, "read", src, ErrDecode, errors.New("element count required"))
	}

	var (
		out  *buffer.Buffer
		size int64
	)
	err := persistence.ReadFile(t.fsys, src, func(f fs.File, sz int64) error {
		size = sz
		b, err := buffer.Make(n)
		if err != nil {
			return err
		}

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, textBufferSize), textBufferSize)
		sc.Split(bufio.ScanWords)

		values := b.Values()
		i := 0
		for sc.Scan() {
			if i == n {
				return fmt.Errorf("more than %d values", n)
			}
			v, err := strconv.ParseFloat(sc.Text(), 64)
			if err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			values[i] = v
			i++
		}
		if err := sc.Err(); err != nil {
			return err
		}
		if i != n {
			return fmt.Errorf("found %d values, want %d", i, n)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, Outcome{Bytes: size}, classify(NameText, "read", src, ErrDecode, err)
	}
	return out, Outcome{Bytes: size}, nil
}

// classify maps file acquisition errors to ErrIO and everything else to kind.
func classify(codec, op, path string, kind, err error) *Error {
	if errors.Is(err, persistence.ErrOpen) {
		kind = ErrIO
	}
	return newError(codec, op, path, kind, err)
}
