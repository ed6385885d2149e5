package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unsafe"
)

// Float64Bytes returns a native-endian byte view of v without copying.
func Float64Bytes(v []float64) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*8)
}

// EncodeFloat64sLE returns v as little-endian bytes.
// On little-endian hosts the result aliases v.
func EncodeFloat64sLE(v []float64) []byte {
	if littleEndian {
		return Float64Bytes(v)
	}
	out := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(f))
	}
	return out
}

// ReadFloat64sLE fills dst with little-endian float64 values read from r at off.
// On little-endian hosts the bytes land directly in dst.
func ReadFloat64sLE(r io.ReaderAt, off int64, dst []float64) error {
	if len(dst) == 0 {
		return nil
	}
	if littleEndian {
		return readFullAt(r, off, Float64Bytes(dst))
	}
	tmp := make([]byte, len(dst)*8)
	if err := readFullAt(r, off, tmp); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(tmp[i*8:]))
	}
	return nil
}

func readFullAt(r io.ReaderAt, off int64, p []byte) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("read %d of %d bytes at offset %d: %w", n, len(p), off, err)
}
