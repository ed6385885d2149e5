package persistence

import (
	"fmt"
	"hash"
	"io"

	ihash "github.com/hupe1980/arraybench/internal/hash"
)

// CRC32-Castagnoli guards container directories and dataset payloads against
// accidental corruption. It is not a tamper check.

// CalculateChecksum calculates the CRC32C checksum of data.
func CalculateChecksum(data []byte) uint32 {
	return ihash.CRC32C(data)
}

// ChecksumWriter wraps an io.Writer and computes a running CRC32 checksum
// together with the number of bytes written.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{
		w:    w,
		hash: ihash.NewCRC32C(),
	}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	_, _ = cw.hash.Write(p[:n])
	cw.n += int64(n)
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// Written returns the number of bytes passed to the underlying writer.
func (cw *ChecksumWriter) Written() int64 {
	return cw.n
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// VerifyChecksum returns a *ChecksumMismatchError when data does not hash to expected.
func VerifyChecksum(data []byte, expected uint32) error {
	if actual := CalculateChecksum(data); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
