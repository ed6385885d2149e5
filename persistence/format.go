package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies arraybench container files (ASCII: "ABH1").
	MagicNumber = 0x31484241
	// Version is the current container format version.
	Version = 1
	// HeaderSize is the encoded size of FileHeader in bytes.
	HeaderSize = 32
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrShortHeader    = errors.New("short header")
)

// FileHeader is the fixed 32-byte little-endian header at the start of every
// container file. The dataset directory lives at DirOffset.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	DirOffset   uint64
	DirLength   uint64
	DirChecksum uint32
	Reserved    [4]byte
}

// EncodeHeader stamps magic and version into h and returns its encoding.
func EncodeHeader(h FileHeader) []byte {
	h.Magic = MagicNumber
	h.Version = Version

	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:], h.Magic)
	binary.LittleEndian.PutUint32(b[4:], h.Version)
	binary.LittleEndian.PutUint64(b[8:], h.DirOffset)
	binary.LittleEndian.PutUint64(b[16:], h.DirLength)
	binary.LittleEndian.PutUint32(b[24:], h.DirChecksum)
	copy(b[28:], h.Reserved[:])
	return b
}

// DecodeHeader parses and validates a header.
func DecodeHeader(b []byte) (FileHeader, error) {
	var h FileHeader
	if len(b) < HeaderSize {
		return h, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	h.Magic = binary.LittleEndian.Uint32(b[0:])
	h.Version = binary.LittleEndian.Uint32(b[4:])
	h.DirOffset = binary.LittleEndian.Uint64(b[8:])
	h.DirLength = binary.LittleEndian.Uint64(b[16:])
	h.DirChecksum = binary.LittleEndian.Uint32(b[24:])
	copy(h.Reserved[:], b[28:32])

	if h.Magic != MagicNumber {
		return h, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}
	return h, nil
}
