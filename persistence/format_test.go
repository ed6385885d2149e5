package persistence

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	in := FileHeader{DirOffset: 72, DirLength: 130, DirChecksum: 0xdeadbeef}

	b := EncodeHeader(in)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, "ABH1", string(b[:4]))

	out, err := DecodeHeader(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(MagicNumber), out.Magic)
	assert.Equal(t, uint32(Version), out.Version)
	assert.Equal(t, in.DirOffset, out.DirOffset)
	assert.Equal(t, in.DirLength, out.DirLength)
	assert.Equal(t, in.DirChecksum, out.DirChecksum)
}

func TestDecodeHeader_Errors(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 10))
	assert.ErrorIs(t, err, ErrShortHeader)

	_, err = DecodeHeader(make([]byte, HeaderSize))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	b := EncodeHeader(FileHeader{})
	binary.LittleEndian.PutUint32(b[4:], 99)
	_, err = DecodeHeader(b)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}
