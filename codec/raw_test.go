package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraybench/buffer"
)

func TestRaw_LengthIsEightTimesN(t *testing.T) {
	for _, n := range []int{0, 1, 5, 4096} {
		in, err := buffer.New(n, buffer.Sequence(0, 1))
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "file.dat")
		wo, err := NewRaw().Write(in, path)
		require.NoError(t, err)

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(n)*8, fi.Size())
		assert.Equal(t, fi.Size(), wo.Bytes)
	}
}

func TestRaw_SizeMismatch(t *testing.T) {
	dir := t.TempDir()
	odd := filepath.Join(dir, "odd.dat")
	require.NoError(t, os.WriteFile(odd, make([]byte, 12), 0o600))
	short := filepath.Join(dir, "short.dat")
	require.NoError(t, os.WriteFile(short, make([]byte, 16), 0o600))

	for _, c := range []*Raw{NewRaw(), NewRaw(WithMmap(true))} {
		_, _, err := c.Read(odd, 1)
		assert.ErrorIs(t, err, ErrDecode)
		assert.Contains(t, err.Error(), "not a multiple of 8")

		_, _, err = c.Read(short, 3)
		assert.ErrorIs(t, err, ErrDecode)
		assert.Contains(t, err.Error(), "holds 2 elements, want 3")

		_, _, err = c.Read(short, -1)
		assert.ErrorIs(t, err, ErrDecode)
	}
}

func TestRaw_NativeByteOrder(t *testing.T) {
	in := buffer.FromValues([]float64{1.5, -3})
	path := filepath.Join(t.TempDir(), "file.dat")
	_, err := NewRaw().Write(in, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in.Bytes(), data)
}
