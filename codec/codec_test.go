package codec

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraybench/buffer"
)

func allCodecs() []Codec {
	return []Codec{
		NewText(),
		NewText(WithPrecision(-1)),
		NewRaw(),
		NewRaw(WithMmap(true), WithSync(true)),
		NewSelfDescribing(),
	}
}

func readN(c Codec, n int) int {
	if c.Descriptor().SelfDescribing {
		return -1
	}
	return n
}

func TestRoundTrip(t *testing.T) {
	src, err := buffer.New(1000, buffer.Uniform(42))
	require.NoError(t, err)
	ints, err := buffer.New(257, buffer.Integers(7))
	require.NoError(t, err)

	for _, c := range allCodecs() {
		for _, in := range []*buffer.Buffer{src, ints} {
			path := filepath.Join(t.TempDir(), "file."+c.Extension())

			wo, err := c.Write(in, path)
			require.NoError(t, err, c.Descriptor().Name)
			assert.Positive(t, wo.Bytes)

			out, ro, err := c.Read(path, readN(c, in.Len()))
			require.NoError(t, err, c.Descriptor().Name)
			assert.Equal(t, wo.Bytes, ro.Bytes)

			m := buffer.Compare(in, out, c.Descriptor().Fidelity)
			assert.True(t, m.OK(), "%s: %s", c.Descriptor().Name, m)
		}
	}
}

func TestFiveElements(t *testing.T) {
	in := buffer.FromValues([]float64{1, 2, 3, 4, 5})
	dir := t.TempDir()

	t.Run("raw", func(t *testing.T) {
		c := NewRaw()
		path := filepath.Join(dir, "file.dat")
		wo, err := c.Write(in, path)
		require.NoError(t, err)
		assert.Equal(t, int64(40), wo.Bytes)

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, int64(40), fi.Size())

		out, _, err := c.Read(path, 5)
		require.NoError(t, err)
		assert.Equal(t, in.Values(), out.Values())
	})

	t.Run("text", func(t *testing.T) {
		c := NewText()
		path := filepath.Join(dir, "file.txt")
		_, err := c.Write(in, path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "1\n2\n3\n4\n5\n", string(data))

		out, _, err := c.Read(path, 5)
		require.NoError(t, err)
		assert.True(t, buffer.Compare(in, out, c.Descriptor().Fidelity).OK())
	})

	t.Run("self-describing", func(t *testing.T) {
		c := NewSelfDescribing()
		path := filepath.Join(dir, "file.h5")
		_, err := c.Write(in, path)
		require.NoError(t, err)

		out, _, err := c.Read(path, -1)
		require.NoError(t, err)
		assert.Equal(t, 5, out.Len())
		assert.Equal(t, in.Values(), out.Values())
	})
}

func TestEmptyBuffer(t *testing.T) {
	in, err := buffer.New(0, nil)
	require.NoError(t, err)

	for _, c := range allCodecs() {
		path := filepath.Join(t.TempDir(), "file."+c.Extension())

		wo, err := c.Write(in, path)
		require.NoError(t, err, c.Descriptor().Name)
		if !c.Descriptor().SelfDescribing {
			assert.Zero(t, wo.Bytes, c.Descriptor().Name)
		}

		out, _, err := c.Read(path, readN(c, 0))
		require.NoError(t, err, c.Descriptor().Name)
		assert.Equal(t, 0, out.Len())
	}
}

func TestSpecialValues(t *testing.T) {
	in := buffer.FromValues([]float64{math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1), math.SmallestNonzeroFloat64})

	for _, c := range []Codec{NewText(WithPrecision(-1)), NewRaw(), NewSelfDescribing()} {
		path := filepath.Join(t.TempDir(), "file."+c.Extension())
		_, err := c.Write(in, path)
		require.NoError(t, err)

		out, _, err := c.Read(path, readN(c, in.Len()))
		require.NoError(t, err)
		m := buffer.Compare(in, out, c.Descriptor().Fidelity)
		assert.True(t, m.OK(), "%s: %s", c.Descriptor().Name, m)
	}
}

func TestMissingSource(t *testing.T) {
	for _, c := range allCodecs() {
		_, _, err := c.Read(filepath.Join(t.TempDir(), "missing"), readN(c, 3))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO, c.Descriptor().Name)
		assert.NotErrorIs(t, err, ErrDecode)

		var ce *Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "read", ce.Op)
		assert.Equal(t, c.Descriptor().Name, ce.Codec)
	}
}

func TestUncreatableDestination(t *testing.T) {
	in := buffer.FromValues([]float64{1})
	for _, c := range allCodecs() {
		_, err := c.Write(in, filepath.Join(t.TempDir(), "no", "such", "dir", "file"))
		assert.ErrorIs(t, err, ErrIO, c.Descriptor().Name)
		assert.NotErrorIs(t, err, ErrEncode)
	}
}

func TestKind(t *testing.T) {
	assert.Nil(t, Kind(nil))
	assert.Nil(t, Kind(errors.New("other")))

	err := newError("raw", "read", "/x", ErrDecode, errors.New("short"))
	assert.Equal(t, ErrDecode, Kind(err))
	assert.Equal(t, "raw read /x: decode failure: short", err.Error())
}
