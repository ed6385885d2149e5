package buffer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b, err := New(5, Sequence(1, 1))
	require.NoError(t, err)

	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, b.Values())
	assert.Equal(t, 3.0, b.At(2))
	assert.Equal(t, int64(40), b.SizeBytes())
}

func TestNew_NilFillIsZero(t *testing.T) {
	b, err := New(3, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, b.Values())
}

func TestNew_Negative(t *testing.T) {
	_, err := New(-1, nil)
	require.ErrorIs(t, err, ErrNegativeLength)
}

func TestBytes_AliasesValues(t *testing.T) {
	b, err := New(2, Sequence(1.5, 1))
	require.NoError(t, err)

	raw := b.Bytes()
	require.Len(t, raw, 16)
	assert.Equal(t, math.Float64bits(1.5), binary.NativeEndian.Uint64(raw[0:8]))
	assert.Equal(t, math.Float64bits(2.5), binary.NativeEndian.Uint64(raw[8:16]))

	binary.NativeEndian.PutUint64(raw[0:8], math.Float64bits(-7))
	assert.Equal(t, -7.0, b.At(0))
}

func TestBytes_Empty(t *testing.T) {
	b, err := Make(0)
	require.NoError(t, err)
	assert.Nil(t, b.Bytes())
	assert.Equal(t, 0, b.Len())
}

func TestFromValues_Copies(t *testing.T) {
	src := []float64{1, 2}
	b := FromValues(src)
	src[0] = 99
	assert.Equal(t, 1.0, b.At(0))
}

func TestFill_Reproducible(t *testing.T) {
	a, err := New(100, Uniform(42))
	require.NoError(t, err)
	b, err := New(100, Uniform(42))
	require.NoError(t, err)
	assert.Equal(t, a.Values(), b.Values())

	for _, v := range a.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestFill_Integers(t *testing.T) {
	b, err := New(50, Integers(7))
	require.NoError(t, err)
	for _, v := range b.Values() {
		assert.Equal(t, math.Trunc(v), v)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, float64(math.MaxInt32))
	}
}
