package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Valid(t *testing.T) {
	assert.True(t, ID(0).Valid())
	assert.True(t, ID(12).Valid())
	assert.False(t, InvalidID.Valid())
	assert.False(t, ID(-7).Valid())
}

func TestDatatype(t *testing.T) {
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "Datatype(9)", Datatype(9).String())

	dt, err := ParseDatatype("float64")
	require.NoError(t, err)
	assert.Equal(t, Float64, dt)

	_, err = ParseDatatype("int8")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestElements(t *testing.T) {
	assert.Equal(t, uint64(1), Elements(nil))
	assert.Equal(t, uint64(0), Elements([]uint64{0}))
	assert.Equal(t, uint64(24), Elements([]uint64{2, 3, 4}))
}

func TestTable(t *testing.T) {
	var tbl Table[string]

	a := tbl.Put("a")
	b := tbl.Put("b")
	assert.NotEqual(t, a, b)
	assert.True(t, a.Valid())
	assert.Equal(t, 2, tbl.Len())

	got, err := tbl.Get(b)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = tbl.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	_, err = tbl.Get(a)
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = tbl.Remove(a)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Equal(t, 1, tbl.Len())
}
