package buffer

import (
	"math"
	"strconv"
	"testing"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/stretchr/testify/assert"
)

func TestCompare_Exact(t *testing.T) {
	want := FromValues([]float64{1, 2, 3, 4, 5})
	got := FromValues([]float64{1, 2, 3, 4, 5})

	m := Compare(want, got, ExactFidelity)
	assert.True(t, m.OK())
	assert.Equal(t, -1, m.First())
	assert.Equal(t, "match", m.String())
}

func TestCompare_ExactDetectsLastBit(t *testing.T) {
	want := FromValues([]float64{1, 2, 3})
	got := FromValues([]float64{1, math.Nextafter(2, 3), 3})

	m := Compare(want, got, ExactFidelity)
	assert.False(t, m.OK())
	assert.Equal(t, uint64(1), m.Count())
	assert.Equal(t, 1, m.First())
}

func TestCompare_ExactSignedZero(t *testing.T) {
	want := FromValues([]float64{0})
	got := FromValues([]float64{math.Copysign(0, -1)})
	assert.False(t, Compare(want, got, ExactFidelity).OK())
}

func TestCompare_LengthMismatch(t *testing.T) {
	m := Compare(FromValues([]float64{1, 2}), FromValues([]float64{1}), ExactFidelity)
	assert.False(t, m.OK())
	assert.Contains(t, m.String(), "want 2, got 1")
}

func TestMismatch_IndicesBeyond32Bits(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("requires 64-bit int")
	}
	m := Mismatch{WantLen: math.MaxInt, GotLen: math.MaxInt, Indices: roaring64.New()}
	m.Indices.Add(1<<32 + 5)
	m.Indices.Add(1<<33 + 1)

	assert.False(t, m.OK())
	assert.Equal(t, uint64(2), m.Count())
	assert.Equal(t, uint64(1<<32+5), uint64(m.First()))
}

func TestFidelity_Tolerant(t *testing.T) {
	f := Tolerant(1e-5)

	tests := []struct {
		name      string
		want, got float64
		equal     bool
	}{
		{"identical", 3.25, 3.25, true},
		{"six digits", 1234567890, 1234570000, true},
		{"too far", 1.0, 1.001, false},
		{"zero", 0, 0, true},
		{"nan", math.NaN(), math.NaN(), true},
		{"nan vs number", math.NaN(), 1, false},
		{"inf", math.Inf(1), math.Inf(1), true},
		{"inf vs max", math.Inf(1), math.MaxFloat64, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, f.Equal(tt.want, tt.got))
		})
	}
}

func TestFidelity_String(t *testing.T) {
	assert.Equal(t, "exact", ExactFidelity.String())
	assert.Equal(t, "rel<=1e-05", Tolerant(1e-5).String())
}
