package buffer

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Fidelity is the round-trip precision guarantee of a codec.
type Fidelity struct {
	// Exact requires bit-identical values.
	Exact bool
	// RelTolerance is the accepted relative error when Exact is false.
	RelTolerance float64
}

// ExactFidelity is the bit-exact guarantee.
var ExactFidelity = Fidelity{Exact: true}

// Tolerant returns a Fidelity accepting relative errors up to rel.
func Tolerant(rel float64) Fidelity {
	return Fidelity{RelTolerance: rel}
}

func (f Fidelity) String() string {
	if f.Exact {
		return "exact"
	}
	return fmt.Sprintf("rel<=%g", f.RelTolerance)
}

// Equal reports whether got matches want under f.
func (f Fidelity) Equal(want, got float64) bool {
	if f.Exact {
		return math.Float64bits(want) == math.Float64bits(got)
	}
	if want == got {
		return true
	}
	if math.IsNaN(want) || math.IsNaN(got) {
		return math.IsNaN(want) && math.IsNaN(got)
	}
	if math.IsInf(want, 0) || math.IsInf(got, 0) {
		return false
	}
	scale := math.Max(math.Abs(want), math.Abs(got))
	return math.Abs(want-got) <= f.RelTolerance*scale
}

// Mismatch describes how a decoded buffer deviates from the original.
type Mismatch struct {
	// WantLen and GotLen are the element counts of both buffers.
	WantLen, GotLen int
	// Indices holds every index whose values differ.
	Indices *roaring64.Bitmap
}

// OK reports whether the buffers matched.
func (m Mismatch) OK() bool {
	return m.WantLen == m.GotLen && m.Indices.IsEmpty()
}

// Count returns the number of mismatching elements.
func (m Mismatch) Count() uint64 {
	return m.Indices.GetCardinality()
}

// First returns the lowest mismatching index, or -1.
func (m Mismatch) First() int {
	if m.Indices.IsEmpty() {
		return -1
	}
	return int(m.Indices.Minimum())
}

func (m Mismatch) String() string {
	if m.WantLen != m.GotLen {
		return fmt.Sprintf("element count mismatch: want %d, got %d", m.WantLen, m.GotLen)
	}
	if m.Indices.IsEmpty() {
		return "match"
	}
	return fmt.Sprintf("%d of %d elements differ, first at index %d", m.Count(), m.WantLen, m.First())
}

// Compare checks got against want element by element. Elements are only
// compared when both buffers have the same length.
func Compare(want, got *Buffer, f Fidelity) Mismatch {
	m := Mismatch{
		WantLen: want.Len(),
		GotLen:  got.Len(),
		Indices: roaring64.New(),
	}
	if m.WantLen != m.GotLen {
		return m
	}
	w, g := want.values, got.values
	for i := range w {
		if !f.Equal(w[i], g[i]) {
			m.Indices.Add(uint64(i))
		}
	}
	return m
}
