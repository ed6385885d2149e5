package buffer

import "math/rand"

// FillFunc produces the value stored at index i.
type FillFunc func(i int) float64

// Uniform returns a generator of pseudo-random values in [0, 1).
// The sequence depends only on seed and call order.
func Uniform(seed int64) FillFunc {
	r := rand.New(rand.NewSource(seed))
	return func(int) float64 {
		return r.Float64()
	}
}

// Integers returns a generator of non-negative 31-bit pseudo-random integers
// stored as float64, the value range of C's rand().
func Integers(seed int64) FillFunc {
	r := rand.New(rand.NewSource(seed))
	return func(int) float64 {
		return float64(r.Int31())
	}
}

// Sequence returns start, start+step, start+2*step, ...
func Sequence(start, step float64) FillFunc {
	return func(i int) float64 {
		return start + float64(i)*step
	}
}
