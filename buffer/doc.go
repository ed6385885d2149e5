// Package buffer provides the in-memory float64 payload exchanged with every codec.
//
// A Buffer owns a contiguous []float64 of fixed length. Codecs that need direct
// memory access use Values (typed view) or Bytes (native-endian byte view over
// the same memory). Neither view copies, so a Buffer shared as benchmark input
// must be treated as read-only by every consumer.
package buffer
