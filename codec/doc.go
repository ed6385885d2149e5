// Package codec defines the array persistence strategies under benchmark.
//
// A Codec writes a buffer.Buffer to a caller-supplied path and reads it back
// into a fresh buffer. Every storage handle is acquired and released inside a
// single call. Three variants are provided:
//
//   - Text: one decimal value per line. Human-readable, lossy at the default precision.
//   - Raw: native-endian float64 bytes with no header. Needs the element count to read.
//   - SelfDescribing: a hierarchical container (see package container) that
//     records its own shape, so reading needs no element count.
//
// Codecs are collected in an explicit Registry owned by the caller.
package codec
