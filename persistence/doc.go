// Package persistence provides the byte-level building blocks shared by codecs
// and storage backends: scoped file acquisition, float64 byte views and
// little-endian conversion, CRC32 checksums and the fixed container header.
//
// Raw views are produced with unsafe.Slice over the float64 storage. Portable
// formats always go through the little-endian helpers, which take the zero-copy
// path on little-endian hosts and fall back to explicit encoding elsewhere.
package persistence
