// Package mmap provides read-only memory-mapped file access.
//
// The raw binary codec uses it as an alternative read path: the file is mapped,
// advised for sequential access and copied once into the destination buffer.
//
//	m, err := mmap.Open("file.dat", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//
//	n := copy(dst, m.Bytes())
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Close is idempotent. Slices returned by Bytes must not be used after Close.
package mmap
