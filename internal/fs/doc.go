// Package fs provides a filesystem abstraction for codec file I/O.
//
// Codecs open files through a [FileSystem] so tests can substitute [FaultyFS]
// and make writes, syncs or closes fail at a chosen point:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("file.txt", fs.Fault{FailAfterBytes: 1024})
//
// Production code uses fs.Default, which is [LocalFS].
package fs
