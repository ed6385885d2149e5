// Package container defines the hierarchical storage backend used by the
// self-describing codec.
//
// A Backend hands out integer identifiers for files, dataspaces and datasets.
// Callers check every identifier with ID.Valid and release every identifier
// with Close. Implementations keep their native objects in an internal table
// so nothing but IDs crosses the interface.
package container
