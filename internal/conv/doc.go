// Package conv provides checked integer conversions.
//
// Use these when converting values read from disk (header offsets, dataset
// extents, element counts) so corrupt input is reported instead of wrapping
// around. Conversions that are safe by construction use plain casts.
package conv
