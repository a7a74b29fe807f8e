// Package grid provides the in-memory raster types used by the map
// cleaning pipeline: a grayscale Raster holding one byte per cell and a
// binary Mask marking a set of foreground cells.
//
// Both types store their samples in a single flat slice in row-major
// order. This keeps the hot loops of the pipeline (classification,
// component labeling, reconstruction) free of per-pixel interface calls
// and friendly to the cache.
package grid
