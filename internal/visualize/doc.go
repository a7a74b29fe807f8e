// Package visualize renders human-checkable views of a cleaning run.
// It consumes the pipeline's (original, cleaned) raster pair through a
// plain function interface and produces a three-panel comparison image:
// the original map, the cleaned map, and the original with every
// removed obstacle cell highlighted in red. The core pipeline never
// depends on this package.
package visualize
