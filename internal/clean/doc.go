// Package clean implements the map cleaning core: classification of a
// grayscale occupancy grid into obstacle and unknown masks, removal of
// small obstacle regions by polygon-estimated area, and reconstruction
// of a canonical three-level map.
//
// The area filter is deliberately boundary-based. A region's area is the
// shoelace polygon area of its traced outer contour, not its pixel
// count. Thin structures such as walls enclose almost no polygon area
// regardless of length, so they survive filtering, while compact blobs
// (a mapping operator's legs, sensor speckle) are caught even at modest
// pixel counts. Reimplementations that count pixels instead would erase
// walls long before they erase legs.
//
// Every operation is a pure function over in-memory rasters; the package
// performs no I/O and keeps no state between invocations. Callers that
// want step-by-step execution with logging and cancellation use the
// Pipeline type; callers that just want the transform use Clean.
package clean
