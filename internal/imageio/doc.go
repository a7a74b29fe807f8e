// Package imageio loads and saves occupancy grid rasters. It is the I/O
// collaborator of the cleaning pipeline: the core only ever sees
// in-memory rasters, while this package handles file formats and paths.
//
// Supported formats are PGM (the native format of ROS map_saver, both
// binary P5 and ASCII P2), PNG, and WebP for output. Format selection is
// by file extension.
package imageio
