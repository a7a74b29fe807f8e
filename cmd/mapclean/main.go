// Package main provides the entry point for the mapclean CLI.
//
// mapclean removes small spurious obstacle blobs from robot-generated
// occupancy grid maps — artifacts such as an operator's legs captured
// during teleoperated mapping — while preserving thin structures like
// walls.
//
// Usage:
//
//	mapclean clean map.pgm
//	mapclean clean map.png --min-area 50 --preview
//
// See --help for all available options.
package main

// main is the entry point for mapclean.
func main() {
	Execute()
}
