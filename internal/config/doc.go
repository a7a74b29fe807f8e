// Package config provides configuration structures and utilities for
// mapclean. It defines the cleaning parameters, output and report
// preferences, the optional .mapclean YAML file with per-map profiles,
// and the XDG directories used for the run-history database.
package config
