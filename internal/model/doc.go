// Package model defines the data types shared across the map cleaning
// pipeline: the cleaning parameters, the per-run report accumulated by
// pipeline steps, and the summary/history records consumed by the report
// writers and the run-history database.
package model
