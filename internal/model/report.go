package model

import (
	"time"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// CleanReport accumulates everything one cleaning run produces. It is
// created empty by the caller, threaded through the pipeline steps, and
// finally handed to the report writers and the history database.
//
// Design decision: the report owns the intermediate masks rather than
// passing them between steps as return values. This mirrors how steps
// accumulate state in a single shared record and keeps the Step
// interface uniform.
type CleanReport struct {
	// InputPath is the map file the run was started from.
	InputPath string `json:"input_path"`

	// OutputPath is where the cleaned map was (or will be) written.
	OutputPath string `json:"output_path,omitempty"`

	// Width and Height are the raster dimensions in cells.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Params are the thresholds and area limit used for this run.
	Params Params `json:"params"`

	// DateCleaned is when the run was performed.
	DateCleaned time.Time `json:"date_cleaned"`

	// Duration is how long the pipeline took.
	Duration time.Duration `json:"duration"`

	// Stats holds the region counts produced by the filter step.
	Stats Stats `json:"stats"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Original is the raster as loaded, never mutated by the pipeline.
	Original *grid.Raster `json:"-"`

	// Cleaned is the reconstructed three-level raster. Nil until the
	// reconstruct step has run.
	Cleaned *grid.Raster `json:"-"`

	// Obstacles and Unknown are the classification masks. Filtered is
	// the obstacle mask after small regions were erased. These are
	// intermediates owned by the run; nothing outlives the report.
	Obstacles *grid.Mask `json:"-"`
	Unknown   *grid.Mask `json:"-"`
	Filtered  *grid.Mask `json:"-"`

	// Error records a step failure when the pipeline is configured to
	// continue past errors.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewCleanReport creates a report for the given input with the clock
// already stamped.
func NewCleanReport(inputPath string, params Params) *CleanReport {
	return &CleanReport{
		InputPath:      inputPath,
		Params:         params,
		DateCleaned:    time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// SetOriginal attaches the loaded raster and records its dimensions.
func (r *CleanReport) SetOriginal(raster *grid.Raster) {
	r.Original = raster
	r.Width = raster.Width
	r.Height = raster.Height
}

// ObstaclePixels returns the obstacle cell count of the cleaned raster,
// or zero when the pipeline has not finished.
func (r *CleanReport) ObstaclePixels() int {
	if r.Filtered == nil {
		return 0
	}
	return r.Filtered.Count()
}
