package model

import "time"

// Summary is the curated, serializable view of a cleaning run used by
// the report writers and the JSON output.
//
// Design decision: we keep a separate summary type instead of printing
// fields of CleanReport directly because the full report carries raster
// buffers that must never reach a serializer, and because the summary is
// also what the history database stores and lists.
type Summary struct {
	// InputPath is the map file that was cleaned.
	InputPath string `json:"input_path"`

	// OutputPath is where the cleaned map was written, if it was.
	OutputPath string `json:"output_path,omitempty"`

	// Width and Height are the raster dimensions in cells.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Params are the thresholds and area limit used.
	Params Params `json:"params"`

	// RegionsFound and RegionsRemoved are the filter counts.
	RegionsFound   int `json:"regions_found"`
	RegionsRemoved int `json:"regions_removed"`

	// ObstaclePixels is the obstacle cell count after filtering.
	ObstaclePixels int `json:"obstacle_pixels"`

	// DateCleaned is when the run was performed.
	DateCleaned time.Time `json:"date_cleaned"`

	// Duration is how long the pipeline took.
	Duration time.Duration `json:"duration"`

	// Error is set when the run failed.
	Error string `json:"error,omitempty"`
}

// NewSummary extracts a Summary from a finished CleanReport.
func NewSummary(report *CleanReport) *Summary {
	s := &Summary{
		InputPath:      report.InputPath,
		OutputPath:     report.OutputPath,
		Width:          report.Width,
		Height:         report.Height,
		Params:         report.Params,
		RegionsFound:   report.Stats.RegionsFound,
		RegionsRemoved: report.Stats.RegionsRemoved,
		ObstaclePixels: report.ObstaclePixels(),
		DateCleaned:    report.DateCleaned,
		Duration:       report.Duration,
	}
	if report.Error != nil {
		s.Error = report.Error.Error()
	}
	return s
}

// RunRecord is one row of the run-history database: a Summary plus its
// database identity.
type RunRecord struct {
	// ID is the database row identifier.
	ID int64 `json:"id"`

	// Summary is the stored run summary.
	Summary Summary `json:"summary"`
}
