package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: plain text with ASCII formatting rather than ANSI
// colors, so output pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the full report in human-readable format, deriving the
// summary from the report.
func (w *SimpleWriter) Write(report *model.CleanReport) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(s *model.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("=== Map Cleaning Report ===\n")
	fmt.Fprintf(&sb, "Input:            %s\n", s.InputPath)
	if s.OutputPath != "" {
		fmt.Fprintf(&sb, "Output:           %s\n", s.OutputPath)
	}
	fmt.Fprintf(&sb, "Size:             %dx%d px\n", s.Width, s.Height)
	fmt.Fprintf(&sb, "Regions found:    %d\n", s.RegionsFound)
	fmt.Fprintf(&sb, "Regions removed:  %d (area < %g)\n", s.RegionsRemoved, s.Params.MinArea)
	fmt.Fprintf(&sb, "Obstacle pixels:  %d\n", s.ObstaclePixels)

	if w.verbose {
		fmt.Fprintf(&sb, "Free threshold:   %d\n", s.Params.FreeThresh)
		fmt.Fprintf(&sb, "Occupied thresh:  %d\n", s.Params.OccupiedThresh)
		fmt.Fprintf(&sb, "Cleaned at:       %s\n", s.DateCleaned.Format(time.RFC3339))
		fmt.Fprintf(&sb, "Duration:         %s\n", s.Duration.Round(time.Millisecond))
	}

	if s.Error != "" {
		fmt.Fprintf(&sb, "Error:            %s\n", s.Error)
	}

	return io.WriteString(w.output, sb.String())
}
