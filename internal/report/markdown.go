package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, meant for
// dropping into mapping-session notes or pull requests that update a
// fleet's maps.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CleanReport) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(s *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Map Cleaning Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + s.InputPath + "`"},
			{"Output", "`" + s.OutputPath + "`"},
			{"Size", strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height) + " px"},
			{"Cleaned", s.DateCleaned.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Duration.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	md.H2("Parameters")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Parameter", "Value"},
		Rows: [][]string{
			{"Minimum region area", strconv.FormatFloat(s.Params.MinArea, 'g', -1, 64)},
			{"Free threshold", strconv.Itoa(s.Params.FreeThresh)},
			{"Occupied threshold", strconv.Itoa(s.Params.OccupiedThresh)},
		},
	})
	md.PlainText("")

	md.H2("Result")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Obstacle regions found", strconv.Itoa(s.RegionsFound)},
			{"Regions removed", strconv.Itoa(s.RegionsRemoved)},
			{"Obstacle pixels kept", strconv.Itoa(s.ObstaclePixels)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, s)

	if s.Error != "" {
		md.Cautionf("Run failed: %s", s.Error)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// writeAlert summarizes the filtering outcome as a GFM alert.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case s.RegionsFound == 0:
		md.Tip("No obstacle regions found; the map was already clean.")
	case s.RegionsRemoved == 0:
		md.Note("All obstacle regions met the minimum area; nothing was removed.")
	default:
		md.Note(fmt.Sprintf("Removed %d of %d obstacle region(s).", s.RegionsRemoved, s.RegionsFound))
	}
	md.PlainText("")
}
