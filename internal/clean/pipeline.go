package clean

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// ErrMasksOverlap is returned by the classify step when the obstacle and
// unknown masks share a foreground cell. Classify's disjoint threshold
// bands make this impossible for any input, so hitting it means the
// masks were corrupted after classification.
var ErrMasksOverlap = errors.New("obstacle and unknown masks overlap")

// Step defines the interface that all pipeline steps implement. Steps
// run in sequence, each reading from and writing to the shared report.
//
// Design decision: We use an interface rather than function types
// because it lets steps carry configuration state, provides a Name()
// for logging, and leaves room for future steps (e.g., morphological
// passes) without changing the orchestrator.
type Step interface {
	// Do executes the step against the accumulated report. A returned
	// error is a critical failure of the run.
	Do(ctx context.Context, report *model.CleanReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of the cleaning steps for a
// single raster. It owns no raster state itself; everything lives in
// the report, which is discarded by the caller when the run ends.
type Pipeline struct {
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to keep executing steps after
	// one fails. The default is to stop: every step feeds the next, so
	// a failure upstream leaves nothing useful for downstream steps.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to record step failures
// in the report and keep going instead of stopping.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline with the given options. Steps are added
// with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all steps in sequence against the report. Cancellation
// is checked between steps; the steps themselves are pure in-memory
// transforms and complete quickly.
//
// Returns the first error encountered unless WithContinueOnError was
// set, in which case errors are recorded in the report and execution
// continues.
func (p *Pipeline) Execute(ctx context.Context, report *model.CleanReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"input", report.InputPath,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"input", report.InputPath,
				"error", err,
			)
			report.Error = err
			report.ErrorMessage = err.Error()
			if !p.continueOnError {
				return err
			}
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

// ClassifyStep splits the original raster into obstacle and unknown
// masks and verifies they are disjoint.
type ClassifyStep struct {
	logger *slog.Logger
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// NewClassifyStep creates a new classification step.
func NewClassifyStep(opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(_ context.Context, report *model.CleanReport) error {
	if report.Original == nil {
		return errors.New("classify: report has no original raster")
	}

	obstacles, unknown, err := Classify(report.Original, report.Params.FreeThresh, report.Params.OccupiedThresh)
	if err != nil {
		return err
	}
	if obstacles.Overlaps(unknown) {
		return ErrMasksOverlap
	}

	report.Obstacles = obstacles
	report.Unknown = unknown

	s.logger.Debug("classified raster",
		"obstacle_cells", obstacles.Count(),
		"unknown_cells", unknown.Count(),
	)
	return nil
}

// FilterStep erases obstacle regions below the minimum area and records
// the region counts in the report.
type FilterStep struct {
	logger *slog.Logger
}

// FilterStepOption configures a FilterStep.
type FilterStepOption func(*FilterStep)

// WithFilterLogger sets a custom logger for the filter step.
func WithFilterLogger(logger *slog.Logger) FilterStepOption {
	return func(s *FilterStep) {
		s.logger = logger
	}
}

// NewFilterStep creates a new region filtering step.
func NewFilterStep(opts ...FilterStepOption) *FilterStep {
	s := &FilterStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter_regions"
}

// Do executes the region filtering step.
func (s *FilterStep) Do(_ context.Context, report *model.CleanReport) error {
	if report.Obstacles == nil {
		return errors.New("filter_regions: report has no obstacle mask")
	}

	filtered, stats, err := FilterSmallRegions(report.Obstacles, report.Params.MinArea)
	if err != nil {
		return err
	}

	report.Filtered = filtered
	report.Stats = stats

	s.logger.Info("filtered obstacle regions",
		"regions_found", stats.RegionsFound,
		"regions_removed", stats.RegionsRemoved,
		"min_area", report.Params.MinArea,
	)
	return nil
}

// ReconstructStep builds the cleaned three-level raster from the
// filtered obstacle mask and the unchanged unknown mask.
type ReconstructStep struct {
	logger *slog.Logger
	opts   []ReconstructOption
}

// ReconstructStepOption configures a ReconstructStep.
type ReconstructStepOption func(*ReconstructStep)

// WithReconstructLogger sets a custom logger for the reconstruct step.
func WithReconstructLogger(logger *slog.Logger) ReconstructStepOption {
	return func(s *ReconstructStep) {
		s.logger = logger
	}
}

// WithReconstructValues forwards intensity overrides to Reconstruct.
func WithReconstructValues(opts ...ReconstructOption) ReconstructStepOption {
	return func(s *ReconstructStep) {
		s.opts = append(s.opts, opts...)
	}
}

// NewReconstructStep creates a new reconstruction step.
func NewReconstructStep(opts ...ReconstructStepOption) *ReconstructStep {
	s := &ReconstructStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ReconstructStep) Name() string {
	return "reconstruct"
}

// Do executes the reconstruction step.
func (s *ReconstructStep) Do(_ context.Context, report *model.CleanReport) error {
	if report.Filtered == nil || report.Unknown == nil {
		return errors.New("reconstruct: report is missing masks")
	}

	report.Cleaned = Reconstruct(report.Original, report.Filtered, report.Unknown, s.opts...)

	s.logger.Debug("reconstructed map",
		"width", report.Cleaned.Width,
		"height", report.Cleaned.Height,
	)
	return nil
}

// DefaultPipeline creates a pipeline with the standard cleaning steps
// in order: classify, filter, reconstruct. Parameters must be valid;
// invalid parameters are rejected here so the failure surfaces before
// any raster is touched.
func DefaultPipeline(params model.Params, opts ...Option) (*Pipeline, error) {
	if err := ValidateParams(params); err != nil {
		return nil, fmt.Errorf("pipeline configuration: %w", err)
	}

	p := New(opts...)
	p.AddSteps(
		NewClassifyStep(WithClassifyLogger(p.logger)),
		NewFilterStep(WithFilterLogger(p.logger)),
		NewReconstructStep(WithReconstructLogger(p.logger)),
	)
	return p, nil
}
