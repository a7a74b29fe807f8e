package clean

import (
	"context"
	"errors"
	"testing"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// mockStep is a controllable step for pipeline orchestration tests.
type mockStep struct {
	name     string
	err      error
	executed bool
}

func (m *mockStep) Do(_ context.Context, _ *model.CleanReport) error {
	m.executed = true
	return m.err
}

func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		first := &mockStep{name: "first"}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		report := model.NewCleanReport("map.pgm", testParams())
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first.executed || !second.executed {
			t.Error("expected both steps to execute")
		}
		if len(report.PerformedSteps) != 2 ||
			report.PerformedSteps[0] != "first" || report.PerformedSteps[1] != "second" {
			t.Errorf("unexpected performed steps: %v", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("boom")
		failing := &mockStep{name: "failing", err: stepErr}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		report := model.NewCleanReport("map.pgm", testParams())
		if err := p.Execute(context.Background(), report); !errors.Is(err, stepErr) {
			t.Fatalf("expected step error, got %v", err)
		}
		if after.executed {
			t.Error("step after a failure must not run")
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("expected error recorded in report, got %q", report.ErrorMessage)
		}
	})

	t.Run("continues past errors when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", err: errors.New("boom")}
		after := &mockStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		report := model.NewCleanReport("map.pgm", testParams())
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("expected nil error with continue-on-error, got %v", err)
		}
		if !after.executed {
			t.Error("expected execution to continue past the failure")
		}
		if report.Error == nil {
			t.Error("expected the failure recorded in the report")
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewCleanReport("map.pgm", testParams())
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.executed {
			t.Error("no step should run after cancellation")
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected step names: %v", names)
	}
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("contains the standard steps in order", func(t *testing.T) {
		t.Parallel()

		p, err := DefaultPipeline(testParams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"classify", "filter_regions", "reconstruct"}
		got := p.StepNames()
		if len(got) != len(want) {
			t.Fatalf("expected %d steps, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("step %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		_, err := DefaultPipeline(model.Params{MinArea: 30, FreeThresh: 50, OccupiedThresh: 230})
		if !errors.Is(err, ErrInvalidThresholds) {
			t.Errorf("expected ErrInvalidThresholds, got %v", err)
		}
	})

	t.Run("end to end run fills the report", func(t *testing.T) {
		t.Parallel()

		gray := grayWithBlobs(80, 60,
			[4]int{2, 2, 51, 41},
			[4]int{60, 50, 5, 4},
		)

		report := model.NewCleanReport("map.pgm", testParams())
		report.SetOriginal(gray)

		p, err := DefaultPipeline(testParams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("pipeline failed: %v", err)
		}

		if report.Cleaned == nil {
			t.Fatal("expected a cleaned raster in the report")
		}
		if report.Stats.RegionsFound != 2 || report.Stats.RegionsRemoved != 1 {
			t.Errorf("expected found=2 removed=1, got %+v", report.Stats)
		}
		if report.Cleaned.At(62, 51) != grid.Free {
			t.Error("small blob should be erased in the cleaned raster")
		}
		if got := report.ObstaclePixels(); got != 51*41 {
			t.Errorf("expected %d obstacle pixels, got %d", 51*41, got)
		}
	})
}

func TestClassifyStep(t *testing.T) {
	t.Parallel()

	t.Run("fails without an original raster", func(t *testing.T) {
		t.Parallel()

		report := model.NewCleanReport("map.pgm", testParams())
		if err := NewClassifyStep().Do(context.Background(), report); err == nil {
			t.Error("expected an error for a report with no raster")
		}
	})

	t.Run("populates both masks", func(t *testing.T) {
		t.Parallel()

		report := model.NewCleanReport("map.pgm", testParams())
		report.SetOriginal(grayWithBlobs(10, 10, [4]int{2, 2, 3, 3}))

		if err := NewClassifyStep().Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Obstacles == nil || report.Unknown == nil {
			t.Fatal("expected masks in the report")
		}
		if report.Obstacles.Count() != 9 {
			t.Errorf("expected 9 obstacle cells, got %d", report.Obstacles.Count())
		}
	})
}

func TestFilterStepRequiresObstacleMask(t *testing.T) {
	t.Parallel()

	report := model.NewCleanReport("map.pgm", testParams())
	if err := NewFilterStep().Do(context.Background(), report); err == nil {
		t.Error("expected an error for a report with no obstacle mask")
	}
}

func TestReconstructStepRequiresMasks(t *testing.T) {
	t.Parallel()

	report := model.NewCleanReport("map.pgm", testParams())
	if err := NewReconstructStep().Do(context.Background(), report); err == nil {
		t.Error("expected an error for a report with missing masks")
	}
}
