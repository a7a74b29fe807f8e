package clean

import (
	"errors"
	"testing"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// fillRect marks the rectangle [x0,x0+w) x [y0,y0+h) as foreground.
func fillRect(m *grid.Mask, x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			m.Set(x, y)
		}
	}
}

func TestFindRegions(t *testing.T) {
	t.Parallel()

	t.Run("empty mask has no regions", func(t *testing.T) {
		t.Parallel()

		if got := FindRegions(grid.NewMask(10, 10)); len(got) != 0 {
			t.Errorf("expected 0 regions, got %d", len(got))
		}
	})

	t.Run("single cell is a degenerate region", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(5, 5)
		m.Set(2, 2)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		if regions[0].PixelCount != 1 {
			t.Errorf("expected pixel count 1, got %d", regions[0].PixelCount)
		}
		if regions[0].Area != 0 {
			t.Errorf("expected area 0 for a single cell, got %g", regions[0].Area)
		}
	})

	t.Run("filled rectangle area is width-1 times height-1", func(t *testing.T) {
		t.Parallel()

		// The contour runs through cell centers, so a w x h block of
		// cells spans a (w-1) x (h-1) polygon.
		m := grid.NewMask(60, 50)
		fillRect(m, 3, 4, 51, 41)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		if regions[0].Area != 2000 {
			t.Errorf("expected area 2000, got %g", regions[0].Area)
		}
		if regions[0].PixelCount != 51*41 {
			t.Errorf("expected %d pixels, got %d", 51*41, regions[0].PixelCount)
		}
	})

	t.Run("two by two block has area one", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(4, 4)
		fillRect(m, 1, 1, 2, 2)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		if regions[0].Area != 1 {
			t.Errorf("expected area 1, got %g", regions[0].Area)
		}
	})

	t.Run("thin line has zero area despite many pixels", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(20, 5)
		fillRect(m, 2, 2, 15, 1)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		if regions[0].Area != 0 {
			t.Errorf("expected area 0 for a one-cell-wide line, got %g", regions[0].Area)
		}
		if regions[0].PixelCount != 15 {
			t.Errorf("expected 15 pixels, got %d", regions[0].PixelCount)
		}
	})

	t.Run("diagonal cells are one region", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(5, 5)
		m.Set(1, 1)
		m.Set(2, 2)
		m.Set(3, 3)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("8-connectivity joins diagonals: expected 1 region, got %d", len(regions))
		}
	})

	t.Run("separate blobs are separate regions", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(20, 20)
		fillRect(m, 1, 1, 3, 3)
		fillRect(m, 10, 10, 4, 4)

		regions := FindRegions(m)
		if len(regions) != 2 {
			t.Fatalf("expected 2 regions, got %d", len(regions))
		}
		// Scan order: the top-left blob comes first.
		if regions[0].PixelCount != 9 || regions[1].PixelCount != 16 {
			t.Errorf("expected pixel counts 9 and 16, got %d and %d",
				regions[0].PixelCount, regions[1].PixelCount)
		}
	})

	t.Run("outline starts at the topmost-leftmost cell", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(10, 10)
		fillRect(m, 4, 3, 3, 3)

		regions := FindRegions(m)
		if len(regions) != 1 {
			t.Fatalf("expected 1 region, got %d", len(regions))
		}
		if got := regions[0].Outline[0]; got != (Point{X: 4, Y: 3}) {
			t.Errorf("expected outline to start at (4,3), got (%d,%d)", got.X, got.Y)
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(30, 30)
		fillRect(m, 2, 2, 5, 5)
		fillRect(m, 12, 7, 1, 10)
		fillRect(m, 20, 20, 6, 3)

		first := FindRegions(m)
		second := FindRegions(m)
		if len(first) != len(second) {
			t.Fatalf("region counts differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Area != second[i].Area || first[i].PixelCount != second[i].PixelCount {
				t.Errorf("region %d differs between runs", i)
			}
		}
	})
}

func TestPolygonArea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outline []Point
		want    float64
	}{
		{"empty", nil, 0},
		{"single point", []Point{{1, 1}}, 0},
		{"two points", []Point{{0, 0}, {5, 0}}, 0},
		{"unit square", []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"triangle", []Point{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"counterclockwise square", []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := polygonArea(tt.outline); got != tt.want {
				t.Errorf("polygonArea=%g, want %g", got, tt.want)
			}
		})
	}
}

func TestFilterSmallRegions(t *testing.T) {
	t.Parallel()

	t.Run("keeps large and erases small", func(t *testing.T) {
		t.Parallel()

		// One 51x41 rectangle (area 2000) and one 5x4 blob (area 12).
		// With min_area 30 only the small blob goes.
		m := grid.NewMask(80, 60)
		fillRect(m, 2, 2, 51, 41)
		fillRect(m, 60, 50, 5, 4)

		out, stats, err := FilterSmallRegions(m, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.RegionsFound != 2 {
			t.Errorf("expected 2 regions found, got %d", stats.RegionsFound)
		}
		if stats.RegionsRemoved != 1 {
			t.Errorf("expected 1 region removed, got %d", stats.RegionsRemoved)
		}
		if out.At(60, 50) || out.At(64, 53) {
			t.Error("small blob should be erased")
		}
		if !out.At(2, 2) || !out.At(52, 42) {
			t.Error("large rectangle should survive")
		}
		if out.Count() != 51*41 {
			t.Errorf("expected %d surviving cells, got %d", 51*41, out.Count())
		}
	})

	t.Run("erases interior as well as boundary", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(10, 10)
		fillRect(m, 2, 2, 5, 4)

		out, _, err := FilterSmallRegions(m, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Count() != 0 {
			t.Errorf("expected a fully erased mask, got %d cells", out.Count())
		}
	})

	t.Run("thin wall is removed by any positive threshold", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(40, 10)
		fillRect(m, 1, 5, 30, 1)

		out, stats, err := FilterSmallRegions(m, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.RegionsRemoved != 1 {
			t.Errorf("expected the line removed, got %d removals", stats.RegionsRemoved)
		}
		if out.Count() != 0 {
			t.Errorf("expected empty mask, got %d cells", out.Count())
		}
	})

	t.Run("zero min area removes nothing", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(10, 10)
		m.Set(5, 5)
		fillRect(m, 1, 1, 2, 2)

		out, stats, err := FilterSmallRegions(m, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stats.RegionsRemoved != 0 {
			t.Errorf("expected 0 removals, got %d", stats.RegionsRemoved)
		}
		if !out.Equal(m) {
			t.Error("mask should be unchanged with min_area 0")
		}
	})

	t.Run("negative min area is rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := FilterSmallRegions(grid.NewMask(5, 5), -1)
		if !errors.Is(err, ErrInvalidMinArea) {
			t.Errorf("expected ErrInvalidMinArea, got %v", err)
		}
	})

	t.Run("input mask is never modified", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(10, 10)
		fillRect(m, 2, 2, 3, 3)
		before := m.Clone()

		if _, _, err := FilterSmallRegions(m, 100); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.Equal(before) {
			t.Error("FilterSmallRegions mutated its input")
		}
	})

	t.Run("raising min area removes monotonically more", func(t *testing.T) {
		t.Parallel()

		m := grid.NewMask(40, 40)
		fillRect(m, 1, 1, 3, 3)   // area 4
		fillRect(m, 10, 10, 5, 5) // area 16
		fillRect(m, 20, 20, 9, 9) // area 64

		prev := -1
		for _, minArea := range []float64{0, 5, 20, 100} {
			_, stats, err := FilterSmallRegions(m, minArea)
			if err != nil {
				t.Fatalf("unexpected error at min_area=%g: %v", minArea, err)
			}
			if stats.RegionsRemoved < prev {
				t.Errorf("removed count decreased at min_area=%g", minArea)
			}
			prev = stats.RegionsRemoved
		}
		if prev != 3 {
			t.Errorf("expected all 3 regions removed at min_area=100, got %d", prev)
		}
	})
}
