package clean

import (
	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// reconstructValues holds the three canonical output intensities.
type reconstructValues struct {
	free     uint8
	occupied uint8
	unknown  uint8
}

// ReconstructOption overrides one of the canonical output intensities.
type ReconstructOption func(*reconstructValues)

// WithFreeValue sets the intensity written for free cells.
func WithFreeValue(v uint8) ReconstructOption {
	return func(rv *reconstructValues) {
		rv.free = v
	}
}

// WithOccupiedValue sets the intensity written for obstacle cells.
func WithOccupiedValue(v uint8) ReconstructOption {
	return func(rv *reconstructValues) {
		rv.occupied = v
	}
}

// WithUnknownValue sets the intensity written for unknown cells.
func WithUnknownValue(v uint8) ReconstructOption {
	return func(rv *reconstructValues) {
		rv.unknown = v
	}
}

// Reconstruct composes the cleaned map from the filtered obstacle mask
// and the unknown mask: every cell starts free, unknown cells are
// overwritten with the unknown intensity, then obstacle cells with the
// occupied intensity. The obstacle write comes last so that it wins if a
// cell somehow appears in both masks, even though Classify guarantees
// the masks are disjoint.
//
// original is consulted only for its dimensions; reconstruction is
// purely mask-driven, which is what guarantees the output holds exactly
// the three canonical intensities.
func Reconstruct(original *grid.Raster, obstacles, unknown *grid.Mask, opts ...ReconstructOption) *grid.Raster {
	rv := reconstructValues{
		free:     grid.Free,
		occupied: grid.Occupied,
		unknown:  grid.Unknown,
	}
	for _, opt := range opts {
		opt(&rv)
	}

	out := grid.NewRaster(original.Width, original.Height)
	out.Fill(rv.free)
	for i, v := range unknown.Pix {
		if v != 0 {
			out.Pix[i] = rv.unknown
		}
	}
	for i, v := range obstacles.Pix {
		if v != 0 {
			out.Pix[i] = rv.occupied
		}
	}
	return out
}
