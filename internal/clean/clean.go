package clean

import (
	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// Clean runs the whole pipeline on one raster: classify, filter small
// obstacle regions, reconstruct. It returns the untouched original
// alongside the newly built cleaned raster so callers can diff or
// render the pair; gray itself is never mutated.
//
// Parameters are validated before any processing begins: reversed or
// overlapping thresholds return ErrInvalidThresholds and a negative
// minimum area returns ErrInvalidMinArea, in both cases with no partial
// output.
func Clean(gray *grid.Raster, p model.Params) (original, cleaned *grid.Raster, stats model.Stats, err error) {
	if err := ValidateParams(p); err != nil {
		return nil, nil, model.Stats{}, err
	}

	obstacles, unknown, err := Classify(gray, p.FreeThresh, p.OccupiedThresh)
	if err != nil {
		return nil, nil, model.Stats{}, err
	}

	// Only the obstacle mask is filtered; unknown space passes through.
	filtered, stats, err := FilterSmallRegions(obstacles, p.MinArea)
	if err != nil {
		return nil, nil, model.Stats{}, err
	}

	cleaned = Reconstruct(gray, filtered, unknown)
	return gray, cleaned, stats, nil
}
