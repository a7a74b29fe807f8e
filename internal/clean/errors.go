package clean

import (
	"errors"
	"fmt"

	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// Parameter validation errors.
//
// Design decision: We use package-level sentinel errors so callers can
// dispatch with errors.Is while call sites wrap them with the offending
// values. Both the CLI's config validation and the core entry points
// return the same sentinels, so a precondition violation looks identical
// no matter where it is caught.
var (
	// ErrInvalidThresholds is returned when the classification thresholds
	// do not satisfy 0 <= occupied < free <= 255. Overlapping or reversed
	// thresholds would make the obstacle and unknown bands ambiguous, so
	// the run is rejected before any raster is touched.
	ErrInvalidThresholds = errors.New("invalid thresholds: need 0 <= occupied_thresh < free_thresh <= 255")

	// ErrInvalidMinArea is returned when the minimum region area is
	// negative. Use 0 to keep every region.
	ErrInvalidMinArea = errors.New("invalid min area: must be non-negative")
)

// ValidateThresholds checks the classification precondition
// 0 <= occupiedThresh < freeThresh <= 255.
func ValidateThresholds(freeThresh, occupiedThresh int) error {
	if occupiedThresh < 0 || freeThresh > 255 || occupiedThresh >= freeThresh {
		return fmt.Errorf("%w: occupied_thresh=%d free_thresh=%d",
			ErrInvalidThresholds, occupiedThresh, freeThresh)
	}
	return nil
}

// ValidateMinArea checks that the minimum region area is non-negative.
func ValidateMinArea(minArea float64) error {
	if minArea < 0 {
		return fmt.Errorf("%w: min_area=%g", ErrInvalidMinArea, minArea)
	}
	return nil
}

// ValidateParams checks a full parameter set, failing on the first
// violation. This is called once before any processing begins.
func ValidateParams(p model.Params) error {
	if err := ValidateThresholds(p.FreeThresh, p.OccupiedThresh); err != nil {
		return err
	}
	return ValidateMinArea(p.MinArea)
}
