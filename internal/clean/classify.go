package clean

import (
	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// Classify splits a grayscale map into an obstacle mask and an unknown
// mask using two intensity thresholds:
//
//	v <  occupiedThresh              -> obstacle
//	occupiedThresh <= v < freeThresh -> unknown
//	v >= freeThresh                  -> free (neither mask)
//
// The two masks are mutually exclusive by construction: the bands are
// disjoint half-open intervals. Classify is a pure function of its
// inputs and never modifies gray.
//
// The thresholds must satisfy 0 <= occupiedThresh < freeThresh <= 255;
// otherwise ErrInvalidThresholds is returned and no masks are built.
func Classify(gray *grid.Raster, freeThresh, occupiedThresh int) (obstacles, unknown *grid.Mask, err error) {
	if err := ValidateThresholds(freeThresh, occupiedThresh); err != nil {
		return nil, nil, err
	}

	obstacles = grid.NewMask(gray.Width, gray.Height)
	unknown = grid.NewMask(gray.Width, gray.Height)

	for i, v := range gray.Pix {
		switch {
		case int(v) < occupiedThresh:
			obstacles.Pix[i] = 255
		case int(v) < freeThresh:
			unknown.Pix[i] = 255
		}
	}
	return obstacles, unknown, nil
}
