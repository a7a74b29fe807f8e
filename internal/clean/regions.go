package clean

import (
	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// Point is a cell coordinate in a mask.
type Point struct {
	X int
	Y int
}

// Region is one maximal 8-connected set of foreground cells in a mask.
// Regions are transient: found, measured, and discarded within a single
// filtering pass.
type Region struct {
	// Outline is the traced outer boundary, ordered clockwise starting
	// at the topmost-leftmost cell. Holes inside the region are not
	// traced; only the external contour matters for area estimation.
	Outline []Point

	// Area is the shoelace polygon area of Outline in square cells.
	// For thin structures this is near zero regardless of PixelCount.
	Area float64

	// PixelCount is the raw number of member cells.
	PixelCount int

	// pixels are the flat indices of every member cell, used for erasure.
	pixels []int
}

// moore lists the 8 neighbor offsets in clockwise order starting west,
// with y growing downward.
var moore = [8]Point{
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
}

// dirIndex returns the moore index of the offset from one cell to an
// 8-adjacent cell.
func dirIndex(from, to Point) int {
	dx, dy := to.X-from.X, to.Y-from.Y
	for i, d := range moore {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return 0
}

// FindRegions extracts every 8-connected foreground region of the mask,
// each with its traced outer contour and polygon area estimate. Regions
// are returned in scan order (top to bottom, left to right by their
// first cell); the order carries no meaning beyond determinism.
func FindRegions(mask *grid.Mask) []Region {
	w, h := mask.Width, mask.Height
	labeled := make([]bool, w*h)
	var regions []Region
	var queue []int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if mask.Pix[i] == 0 || labeled[i] {
				continue
			}

			// BFS over the component. Membership is pixel-exact; only
			// the area estimate is contour-based.
			labeled[i] = true
			pixels := []int{i}
			queue = append(queue[:0], i)
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				cx, cy := cur%w, cur/w
				for _, d := range moore {
					nx, ny := cx+d.X, cy+d.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if mask.Pix[ni] == 0 || labeled[ni] {
						continue
					}
					labeled[ni] = true
					pixels = append(pixels, ni)
					queue = append(queue, ni)
				}
			}

			// (x, y) is the topmost-leftmost cell of this component, the
			// anchor the contour trace requires.
			outline := traceOutline(mask, Point{X: x, Y: y})
			regions = append(regions, Region{
				Outline:    outline,
				Area:       polygonArea(outline),
				PixelCount: len(pixels),
				pixels:     pixels,
			})
		}
	}
	return regions
}

// traceOutline follows the outer boundary of the component containing
// start using Moore-neighbor tracing. start must be the component's
// topmost-leftmost cell so that its west neighbor is guaranteed
// background, giving the trace a valid initial backtrack.
//
// Termination uses the repetition of the full tracing state (cell plus
// backtrack) rather than mere revisiting of the start cell: thin
// structures legitimately pass through the same cell twice, once per
// side.
func traceOutline(mask *grid.Mask, start Point) []Point {
	outline := []Point{start}

	cur, back := start, Point{X: start.X - 1, Y: start.Y}
	next, nextBack, ok := traceStep(mask, cur, back)
	if !ok {
		// Isolated single cell: degenerate contour, zero area.
		return outline
	}
	firstCur, firstBack := next, nextBack
	cur, back = next, nextBack

	// Each cell appears at most once per approach side, so the contour
	// cannot exceed 4x the mask size; the cap only guards against bugs.
	maxSteps := 4 * (len(mask.Pix) + 4)
	for step := 0; step < maxSteps; step++ {
		outline = append(outline, cur)
		next, nextBack, _ = traceStep(mask, cur, back)
		if next == firstCur && nextBack == firstBack {
			return outline
		}
		cur, back = next, nextBack
	}
	return outline
}

// traceStep advances the contour by one cell: scan the 8 neighbors of
// cur clockwise starting just past the backtrack cell, move to the first
// foreground neighbor, and make the neighbor examined immediately before
// it the new backtrack. Reports ok=false when cur has no foreground
// neighbor at all.
func traceStep(mask *grid.Mask, cur, back Point) (next, nextBack Point, ok bool) {
	d0 := dirIndex(cur, back)
	for k := 1; k <= 8; k++ {
		d := (d0 + k) % 8
		n := Point{X: cur.X + moore[d].X, Y: cur.Y + moore[d].Y}
		if n.X < 0 || n.Y < 0 || n.X >= mask.Width || n.Y >= mask.Height || !mask.At(n.X, n.Y) {
			continue
		}
		prev := (d + 7) % 8
		return n, Point{X: cur.X + moore[prev].X, Y: cur.Y + moore[prev].Y}, true
	}
	return cur, back, false
}

// polygonArea computes the absolute shoelace area of a closed contour
// given as cell centers. Degenerate contours (points, lines) have zero
// area, which is exactly what lets thin walls slip under any positive
// area threshold.
func polygonArea(outline []Point) float64 {
	if len(outline) < 3 {
		return 0
	}
	sum := 0
	for i, p := range outline {
		q := outline[(i+1)%len(outline)]
		sum += p.X*q.Y - q.X*p.Y
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// FilterSmallRegions returns a copy of mask with every 8-connected
// region whose polygon area estimate falls below minArea erased, along
// with counts of regions found and removed. The input mask is never
// modified. Erasure clears every member cell, boundary and interior
// alike. A minArea of zero removes nothing; a negative minArea returns
// ErrInvalidMinArea.
//
// Regions are disjoint by construction, so each erasure is independent
// and the result does not depend on extraction order.
func FilterSmallRegions(mask *grid.Mask, minArea float64) (*grid.Mask, model.Stats, error) {
	if err := ValidateMinArea(minArea); err != nil {
		return nil, model.Stats{}, err
	}

	out := mask.Clone()
	regions := FindRegions(mask)

	stats := model.Stats{RegionsFound: len(regions)}
	for _, reg := range regions {
		if reg.Area < minArea {
			for _, i := range reg.pixels {
				out.Pix[i] = 0
			}
			stats.RegionsRemoved++
		}
	}
	return out, stats, nil
}
