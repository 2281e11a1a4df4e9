package stimulus

import "math"

// Ring inset fractions for the calibration grid. Both rings share the same
// eight positions (four corners, four edge midpoints).
const (
	outerInsetFraction = 0.12
	innerInsetFraction = 0.26
)

// GridSize is the number of points a calibration grid always contains.
const GridSize = 16

// Grid produces the fixed 16-point calibration layout for a width x height
// surface: an outer ring inset 12% from each edge and an inner ring inset
// 26%, eight points each. Deterministic and side-effect free. Returns nil
// when either dimension is not positive; calibration mode treats that as a
// fatal precondition.
func Grid(width, height int) []Point {
	if width <= 0 || height <= 0 {
		return nil
	}

	points := make([]Point, 0, GridSize)
	points = append(points, ring(width, height, outerInsetFraction, "outer")...)
	points = append(points, ring(width, height, innerInsetFraction, "inner")...)
	return points
}

func ring(width, height int, fraction float64, label string) []Point {
	insetX := int(math.Round(float64(width) * fraction))
	insetY := int(math.Round(float64(height) * fraction))
	cx := width / 2
	cy := height / 2

	left, right := insetX, width-insetX
	top, bottom := insetY, height-insetY

	return []Point{
		{X: left, Y: top, Label: label + "-top-left"},
		{X: cx, Y: top, Label: label + "-top-center"},
		{X: right, Y: top, Label: label + "-top-right"},
		{X: left, Y: cy, Label: label + "-mid-left"},
		{X: right, Y: cy, Label: label + "-mid-right"},
		{X: left, Y: bottom, Label: label + "-bottom-left"},
		{X: cx, Y: bottom, Label: label + "-bottom-center"},
		{X: right, Y: bottom, Label: label + "-bottom-right"},
	}
}
