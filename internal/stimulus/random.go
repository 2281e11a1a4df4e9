package stimulus

import "math/rand"

// Random placement keeps the dot and its glow ring fully visible by
// insetting 5% from each edge.
const randomInsetFraction = 0.05

// RandomPoint picks a uniformly random stimulus position on a width x height
// surface. The caller owns the rand source so sessions are reproducible in
// tests.
func RandomPoint(width, height int, rng *rand.Rand) Point {
	insetX := int(float64(width) * randomInsetFraction)
	insetY := int(float64(height) * randomInsetFraction)

	spanX := width - 2*insetX
	spanY := height - 2*insetY
	if spanX <= 0 || spanY <= 0 {
		return Point{X: width / 2, Y: height / 2}
	}

	return Point{
		X: insetX + rng.Intn(spanX+1),
		Y: insetY + rng.Intn(spanY+1),
	}
}
