package stimulus

import "fmt"

// Point is a target location in surface-pixel coordinates. Points are
// immutable once generated and always satisfy 0 <= X <= width and
// 0 <= Y <= height for the surface they were generated against.
type Point struct {
	X     int
	Y     int
	Label string
}

// String renders a point for logs and status messages.
func (p Point) String() string {
	if p.Label != "" {
		return fmt.Sprintf("%s(%d,%d)", p.Label, p.X, p.Y)
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// InBounds reports whether the point lies within a width x height surface.
func (p Point) InBounds(width, height int) bool {
	return p.X >= 0 && p.X <= width && p.Y >= 0 && p.Y <= height
}
