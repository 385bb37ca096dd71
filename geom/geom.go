// Package geom provides the small set of 2D primitives the simulation
// needs: points, axis-aligned rects and segment intersection tests.
package geom

import "math"

// P is a point in world space.
type P struct {
	X float64
	Y float64
}

// Distance returns the euclidean distance to other.
func (p P) Distance(other P) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

func counterClockwise(a, b, c P) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsIntersect reports whether the straight path old -> new crosses the
// segment p1-p2. Symmetric under swapping p1 and p2.
func SegmentsIntersect(old, new, p1, p2 P) bool {
	return counterClockwise(old, p1, p2) != counterClockwise(new, p1, p2) &&
		counterClockwise(old, new, p1) != counterClockwise(old, new, p2)
}

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
