package geom

// Rect is an axis-aligned rectangle stored as two arbitrary corners.
// Accessors normalize so callers never need to care which corner is which.
type Rect struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func RectFromPoints(a, b P) Rect {
	return Rect{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
}

func (r Rect) Left() float64 {
	if r.X1 < r.X2 {
		return r.X1
	}
	return r.X2
}

func (r Rect) Right() float64 {
	if r.X1 > r.X2 {
		return r.X1
	}
	return r.X2
}

func (r Rect) Bot() float64 {
	if r.Y1 < r.Y2 {
		return r.Y1
	}
	return r.Y2
}

func (r Rect) Top() float64 {
	if r.Y1 > r.Y2 {
		return r.Y1
	}
	return r.Y2
}

// Offset returns the rect translated by (x, y).
func (r Rect) Offset(x, y float64) Rect {
	return Rect{X1: r.X1 + x, Y1: r.Y1 + y, X2: r.X2 + x, Y2: r.Y2 + y}
}

// Contains reports whether the point lies strictly inside the rect.
func (r Rect) Contains(p P) bool {
	return p.X > r.Left() && p.X < r.Right() && p.Y > r.Bot() && p.Y < r.Top()
}

// Collision reports whether the two rects overlap.
func (r Rect) Collision(other Rect) bool {
	return r.Left() < other.Right() && r.Right() > other.Left() &&
		r.Bot() < other.Top() && r.Top() > other.Bot()
}
