package geometry

import "math"

// curveSegments is the flattening resolution used for distance queries.
const curveSegments = 32

// Cubic is a cubic Bezier curve from Start to End.
type Cubic struct {
	Start    Point `json:"start"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	End      Point `json:"end"`
}

// HorizontalCubic builds the connector curve used for edges: control points are
// offset horizontally by half the horizontal distance between from and to.
func HorizontalCubic(from, to Point) Cubic {
	dx := math.Abs(to.X-from.X) * 0.5
	return Cubic{
		Start:    from,
		Control1: Point{X: from.X + dx, Y: from.Y},
		Control2: Point{X: to.X - dx, Y: to.Y},
		End:      to,
	}
}

// At evaluates the curve at t in [0,1].
func (c Cubic) At(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	d := 3 * mt * t * t
	e := t * t * t
	return Point{
		X: a*c.Start.X + b*c.Control1.X + d*c.Control2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.Control1.Y + d*c.Control2.Y + e*c.End.Y,
	}
}

// Flatten approximates the curve with n+1 points.
func (c Cubic) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	points := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		points[i] = c.At(float64(i) / float64(n))
	}
	return points
}

// Distance returns the approximate shortest distance from p to the curve.
func (c Cubic) Distance(p Point) float64 {
	points := c.Flatten(curveSegments)
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		if d := SegmentDistance(p, points[i-1], points[i]); d < best {
			best = d
		}
	}
	return best
}

// Hit reports whether p lies within tolerance pixels of the curve.
func (c Cubic) Hit(p Point, tolerance float64) bool {
	if !c.Bounds().Inset(tolerance).Contains(p) {
		return false
	}
	return c.Distance(p) <= tolerance
}

// Bounds returns the control-polygon bounding box, which contains the curve.
func (c Cubic) Bounds() Rect {
	minX := math.Min(math.Min(c.Start.X, c.End.X), math.Min(c.Control1.X, c.Control2.X))
	minY := math.Min(math.Min(c.Start.Y, c.End.Y), math.Min(c.Control1.Y, c.Control2.Y))
	maxX := math.Max(math.Max(c.Start.X, c.End.X), math.Max(c.Control1.X, c.Control2.X))
	maxY := math.Max(math.Max(c.Start.Y, c.End.Y), math.Max(c.Control1.Y, c.Control2.Y))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Midpoint returns the point on the curve at t=0.5.
func (c Cubic) Midpoint() Point { return c.At(0.5) }
