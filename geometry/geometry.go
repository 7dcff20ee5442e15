// Package geometry provides the screen-space primitives shared by the
// gesture machine and the surface controller.
package geometry

import "math"

// Point is a position in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectAt builds a Rect from an origin and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.W, H: size.H}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Clamp limits v to [lo, hi]. When hi < lo the range collapses to lo, so a
// surface larger than the screen is pinned to the top-left edge.
func Clamp(v, lo, hi float64) float64 {
	hi = math.Max(hi, lo)
	return math.Min(math.Max(v, lo), hi)
}

// ClampToScreen moves origin so that a rectangle of the given size stays
// within [0, screen.W-size.W] x [0, screen.H-size.H].
func ClampToScreen(origin Point, size, screen Size) Point {
	return Point{
		X: Clamp(origin.X, 0, screen.W-size.W),
		Y: Clamp(origin.Y, 0, screen.H-size.H),
	}
}

// Round converts p to integer pixel coordinates.
func (p Point) Round() (x, y int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}
