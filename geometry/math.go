// Package geometry contains the fundamental 2D math used throughout the weave diagram engine.
package geometry

import "math"

// Point represents a 2D coordinate in scene space.
type Point struct {
	X, Y float64
}

// Add returns the point translated by the given offset.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the offset from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance returns the Euclidean distance to o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// AngleTo returns the screen-convention angle in degrees from p toward o.
// The vertical operand is written as p.Y-o.Y so a zero dy stays +0.0 and
// due west comes out as 180, not -180.
func (p Point) AngleTo(o Point) float64 {
	return Degrees(math.Atan2(p.Y-o.Y, o.X-p.X))
}

// Rect represents an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// PointOnCircle returns the point at the given angle on a circle.
// Angles follow diagram convention: degrees, 0 = east, positive rotates
// counter-clockwise on screen (y axis points down).
func PointOnCircle(center Point, radius, angleDeg float64) Point {
	rad := Radians(angleDeg)
	return Point{
		X: center.X + radius*math.Cos(rad),
		Y: center.Y - radius*math.Sin(rad),
	}
}

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}
