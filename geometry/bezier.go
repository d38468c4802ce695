package geometry

import "math"

// bezierSamples is the number of segments used for arclength approximation.
const bezierSamples = 32

// QuadBezier is a quadratic Bézier curve from Start to End through Control.
type QuadBezier struct {
	Start, Control, End Point
}

// At evaluates the curve at parameter t in [0, 1].
func (q QuadBezier) At(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*q.Start.X + 2*u*t*q.Control.X + t*t*q.End.X,
		Y: u*u*q.Start.Y + 2*u*t*q.Control.Y + t*t*q.End.Y,
	}
}

// TangentAngle returns the screen-convention tangent direction in degrees
// at parameter t.
func (q QuadBezier) TangentAngle(t float64) float64 {
	u := 1 - t
	dx := 2*u*(q.Control.X-q.Start.X) + 2*t*(q.End.X-q.Control.X)
	dy := 2*u*(q.Control.Y-q.Start.Y) + 2*t*(q.End.Y-q.Control.Y)
	return Degrees(math.Atan2(-dy, dx))
}

// Length returns the approximate arclength of the curve.
func (q QuadBezier) Length() float64 {
	var length float64
	prev := q.Start
	for i := 1; i <= bezierSamples; i++ {
		p := q.At(float64(i) / bezierSamples)
		length += prev.Distance(p)
		prev = p
	}
	return length
}

// AtArclength returns the point at the given fraction of the curve's
// arclength. Fraction is clamped to [0, 1].
func (q QuadBezier) AtArclength(fraction float64) Point {
	if fraction <= 0 {
		return q.Start
	}
	if fraction >= 1 {
		return q.End
	}
	target := q.Length() * fraction
	var travelled float64
	prev := q.Start
	for i := 1; i <= bezierSamples; i++ {
		t := float64(i) / bezierSamples
		p := q.At(t)
		seg := prev.Distance(p)
		if travelled+seg >= target && seg > 0 {
			rem := (target - travelled) / seg
			return Lerp(prev, p, rem)
		}
		travelled += seg
		prev = p
	}
	return q.End
}

// Midpoint returns the point at 50% arclength.
func (q QuadBezier) Midpoint() Point {
	return q.AtArclength(0.5)
}
