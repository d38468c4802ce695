package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointOnCircleScreenConvention(t *testing.T) {
	c := Point{X: 50, Y: 50}

	east := PointOnCircle(c, 10, 0)
	assert.InDelta(t, 60, east.X, 1e-9)
	assert.InDelta(t, 50, east.Y, 1e-9)

	// Positive angles rotate counter-clockwise on screen, so 90 is up.
	north := PointOnCircle(c, 10, 90)
	assert.InDelta(t, 50, north.X, 1e-9)
	assert.InDelta(t, 40, north.Y, 1e-9)

	south := PointOnCircle(c, 10, 270)
	assert.InDelta(t, 60, south.Y, 1e-9)
}

func TestAngleToRoundTripsPointOnCircle(t *testing.T) {
	c := Point{X: 10, Y: 20}
	for _, angle := range []float64{0, 45, 90, 135, 180} {
		p := PointOnCircle(c, 30, angle)
		assert.InDelta(t, angle, c.AngleTo(p), 1e-9, "angle %v", angle)
	}
	// Below center is negative in atan2 terms.
	assert.InDelta(t, -90, c.AngleTo(Point{X: 10, Y: 50}), 1e-9)
}

func TestAngleToDueWestIsPositive(t *testing.T) {
	// Exactly horizontal targets must not flip to -180 through a signed
	// zero dy.
	c := Point{X: 10, Y: 20}
	assert.InDelta(t, 180, c.AngleTo(Point{X: -30, Y: 20}), 1e-9)
	assert.InDelta(t, 0, c.AngleTo(Point{X: 50, Y: 20}), 1e-9)
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3.5, Abs(-3.5))
	assert.Equal(t, 3.5, Abs(3.5))
	assert.Equal(t, 0.0, Abs(0))
}

func TestPointArithmetic(t *testing.T) {
	a := Point{X: 3, Y: 4}
	b := Point{X: 1, Y: 1}
	assert.Equal(t, Point{X: 4, Y: 5}, a.Add(b))
	assert.Equal(t, Point{X: 2, Y: 3}, a.Sub(b))
	assert.InDelta(t, 5, Point{}.Distance(a), 1e-9)
	assert.Equal(t, Point{X: 2, Y: 2.5}, Lerp(b, a, 0.5))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 10}
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 29, Y: 19}))
	assert.False(t, r.Contains(Point{X: 30, Y: 15}))
	assert.Equal(t, Point{X: 20, Y: 15}, r.Center())
}

func TestQuadBezierEndpoints(t *testing.T) {
	q := QuadBezier{Control: Point{X: 50, Y: -40}, End: Point{X: 100, Y: 0}}
	assert.Equal(t, q.Start, q.At(0))
	assert.Equal(t, q.End, q.At(1))
	assert.Equal(t, q.Start, q.AtArclength(0))
	assert.Equal(t, q.End, q.AtArclength(1))
}

func TestQuadBezierDegenerateIsStraight(t *testing.T) {
	// Control on the chord midpoint collapses the curve to a segment.
	q := QuadBezier{Control: Point{X: 50, Y: 0}, End: Point{X: 100, Y: 0}}
	assert.InDelta(t, 100, q.Length(), 1e-6)
	mid := q.Midpoint()
	assert.InDelta(t, 50, mid.X, 1e-6)
	assert.InDelta(t, 0, mid.Y, 1e-6)
	assert.InDelta(t, 0, q.TangentAngle(0.98), 1e-9)
}

func TestQuadBezierMidpointIsSymmetric(t *testing.T) {
	// A symmetric bow peaks at its arclength midpoint.
	q := QuadBezier{Control: Point{X: 50, Y: -60}, End: Point{X: 100, Y: 0}}
	mid := q.Midpoint()
	assert.InDelta(t, 50, mid.X, 0.5)
	assert.Less(t, mid.Y, -25.0)
}
