// Package geom holds the planar helpers shared by the boat model, the
// guidance strategies and the course generator.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
)

const (
	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi
)

func Clamp(v, low, high float64) float64 {
	return lo.Clamp(v, low, high)
}

// ClampAbs limits v to [-limit, limit]. A non-positive limit disables it.
func ClampAbs(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return lo.Clamp(v, -limit, limit)
}

// WrapAngle maps an angle into [-pi, pi).
func WrapAngle(a float64) float64 {
	m := math.Mod(a+math.Pi, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m - math.Pi
}

// AngleTo is the bearing from p to q in the world frame.
func AngleTo(p, q r2.Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

func Distance(p, q r2.Point) float64 {
	return q.Sub(p).Norm()
}

// Heading returns the unit vector pointing along angle a.
func Heading(a float64) r2.Point {
	return r2.Point{X: math.Cos(a), Y: math.Sin(a)}
}

// Rotate turns v by angle a around the origin.
func Rotate(v r2.Point, a float64) r2.Point {
	s, c := math.Sincos(a)
	return r2.Point{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Rectangle returns the corners of a length x width rectangle centered on
// center with its length axis along orientation. Corners are ordered
// front-left, back-left, back-right, front-right.
func Rectangle(center r2.Point, orientation, length, width float64) [4]r2.Point {
	hl, hw := length/2, width/2
	local := [4]r2.Point{
		{X: hl, Y: hw},
		{X: -hl, Y: hw},
		{X: -hl, Y: -hw},
		{X: hl, Y: -hw},
	}
	var out [4]r2.Point
	for i, p := range local {
		out[i] = center.Add(Rotate(p, orientation))
	}
	return out
}

// Centroid is the arithmetic mean of pts, or the origin when pts is empty.
func Centroid(pts []r2.Point) r2.Point {
	if len(pts) == 0 {
		return r2.Point{}
	}
	var sum r2.Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}
