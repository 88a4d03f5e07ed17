package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{2.5 * math.Pi, math.Pi / 2},
		{-0.75 * math.Pi, -0.75 * math.Pi},
	}

	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampAbs(t *testing.T) {
	if got := ClampAbs(12, 5); got != 5 {
		t.Errorf("ClampAbs(12, 5) = %v", got)
	}
	if got := ClampAbs(-12, 5); got != -5 {
		t.Errorf("ClampAbs(-12, 5) = %v", got)
	}
	if got := ClampAbs(-12, 0); got != -12 {
		t.Errorf("zero limit should disable clamping, got %v", got)
	}
}

func TestRectangleCorners(t *testing.T) {
	c := Rectangle(r2.Point{X: 1, Y: 2}, 0, 4, 2)
	want := [4]r2.Point{{X: 3, Y: 3}, {X: -1, Y: 3}, {X: -1, Y: 1}, {X: 3, Y: 1}}
	for i := range want {
		if !near(c[i], want[i]) {
			t.Errorf("corner %d = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestRectangleRotatedKeepsCentroid(t *testing.T) {
	center := r2.Point{X: -7, Y: 11}
	c := Rectangle(center, 1.234, 20, 3)
	if got := Centroid(c[:]); !near(got, center) {
		t.Errorf("centroid = %v, want %v", got, center)
	}
	if d := Distance(c[0], c[1]); math.Abs(d-20) > 1e-9 {
		t.Errorf("long edge = %v, want 20", d)
	}
	if d := Distance(c[1], c[2]); math.Abs(d-3) > 1e-9 {
		t.Errorf("short edge = %v, want 3", d)
	}
}
