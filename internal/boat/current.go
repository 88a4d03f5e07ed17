package boat

import (
	"math"

	"github.com/golang/geo/r2"
)

// CurrentField is the ambient water motion at (x, y) and time t, expressed
// in the same frame and units as the boat velocity. A returned error makes
// the boat treat that single query as zero current.
type CurrentField interface {
	Current(x, y, t float64) (r2.Point, error)
}

// CurrentFunc adapts a plain function to CurrentField.
type CurrentFunc func(x, y, t float64) (r2.Point, error)

func (f CurrentFunc) Current(x, y, t float64) (r2.Point, error) { return f(x, y, t) }

// ConstantCurrent is a uniform drift.
type ConstantCurrent struct {
	X, Y float64
}

func (c ConstantCurrent) Current(x, y, t float64) (r2.Point, error) {
	return r2.Point{X: c.X, Y: c.Y}, nil
}

// SinusoidalCurrent oscillates along Direction with optional spatial and
// temporal variation. A zero Wavelength or Period disables that variation.
type SinusoidalCurrent struct {
	Amplitude  float64  `yaml:"amplitude"`
	Direction  float64  `yaml:"direction"`
	Wavelength float64  `yaml:"wavelength"`
	Period     float64  `yaml:"period"`
	Phase      float64  `yaml:"phase"`
	Bias       r2.Point `yaml:"-"`
}

func (s SinusoidalCurrent) Current(x, y, t float64) (r2.Point, error) {
	u := r2.Point{X: math.Cos(s.Direction), Y: math.Sin(s.Direction)}

	k := 0.0
	if s.Wavelength != 0 {
		k = 2 * math.Pi / s.Wavelength
	}
	omega := 0.0
	if s.Period != 0 {
		omega = 2 * math.Pi / s.Period
	}

	phi := k*(x*u.X+y*u.Y) + omega*t + s.Phase
	return s.Bias.Add(u.Mul(math.Sin(phi) * s.Amplitude)), nil
}
