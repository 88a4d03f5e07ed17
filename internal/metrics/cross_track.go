package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/sim"
)

// CrossTrack records the distance from the boat to a reference path each
// tick. Value is the mean; Max and StdDev are available after the run.
type CrossTrack struct {
	name   string
	path   geom.Polyline
	errors []float64
}

func NewCrossTrack(path geom.Polyline) *CrossTrack {
	return &CrossTrack{
		name: "cross_track",
		path: geom.NewPolyline(path),
	}
}

func (c *CrossTrack) Name() string { return c.name }

func (c *CrossTrack) Observe(st sim.Step) {
	if len(c.path) == 0 {
		return
	}
	p := st.Snapshot.Position()
	c.errors = append(c.errors, geom.Distance(p, c.path.Closest(p).Point))
}

func (c *CrossTrack) Value() float64 {
	if len(c.errors) == 0 {
		return 0
	}
	return stat.Mean(c.errors, nil)
}

func (c *CrossTrack) Max() float64 {
	if len(c.errors) == 0 {
		return 0
	}
	return floats.Max(c.errors)
}

func (c *CrossTrack) StdDev() float64 {
	if len(c.errors) < 2 {
		return 0
	}
	return stat.StdDev(c.errors, nil)
}

func (c *CrossTrack) Reset() {
	c.errors = c.errors[:0]
}
