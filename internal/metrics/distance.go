package metrics

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/sim"
)

// Distance is the length of the track the boat actually sailed.
type Distance struct {
	name  string
	last  r2.Point
	seen  bool
	total float64
}

func NewDistance() *Distance {
	return &Distance{name: "distance"}
}

func (d *Distance) Name() string { return d.name }

func (d *Distance) Observe(st sim.Step) {
	p := st.Snapshot.Position()
	if d.seen {
		d.total += geom.Distance(d.last, p)
	}
	d.last = p
	d.seen = true
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	d.last = r2.Point{}
	d.seen = false
	d.total = 0
}
