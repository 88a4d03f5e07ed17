package course

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/mission"
)

// PathThrough returns start, gate entry, center and an exit runout metres
// past the gate.
func PathThrough(start r2.Point, g Gate, runout float64) geom.Polyline {
	return geom.Polyline{start, g.Entry(0), g.Center, g.Exit(runout)}
}

// MissionThrough is the waypoint form of PathThrough with the start
// dropped.
func MissionThrough(g Gate, runout, tolerance float64) *mission.Mission {
	entry, exit := g.Entry(0), g.Exit(runout)
	return mission.New([]mission.Waypoint{
		{X: entry.X, Y: entry.Y, Tolerance: tolerance},
		{X: g.Center.X, Y: g.Center.Y, Tolerance: tolerance},
		{X: exit.X, Y: exit.Y, Tolerance: tolerance},
	})
}
