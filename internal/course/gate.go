// Package course generates randomized buoy gates and the waypoints or paths
// that lead a boat through them.
package course

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/geom"
)

type BuoyColor int

const (
	Green BuoyColor = iota
	Red
)

func (c BuoyColor) String() string {
	switch c {
	case Green:
		return "GREEN"
	case Red:
		return "RED"
	default:
		return fmt.Sprintf("BuoyColor(%d)", int(c))
	}
}

type Buoy struct {
	Position r2.Point  `json:"position"`
	Color    BuoyColor `json:"color"`
}

// Gate is a rectangular channel marked by four buoys. Its length axis
// (Height) runs along Orientation; the green buoys line the left edge and
// the red buoys the right edge when travelling along that axis.
type Gate struct {
	Center      r2.Point `json:"center"`
	Orientation float64  `json:"orientation"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Buoys       [4]Buoy  `json:"buoys"`
}

func NewGate(center r2.Point, orientation, width, height float64) Gate {
	g := Gate{
		Center:      center,
		Orientation: orientation,
		Width:       width,
		Height:      height,
	}
	colors := [4]BuoyColor{Green, Green, Red, Red}
	for i, p := range geom.Rectangle(center, orientation, height, width) {
		g.Buoys[i] = Buoy{Position: p, Color: colors[i]}
	}
	return g
}

func (g Gate) Positions() []r2.Point {
	pts := make([]r2.Point, len(g.Buoys))
	for i, b := range g.Buoys {
		pts[i] = b.Position
	}
	return pts
}

// Entry is the point offset metres before the mouth of the gate on its axis.
func (g Gate) Entry(offset float64) r2.Point {
	return g.Center.Sub(geom.Heading(g.Orientation).Mul(g.Height/2 + offset))
}

// Exit is the point offset metres past the far end of the gate.
func (g Gate) Exit(offset float64) r2.Point {
	return g.Center.Add(geom.Heading(g.Orientation).Mul(g.Height/2 + offset))
}

func (g Gate) String() string {
	return fmt.Sprintf("gate center=(%.2f, %.2f) orientation=%.1fdeg width=%.2f height=%.2f",
		g.Center.X, g.Center.Y, g.Orientation*geom.RadToDeg, g.Width, g.Height)
}
