package course

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/geom"
)

// RandSource is satisfied by *rand.Rand.
type RandSource interface {
	Float64() float64
}

// Bounds are the sampling ranges for a gate, lengths in metres and angles
// in radians.
type Bounds struct {
	WidthMin                    float64
	WidthMax                    float64
	HeightMin                   float64
	HeightMax                   float64
	GapMin                      float64
	GapMax                      float64
	AngleDevMax                 float64
	OrientationDevMultiplierMax float64
}

func DefaultBounds() Bounds {
	return Bounds{
		WidthMin:                    2,
		WidthMax:                    4,
		HeightMin:                   10,
		HeightMax:                   25,
		GapMin:                      2,
		GapMax:                      4,
		AngleDevMax:                 30 * geom.DegToRad,
		OrientationDevMultiplierMax: 1.5,
	}
}

// Scale multiplies every length by f, leaving the angles alone.
func (b Bounds) Scale(f float64) Bounds {
	b.WidthMin *= f
	b.WidthMax *= f
	b.HeightMin *= f
	b.HeightMax *= f
	b.GapMin *= f
	b.GapMax *= f
	return b
}

type Generator struct {
	Bounds Bounds
	rand   RandSource
}

func NewGenerator(b Bounds, r RandSource) *Generator {
	return &Generator{Bounds: b, rand: r}
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + (high-low)*g.rand.Float64()
}

// Generate places a gate ahead of (refX, refY). The near end of the gate
// lies between GapMin and GapMax from the reference along a bearing within
// AngleDevMax of the x axis, and the gate is rotated by up to
// OrientationDevMultiplierMax times that bearing.
func (g *Generator) Generate(refX, refY float64) Gate {
	b := g.Bounds
	width := g.uniform(b.WidthMin, b.WidthMax)
	height := g.uniform(b.HeightMin, b.HeightMax)
	dist := g.uniform(b.GapMin, b.GapMax) + height/2
	angle := g.uniform(-b.AngleDevMax, b.AngleDevMax)
	orientation := g.uniform(0, b.OrientationDevMultiplierMax) * angle

	center := r2.Point{
		X: refX + dist*math.Cos(angle),
		Y: refY + dist*math.Sin(angle),
	}
	return NewGate(center, orientation, width, height)
}
