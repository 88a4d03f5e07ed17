// Package boat models a surface vessel driven by linear and angular
// acceleration commands, resisted by drag and carried by water current.
package boat

import (
	"fmt"
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/geom"
)

// Params are the physical constants of a hull. Zero limits disable the
// corresponding clamp.
type Params struct {
	Length               float64 `yaml:"length"`
	Width                float64 `yaml:"width"`
	MaxDt                float64 `yaml:"max_dt"`
	MaxLinearSpeed       float64 `yaml:"max_linear_speed"`
	MaxAngularSpeed      float64 `yaml:"max_angular_speed"`
	DragLinear           float64 `yaml:"drag_linear"`
	DragQuadratic        float64 `yaml:"drag_quadratic"`
	AngularDragLinear    float64 `yaml:"angular_drag_linear"`
	AngularDragQuadratic float64 `yaml:"angular_drag_quadratic"`
}

func DefaultParams() Params {
	return Params{
		Length:               35,
		Width:                17.5,
		MaxDt:                0.1,
		MaxLinearSpeed:       175,
		MaxAngularSpeed:      math.Pi,
		DragLinear:           0.05,
		DragQuadratic:        0.001,
		AngularDragLinear:    0.5,
		AngularDragQuadratic: 0.1,
	}
}

// Pose is a planar position and heading.
type Pose struct {
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Orientation float64 `yaml:"orientation"`
}

// Snapshot is a read-only copy of the boat state for observers and
// renderers.
type Snapshot struct {
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Orientation     float64  `json:"orientation"`
	LinearVelocity  float64  `json:"linear_velocity"`
	AngularVelocity float64  `json:"angular_velocity"`
	LinearAccel     float64  `json:"linear_accel"`
	AngularAccel    float64  `json:"angular_accel"`
	Current         r2.Point `json:"current"`
	Time            float64  `json:"time"`
	Dt              float64  `json:"dt"`
}

func (s Snapshot) Position() r2.Point { return r2.Point{X: s.X, Y: s.Y} }

type Boat struct {
	Params

	pos          r2.Point
	orientation  float64
	linearVel    float64
	angularVel   float64
	linearAccel  float64
	angularAccel float64

	current     CurrentField
	lastCurrent r2.Point
	faults      int

	clock   Clock
	last    time.Time
	elapsed float64
	dt      float64

	logger golog.Logger
}

type Option func(*Boat)

func WithClock(c Clock) Option {
	return func(b *Boat) { b.clock = c }
}

func WithLogger(l golog.Logger) Option {
	return func(b *Boat) { b.logger = l }
}

func WithVelocity(linear, angular float64) Option {
	return func(b *Boat) {
		b.linearVel = linear
		b.angularVel = angular
	}
}

func New(p Params, start Pose, opts ...Option) *Boat {
	b := &Boat{
		Params:      p,
		pos:         r2.Point{X: start.X, Y: start.Y},
		orientation: start.Orientation,
		current:     ConstantCurrent{},
		clock:       SystemClock{},
		logger:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.last = b.clock.Now()
	return b
}

func (b *Boat) String() string {
	return fmt.Sprintf("(x: %.2f, y: %.2f, orientation: %.3f, linear_vel: %.2f, angular_vel: %.3f)",
		b.pos.X, b.pos.Y, b.orientation, b.linearVel, b.angularVel)
}

func (b *Boat) SetLinearAcceleration(a float64)  { b.linearAccel = a }
func (b *Boat) SetAngularAcceleration(a float64) { b.angularAccel = a }

// SetLinearVelocity and SetAngularVelocity are the teleoperation inputs.
// They respect the configured speed caps.
func (b *Boat) SetLinearVelocity(v float64) {
	b.linearVel = geom.ClampAbs(v, b.MaxLinearSpeed)
}

func (b *Boat) SetAngularVelocity(w float64) {
	b.angularVel = geom.ClampAbs(w, b.MaxAngularSpeed)
}

// SetCurrentVector replaces any installed field with a uniform drift.
func (b *Boat) SetCurrentVector(cx, cy float64) {
	b.current = ConstantCurrent{X: cx, Y: cy}
}

func (b *Boat) SetCurrentField(f CurrentField) {
	if f == nil {
		f = ConstantCurrent{}
	}
	b.current = f
}

// Field is the installed current field.
func (b *Boat) Field() CurrentField { return b.current }

// CurrentFaults counts field queries that failed and were replaced by zero.
func (b *Boat) CurrentFaults() int { return b.faults }

// Step integrates over the wall time elapsed since the previous call.
func (b *Boat) Step() {
	now := b.clock.Now()
	dt := now.Sub(b.last).Seconds()
	b.last = now
	b.Advance(dt)
}

// Advance integrates the state over dt seconds, clamped to [0, MaxDt].
// All projections use the orientation from before the step.
func (b *Boat) Advance(dt float64) {
	dt = math.Max(0, dt)
	if b.MaxDt > 0 {
		dt = math.Min(dt, b.MaxDt)
	}
	b.dt = dt
	b.elapsed += dt

	c := b.sampleCurrent(b.elapsed)
	b.lastCurrent = c

	fwd := geom.Heading(b.orientation)

	vRel := b.linearVel - c.Dot(fwd)
	drag := -b.DragLinear*vRel - b.DragQuadratic*math.Abs(vRel)*vRel
	b.linearVel += (b.linearAccel + drag) * dt
	b.linearVel = geom.ClampAbs(b.linearVel, b.MaxLinearSpeed)

	w := b.angularVel
	angDrag := -b.AngularDragLinear*w - b.AngularDragQuadratic*math.Abs(w)*w
	b.angularVel += (b.angularAccel + angDrag) * dt

	world := fwd.Mul(b.linearVel).Add(c)
	b.pos = b.pos.Add(world.Mul(dt))
	b.orientation += b.angularVel * dt
}

func (b *Boat) sampleCurrent(t float64) (c r2.Point) {
	defer func() {
		if r := recover(); r != nil {
			b.faults++
			b.logger.Debugw("current field panicked, using zero", "panic", r, "t", t)
			c = r2.Point{}
		}
	}()

	v, err := b.current.Current(b.pos.X, b.pos.Y, t)
	if err != nil {
		b.faults++
		b.logger.Debugw("current field failed, using zero", "error", err, "t", t)
		return r2.Point{}
	}
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		b.faults++
		return r2.Point{}
	}
	return v
}

func (b *Boat) Position() r2.Point       { return b.pos }
func (b *Boat) Orientation() float64     { return b.orientation }
func (b *Boat) LinearVelocity() float64  { return b.linearVel }
func (b *Boat) AngularVelocity() float64 { return b.angularVel }
func (b *Boat) Elapsed() float64         { return b.elapsed }
func (b *Boat) Dt() float64              { return b.dt }

func (b *Boat) Snapshot() Snapshot {
	return Snapshot{
		X:               b.pos.X,
		Y:               b.pos.Y,
		Orientation:     b.orientation,
		LinearVelocity:  b.linearVel,
		AngularVelocity: b.angularVel,
		LinearAccel:     b.linearAccel,
		AngularAccel:    b.angularAccel,
		Current:         b.lastCurrent,
		Time:            b.elapsed,
		Dt:              b.dt,
	}
}

// Corners is the hull silhouette, same corner order as geom.Rectangle.
func (b *Boat) Corners() [4]r2.Point {
	return geom.Rectangle(b.pos, b.orientation, b.Length, b.Width)
}

// Nose marks the bow for drawing.
func (b *Boat) Nose() r2.Point {
	return b.pos.Add(geom.Heading(b.orientation).Mul(b.Length * 0.8))
}
