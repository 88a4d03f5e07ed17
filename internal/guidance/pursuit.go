package guidance

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/geom"
)

// minLookahead keeps the curvature law away from a division by zero.
const minLookahead = 1e-3

type PursuitConfig struct {
	LookaheadBase      float64 `yaml:"lookahead_base"`
	LookaheadSpeedGain float64 `yaml:"lookahead_speed_gain"`
	KOmega             float64 `yaml:"k_omega"`
	// GoalTolerance marks the run done once the boat is this close to the
	// last vertex. Zero means never done.
	GoalTolerance float64 `yaml:"goal_tolerance"`
}

func DefaultPursuitConfig() PursuitConfig {
	return PursuitConfig{
		LookaheadBase:      40,
		LookaheadSpeedGain: 0.2,
		KOmega:             2,
	}
}

type PurePursuitFollower struct {
	PursuitConfig
	SpeedPID *control.PID
	Limits   Limits

	path      geom.Polyline
	segment   int
	done      bool
	telemetry Telemetry
}

func NewPurePursuitFollower(path []r2.Point, cfg PursuitConfig, speed *control.PID, limits Limits) (*PurePursuitFollower, error) {
	if len(path) < 2 {
		return nil, ErrShortPath
	}
	return &PurePursuitFollower{
		PursuitConfig: cfg,
		SpeedPID:      speed,
		Limits:        limits,
		path:          geom.NewPolyline(path),
	}, nil
}

func (f *PurePursuitFollower) Name() string { return "purepursuit" }

func (f *PurePursuitFollower) Path() geom.Polyline { return geom.NewPolyline(f.path) }

// ComputeControls returns (linear, angular) acceleration.
func (f *PurePursuitFollower) ComputeControls(x, y, orientation, linearVelocity, angularVelocity, dt float64) (float64, float64) {
	pos := r2.Point{X: x, Y: y}
	closest := f.path.Closest(pos)
	f.segment = closest.Segment

	ld := math.Max(minLookahead, f.LookaheadBase+f.LookaheadSpeedGain*math.Abs(linearVelocity))
	target := f.path.Advance(closest.Segment, closest.T, ld)

	f.telemetry = Telemetry{
		LookaheadStart: pos,
		LookaheadEnd:   target.Point,
		Target:         target.Point,
		Closest:        closest.Point,
		Lookahead:      ld,
		Valid:          true,
	}

	alpha := geom.WrapAngle(geom.AngleTo(pos, target.Point) - orientation)
	kappa := 2 * math.Sin(alpha) / ld

	omegaDes := geom.ClampAbs(linearVelocity*kappa, f.Limits.MaxAngularSpeed)
	angular := geom.ClampAbs(f.KOmega*(omegaDes-angularVelocity), f.Limits.MaxAngularAccel)

	speedErr := f.Limits.MaxSpeed - linearVelocity
	linear := geom.ClampAbs(f.SpeedPID.Update(speedErr, dt), f.Limits.MaxLinearAccel)
	return linear, angular
}

func (f *PurePursuitFollower) Controls(s boat.Snapshot, dt float64) (float64, float64) {
	return f.ComputeControls(s.X, s.Y, s.Orientation, s.LinearVelocity, s.AngularVelocity, dt)
}

func (f *PurePursuitFollower) Observe(s boat.Snapshot) {
	if f.GoalTolerance <= 0 || f.done {
		return
	}
	end := f.path[len(f.path)-1]
	if geom.Distance(s.Position(), end) <= f.GoalTolerance {
		f.done = true
	}
}

func (f *PurePursuitFollower) Done() bool { return f.done }

func (f *PurePursuitFollower) Progress() int { return f.segment }

func (f *PurePursuitFollower) Reset() {
	f.done = false
	f.segment = 0
	f.SpeedPID.Reset()
	f.telemetry = Telemetry{}
}

func (f *PurePursuitFollower) Telemetry() Telemetry { return f.telemetry }
