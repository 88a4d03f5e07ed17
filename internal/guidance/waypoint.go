package guidance

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/mission"
)

type WaypointFollower struct {
	Mission    *mission.Mission
	HeadingPID *control.PID
	SpeedPID   *control.PID
	Limits     Limits

	telemetry Telemetry
}

func NewWaypointFollower(m *mission.Mission, heading, speed *control.PID, limits Limits) *WaypointFollower {
	return &WaypointFollower{
		Mission:    m,
		HeadingPID: heading,
		SpeedPID:   speed,
		Limits:     limits,
	}
}

func (f *WaypointFollower) Name() string { return "waypoint" }

// ComputeControls returns (linear, angular) acceleration. With no waypoint
// left the boat brakes to a stop and stops steering.
func (f *WaypointFollower) ComputeControls(x, y, orientation, linearVelocity, dt float64) (float64, float64) {
	targetSpeed := 0.0
	headingErr := 0.0

	if wp, ok := f.Mission.Current(); ok {
		pos := r2.Point{X: x, Y: y}
		goal := r2.Point{X: wp.X, Y: wp.Y}
		headingErr = geom.WrapAngle(geom.AngleTo(pos, goal) - orientation)

		dist := math.Hypot(wp.X-x, wp.Y-y)
		targetSpeed = f.Limits.MaxSpeed
		if ramp := 2 * wp.Tolerance; dist < ramp {
			targetSpeed = f.Limits.MaxSpeed * dist / ramp
		}

		f.telemetry = Telemetry{
			LookaheadStart: pos,
			LookaheadEnd:   goal,
			Target:         goal,
			Closest:        goal,
			Lookahead:      dist,
			Valid:          true,
		}
	} else {
		f.telemetry = Telemetry{}
	}

	angular := geom.ClampAbs(f.HeadingPID.Update(headingErr, dt), f.Limits.MaxAngularAccel)
	linear := geom.ClampAbs(f.SpeedPID.Update(targetSpeed-linearVelocity, dt), f.Limits.MaxLinearAccel)
	return linear, angular
}

func (f *WaypointFollower) Controls(s boat.Snapshot, dt float64) (float64, float64) {
	return f.ComputeControls(s.X, s.Y, s.Orientation, s.LinearVelocity, dt)
}

func (f *WaypointFollower) Observe(s boat.Snapshot) {
	f.Mission.AdvanceIfReached(s.X, s.Y)
}

func (f *WaypointFollower) Done() bool { return f.Mission.Done() }

func (f *WaypointFollower) Progress() int { return f.Mission.Index() }

func (f *WaypointFollower) Reset() {
	f.Mission.Reset()
	f.HeadingPID.Reset()
	f.SpeedPID.Reset()
	f.telemetry = Telemetry{}
}

func (f *WaypointFollower) Telemetry() Telemetry { return f.telemetry }
