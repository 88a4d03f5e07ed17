package guidance

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/mission"
)

func unlimited() Limits {
	l := DefaultLimits()
	l.MaxLinearAccel = 0
	l.MaxAngularAccel = 0
	return l
}

func TestWaypointBrakesWhenDone(t *testing.T) {
	f := NewWaypointFollower(mission.New(nil), control.NewPID(1, 0, 0), control.NewPID(2, 0, 0), unlimited())

	linear, angular := f.ComputeControls(0, 0, 1.2, 10, 0.1)
	test.That(t, linear, test.ShouldAlmostEqual, -20.0)
	test.That(t, angular, test.ShouldEqual, 0.0)
	test.That(t, f.Done(), test.ShouldBeTrue)
	test.That(t, f.Telemetry().Valid, test.ShouldBeFalse)
}

func TestWaypointSpeedRamp(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"far", 100, 150},
		{"ramp edge", 20, 150},
		{"half", 10, 75},
		{"close", 5, 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mission.New([]mission.Waypoint{{X: tt.x, Y: 0, Tolerance: 10}})
			f := NewWaypointFollower(m, control.NewPID(1, 0, 0), control.NewPID(1, 0, 0), unlimited())
			linear, _ := f.ComputeControls(0, 0, 0, 0, 0.1)
			test.That(t, linear, test.ShouldAlmostEqual, tt.want)
		})
	}
}

func TestWaypointHeadingErrorWraps(t *testing.T) {
	// bearing is just past -pi and the boat faces +3 rad, so the short turn
	// is a small positive one
	m := mission.New([]mission.Waypoint{{X: -10, Y: -0.1, Tolerance: 1}})
	f := NewWaypointFollower(m, control.NewPID(1, 0, 0), control.NewPID(0, 0, 0), unlimited())

	_, angular := f.ComputeControls(0, 0, 3, 0, 0.1)
	want := math.Atan2(-0.1, -10) - 3 + 2*math.Pi
	test.That(t, angular, test.ShouldAlmostEqual, want)
	test.That(t, angular, test.ShouldBeLessThan, 0.2)
}

func TestWaypointCommandsClamped(t *testing.T) {
	m := mission.New([]mission.Waypoint{{X: 0, Y: 100, Tolerance: 1}})
	f := NewWaypointFollower(m, control.NewPID(100, 0, 0), control.NewPID(100, 0, 0), DefaultLimits())

	linear, angular := f.ComputeControls(0, 0, 0, 0, 0.1)
	test.That(t, linear, test.ShouldEqual, 50.0)
	test.That(t, angular, test.ShouldEqual, 2.0)
}

func TestWaypointTelemetry(t *testing.T) {
	m := mission.New([]mission.Waypoint{{X: 30, Y: 40, Tolerance: 1}})
	f := NewWaypointFollower(m, control.NewPID(1, 0, 0), control.NewPID(1, 0, 0), DefaultLimits())
	f.ComputeControls(0, 0, 0, 0, 0.1)

	tel := f.Telemetry()
	test.That(t, tel.Valid, test.ShouldBeTrue)
	test.That(t, tel.Target.X, test.ShouldEqual, 30.0)
	test.That(t, tel.Target.Y, test.ShouldEqual, 40.0)
	test.That(t, tel.Lookahead, test.ShouldAlmostEqual, 50.0)
}

func TestWaypointObserveAdvancesMission(t *testing.T) {
	m := mission.New([]mission.Waypoint{{X: 0, Y: 0, Tolerance: 5}, {X: 50, Y: 0, Tolerance: 5}})
	f := NewWaypointFollower(m, control.NewPID(1, 0, 0), control.NewPID(1, 0, 0), DefaultLimits())

	f.Observe(boat.Snapshot{X: 1, Y: 1})
	test.That(t, m.Index(), test.ShouldEqual, 1)

	f.Reset()
	test.That(t, m.Index(), test.ShouldEqual, 0)
}

func TestWaypointReachesGoal(t *testing.T) {
	b := boat.New(boat.DefaultParams(), boat.Pose{})
	m := mission.New([]mission.Waypoint{{X: 100, Y: 0, Tolerance: 10}})
	f := NewWaypointFollower(m, control.NewPID(1, 0, 0.1), control.NewPID(2, 0, 0), DefaultLimits())

	const dt = 1.0 / 60
	for i := 0; i < 3600 && !f.Done(); i++ {
		linear, angular := f.Controls(b.Snapshot(), dt)
		b.SetLinearAcceleration(linear)
		b.SetAngularAcceleration(angular)
		b.Advance(dt)
		f.Observe(b.Snapshot())
	}

	test.That(t, m.Done(), test.ShouldBeTrue)
	test.That(t, b.Position().Y, test.ShouldAlmostEqual, 0.0)
	test.That(t, math.Abs(b.Position().X-100), test.ShouldBeLessThanOrEqualTo, 10.0)
}
