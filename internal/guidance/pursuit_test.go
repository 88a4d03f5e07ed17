package guidance

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
)

func straight() []r2.Point {
	return []r2.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}}
}

func TestPursuitRejectsShortPath(t *testing.T) {
	_, err := NewPurePursuitFollower([]r2.Point{{X: 1, Y: 1}}, DefaultPursuitConfig(), control.NewPID(1, 0, 0), DefaultLimits())
	test.That(t, err, test.ShouldEqual, ErrShortPath)

	_, err = NewPurePursuitFollower(nil, DefaultPursuitConfig(), control.NewPID(1, 0, 0), DefaultLimits())
	test.That(t, err, test.ShouldEqual, ErrShortPath)
}

func TestPursuitOnPathHoldsCourse(t *testing.T) {
	f, err := NewPurePursuitFollower(straight(), DefaultPursuitConfig(), control.NewPID(1, 0, 0), DefaultLimits())
	test.That(t, err, test.ShouldBeNil)

	_, angular := f.ComputeControls(0, 0, 0, 10, 0, 0.1)
	test.That(t, angular, test.ShouldEqual, 0.0)

	tel := f.Telemetry()
	test.That(t, tel.Lookahead, test.ShouldAlmostEqual, 42.0)
	test.That(t, tel.Target.X, test.ShouldAlmostEqual, 42.0)
	test.That(t, tel.Closest.X, test.ShouldAlmostEqual, 0.0)
}

func TestPursuitCurvatureLaw(t *testing.T) {
	limits := unlimited()
	limits.MaxAngularSpeed = 0
	f, err := NewPurePursuitFollower(straight(), DefaultPursuitConfig(), control.NewPID(1, 0, 0), limits)
	test.That(t, err, test.ShouldBeNil)

	_, angular := f.ComputeControls(0, -10, 0, 10, 0.5, 0.1)

	alpha := math.Atan2(10, 42)
	omegaDes := 10 * 2 * math.Sin(alpha) / 42
	test.That(t, angular, test.ShouldAlmostEqual, 2*(omegaDes-0.5))
}

func TestPursuitLookaheadFloor(t *testing.T) {
	cfg := PursuitConfig{KOmega: 1}
	f, err := NewPurePursuitFollower(straight(), cfg, control.NewPID(1, 0, 0), DefaultLimits())
	test.That(t, err, test.ShouldBeNil)

	linear, angular := f.ComputeControls(0, 5, 0, 0, 0, 0.1)
	test.That(t, f.Telemetry().Lookahead, test.ShouldEqual, minLookahead)
	test.That(t, math.IsNaN(linear), test.ShouldBeFalse)
	test.That(t, math.IsNaN(angular), test.ShouldBeFalse)
}

func TestPursuitSpeedTracksCruise(t *testing.T) {
	limits := unlimited()
	limits.MaxSpeed = 30
	f, err := NewPurePursuitFollower(straight(), DefaultPursuitConfig(), control.NewPID(2, 0, 0), limits)
	test.That(t, err, test.ShouldBeNil)

	linear, _ := f.ComputeControls(0, 0, 0, 10, 0, 0.1)
	test.That(t, linear, test.ShouldAlmostEqual, 40.0)
}

func TestPursuitGoalTolerance(t *testing.T) {
	cfg := DefaultPursuitConfig()
	cfg.GoalTolerance = 5
	f, err := NewPurePursuitFollower([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, cfg, control.NewPID(1, 0, 0), DefaultLimits())
	test.That(t, err, test.ShouldBeNil)

	f.Observe(boat.Snapshot{X: 2})
	test.That(t, f.Done(), test.ShouldBeFalse)
	f.Observe(boat.Snapshot{X: 7})
	test.That(t, f.Done(), test.ShouldBeTrue)

	f.Reset()
	test.That(t, f.Done(), test.ShouldBeFalse)
}

func TestPursuitConvergesToLine(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxSpeed = 30
	f, err := NewPurePursuitFollower(straight(), DefaultPursuitConfig(), control.NewPID(2, 0, 0), limits)
	test.That(t, err, test.ShouldBeNil)

	b := boat.New(boat.DefaultParams(), boat.Pose{X: 0, Y: 20})
	const dt = 1.0 / 60
	for i := 0; i < 1200; i++ {
		linear, angular := f.Controls(b.Snapshot(), dt)
		b.SetLinearAcceleration(linear)
		b.SetAngularAcceleration(angular)
		b.Advance(dt)
	}

	test.That(t, math.Abs(b.Position().Y), test.ShouldBeLessThan, 5.0)
	test.That(t, b.Position().X, test.ShouldBeGreaterThan, 100.0)
}
