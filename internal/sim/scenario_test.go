package sim_test

import (
	"context"
	"math"
	"time"

	"github.com/golang/geo/r2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/guidance"
	"github.com/san-kum/boatsim/internal/sim"
)

var _ = Describe("Gate scenarios", func() {
	var (
		gate  course.Gate
		clock *boat.ManualClock
	)

	BeforeEach(func() {
		gate = course.NewGate(r2.Point{X: 400, Y: 0}, 0, 100, 200)
		clock = boat.NewManualClock(time.Unix(0, 0))
	})

	Context("with the waypoint follower", func() {
		It("passes every waypoint of an aligned gate and comes to rest", func() {
			b := boat.New(boat.DefaultParams(), boat.Pose{}, boat.WithClock(clock))
			m := course.MissionThrough(gate, 50, 10)
			f := guidance.NewWaypointFollower(m, control.NewPID(1, 0, 0.1), control.NewPID(2, 0, 0), guidance.DefaultLimits())

			res, err := sim.New(b, clock, f).Run(context.Background(), sim.Config{
				Dt:           1.0 / 60,
				Duration:     60,
				StopWhenDone: true,
				RestSpeed:    1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Completed).To(BeTrue())
			Expect(m.Done()).To(BeTrue())
			Expect(res.Final.Y).To(BeNumerically("~", 0, 1e-9))
			Expect(math.Abs(res.Final.LinearVelocity)).To(BeNumerically("<=", 1))

			last := 0
			for _, s := range res.Samples {
				Expect(s.Progress).To(BeNumerically(">=", last))
				last = s.Progress
			}
			Expect(last).To(Equal(3))
		})
	})

	Context("with the pure pursuit follower", func() {
		It("converges onto the path and finishes past the gate", func() {
			b := boat.New(boat.DefaultParams(), boat.Pose{X: 0, Y: 20}, boat.WithClock(clock))

			cfg := guidance.DefaultPursuitConfig()
			cfg.GoalTolerance = 10
			limits := guidance.DefaultLimits()
			limits.MaxSpeed = 30

			f, err := guidance.NewPurePursuitFollower(course.PathThrough(r2.Point{}, gate, 50), cfg, control.NewPID(2, 0, 0), limits)
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.New(b, clock, f).Run(context.Background(), sim.Config{
				Dt:           1.0 / 60,
				Duration:     60,
				StopWhenDone: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Completed).To(BeTrue())
			Expect(math.Abs(res.Final.Y)).To(BeNumerically("<", 5))

			for _, s := range res.Samples {
				if math.Abs(s.X-gate.Center.X) < 5 {
					Expect(math.Abs(s.Y)).To(BeNumerically("<", gate.Width/2))
				}
			}
		})
	})

	Context("with a short path", func() {
		It("refuses to build the follower", func() {
			_, err := guidance.NewPurePursuitFollower([]r2.Point{{X: 1}}, guidance.DefaultPursuitConfig(), control.NewPID(1, 0, 0), guidance.DefaultLimits())
			Expect(err).To(MatchError(sim.ErrEmptyPath))
		})
	})
})
