package metrics

import (
	"math"

	"github.com/san-kum/boatsim/internal/guidance"
	"github.com/san-kum/boatsim/internal/sim"
)

// ControlEffort is the mean of |linear| + |angular| commanded per tick.
// The per-axis means are kept for reporting.
type ControlEffort struct {
	linear, angular float64
	ticks           int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(st sim.Step) {
	if st.Manual {
		return
	}
	c.linear += math.Abs(st.Linear)
	c.angular += math.Abs(st.Angular)
	c.ticks++
}

func (c *ControlEffort) Value() float64 {
	return c.LinearMean() + c.AngularMean()
}

func (c *ControlEffort) LinearMean() float64  { return mean(c.linear, c.ticks) }
func (c *ControlEffort) AngularMean() float64 { return mean(c.angular, c.ticks) }

func (c *ControlEffort) Reset() { *c = ControlEffort{} }

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Saturation is the fraction of guided ticks where either command sat on
// its limit. Zero limits never saturate.
type Saturation struct {
	limits    guidance.Limits
	saturated int
	ticks     int
}

func NewSaturation(limits guidance.Limits) *Saturation {
	return &Saturation{limits: limits}
}

func (s *Saturation) Name() string { return "saturation" }

func (s *Saturation) Observe(st sim.Step) {
	if st.Manual {
		return
	}
	s.ticks++
	if atLimit(st.Linear, s.limits.MaxLinearAccel) || atLimit(st.Angular, s.limits.MaxAngularAccel) {
		s.saturated++
	}
}

func atLimit(v, limit float64) bool {
	return limit > 0 && math.Abs(v) >= limit*(1-1e-9)
}

func (s *Saturation) Value() float64 { return mean(float64(s.saturated), s.ticks) }

func (s *Saturation) Reset() {
	s.saturated = 0
	s.ticks = 0
}
