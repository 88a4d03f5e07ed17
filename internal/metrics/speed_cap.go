package metrics

import (
	"math"

	"github.com/san-kum/boatsim/internal/sim"
)

// SpeedCap is the fraction of ticks whose linear speed stayed within the
// limit. A run that never observed anything scores 1.
type SpeedCap struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewSpeedCap(limit float64) *SpeedCap {
	return &SpeedCap{
		name:  "speed_cap",
		limit: limit,
	}
}

func (s *SpeedCap) Name() string {
	return s.name
}

func (s *SpeedCap) Observe(st sim.Step) {
	s.samples++
	if s.limit > 0 && math.Abs(st.Snapshot.LinearVelocity) > s.limit+1e-9 {
		s.violations++
	}
}

func (s *SpeedCap) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SpeedCap) Reset() {
	s.violations = 0
	s.samples = 0
}
