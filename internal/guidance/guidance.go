// Package guidance turns boat state and a mission or path into
// acceleration commands.
//
//   - [WaypointFollower]: heads for one waypoint at a time with separate
//     heading and speed PIDs, slowing inside twice the arrival tolerance.
//   - [PurePursuitFollower]: tracks a fixed polyline by steering toward a
//     speed-dependent lookahead point.
//
// Both satisfy [Strategy] so the simulator can drive either.
package guidance

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/boat"
)

var ErrShortPath = errors.New("guidance: path needs at least two points")

// Limits bound the commands a strategy may emit.
type Limits struct {
	MaxLinearAccel  float64 `yaml:"max_linear_accel"`
	MaxAngularAccel float64 `yaml:"max_angular_accel"`
	MaxSpeed        float64 `yaml:"max_speed"`
	MaxAngularSpeed float64 `yaml:"max_angular_speed"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxLinearAccel:  50,
		MaxAngularAccel: 2,
		MaxSpeed:        150,
		MaxAngularSpeed: math.Pi,
	}
}

// Telemetry is diagnostic output for renderers. It is not part of the
// control law.
type Telemetry struct {
	LookaheadStart r2.Point `json:"lookahead_start"`
	LookaheadEnd   r2.Point `json:"lookahead_end"`
	Target         r2.Point `json:"target"`
	Closest        r2.Point `json:"closest"`
	Lookahead      float64  `json:"lookahead"`
	Valid          bool     `json:"valid"`
}

type Strategy interface {
	Name() string
	// Controls returns (linear, angular) acceleration for the next tick.
	Controls(s boat.Snapshot, dt float64) (float64, float64)
	// Observe lets the strategy update progress after the boat moved.
	Observe(s boat.Snapshot)
	Done() bool
	// Progress is the index of the active waypoint or path segment.
	Progress() int
	Reset()
	Telemetry() Telemetry
}
