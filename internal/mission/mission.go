// Package mission tracks progress through an ordered list of waypoints.
package mission

import "math"

// DefaultTolerance is the arrival radius used when none is given.
const DefaultTolerance = 10.0

type Waypoint struct {
	X         float64 `yaml:"x" json:"x"`
	Y         float64 `yaml:"y" json:"y"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// Mission holds the waypoints and a cursor that only moves forward.
type Mission struct {
	waypoints []Waypoint
	index     int
}

func New(waypoints []Waypoint) *Mission {
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	return &Mission{waypoints: wps}
}

func (m *Mission) Done() bool { return m.index >= len(m.waypoints) }

// Current returns the active waypoint; ok is false once the mission is done.
func (m *Mission) Current() (Waypoint, bool) {
	if m.Done() {
		return Waypoint{}, false
	}
	return m.waypoints[m.index], true
}

// AdvanceIfReached moves to the next waypoint when (x, y) is within the
// current one's tolerance. It advances at most once per call.
func (m *Mission) AdvanceIfReached(x, y float64) bool {
	wp, ok := m.Current()
	if !ok {
		return false
	}
	if math.Hypot(wp.X-x, wp.Y-y) <= wp.Tolerance {
		m.index++
		return true
	}
	return false
}

func (m *Mission) Index() int { return m.index }
func (m *Mission) Len() int   { return len(m.waypoints) }

func (m *Mission) Waypoints() []Waypoint {
	out := make([]Waypoint, len(m.waypoints))
	copy(out, m.waypoints)
	return out
}

// Reset rewinds the cursor for a new episode.
func (m *Mission) Reset() { m.index = 0 }
