package sim

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/guidance"
)

// Step is what metrics and observers see after each tick.
type Step struct {
	Index     int
	Snapshot  boat.Snapshot
	Linear    float64
	Angular   float64
	Progress  int
	Done      bool
	Manual    bool
	Corners   [4]r2.Point
	Telemetry guidance.Telemetry
}

type Metric interface {
	Name() string
	Observe(st Step)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(st Step)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(st Step)

func (f ObserverFunc) OnStep(st Step) { f(st) }

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// StopWhenDone ends the run once the strategy is done and the boat
	// has slowed to RestSpeed. A RestSpeed of zero stops right away.
	StopWhenDone  bool
	RestSpeed     float64
	ValidateState bool
}

// Sample is one row of the recorded trace.
type Sample struct {
	Time            float64 `json:"time"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Orientation     float64 `json:"orientation"`
	LinearVelocity  float64 `json:"linear_velocity"`
	AngularVelocity float64 `json:"angular_velocity"`
	LinearAccel     float64 `json:"linear_accel"`
	AngularAccel    float64 `json:"angular_accel"`
	Progress        int     `json:"progress"`
}

func sampleOf(st Step) Sample {
	s := st.Snapshot
	return Sample{
		Time:            s.Time,
		X:               s.X,
		Y:               s.Y,
		Orientation:     s.Orientation,
		LinearVelocity:  s.LinearVelocity,
		AngularVelocity: s.AngularVelocity,
		LinearAccel:     st.Linear,
		AngularAccel:    st.Angular,
		Progress:        st.Progress,
	}
}

type Result struct {
	Strategy       string
	Samples        []Sample
	Final          boat.Snapshot
	Metrics        map[string]float64
	StepsTaken     int
	Completed      bool
	CompletionTime float64
	CurrentFaults  int
	Errors         []error
}
