package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/guidance"
)

// Simulator advances one boat under one strategy with a fixed tick. The
// boat must have been created with the same clock.
type Simulator struct {
	boat      *boat.Boat
	clock     *boat.ManualClock
	strategy  guidance.Strategy
	metrics   []Metric
	observers []Observer
	logger    golog.Logger

	steps    int
	manual   bool
	progress int
	done     bool
}

type Option func(*Simulator)

func WithLogger(l golog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(b *boat.Boat, clock *boat.ManualClock, strategy guidance.Strategy, opts ...Option) *Simulator {
	s := &Simulator{
		boat:      b,
		clock:     clock,
		strategy:  strategy,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Boat() *boat.Boat            { return s.boat }
func (s *Simulator) Strategy() guidance.Strategy { return s.strategy }

// SetManual hands the boat to the velocity setters. While manual the
// strategy is not consulted and no acceleration is commanded.
func (s *Simulator) SetManual(on bool) {
	s.manual = on
	if !on {
		s.strategy.Reset()
	}
}

func (s *Simulator) Manual() bool { return s.manual }

// Tick runs one control and integration cycle of dt seconds and notifies
// metrics and observers.
func (s *Simulator) Tick(dt float64) Step {
	var linear, angular float64
	if !s.manual {
		linear, angular = s.strategy.Controls(s.boat.Snapshot(), dt)
	}
	s.boat.SetLinearAcceleration(linear)
	s.boat.SetAngularAcceleration(angular)

	s.clock.AdvanceSeconds(dt)
	s.boat.Step()

	snap := s.boat.Snapshot()
	if !s.manual {
		s.strategy.Observe(snap)
	}

	st := Step{
		Index:     s.steps,
		Snapshot:  snap,
		Linear:    linear,
		Angular:   angular,
		Progress:  s.strategy.Progress(),
		Done:      s.strategy.Done(),
		Manual:    s.manual,
		Corners:   s.boat.Corners(),
		Telemetry: s.strategy.Telemetry(),
	}
	s.steps++

	if st.Progress != s.progress {
		s.logger.Debugw("progress", "strategy", s.strategy.Name(), "index", st.Progress, "t", snap.Time)
		s.progress = st.Progress
	}
	if st.Done && !s.done {
		s.logger.Infow("strategy done", "strategy", s.strategy.Name(), "t", snap.Time)
	}
	s.done = st.Done

	for _, m := range s.metrics {
		m.Observe(st)
	}
	for _, obs := range s.observers {
		obs.OnStep(st)
	}
	return st
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Strategy: s.strategy.Name(),
		Samples:  make([]Sample, 0, steps),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Debugw("run start", "strategy", s.strategy.Name(), "seed", cfg.Seed, "steps", steps, "boat", s.boat.String())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		st := s.Tick(cfg.Dt)

		if cfg.ValidateState && !validSnapshot(st.Snapshot) {
			result.Errors = append(result.Errors, SimError{
				Time:    st.Snapshot.Time,
				Step:    i,
				Message: "invalid state (NaN/Inf)",
				Err:     ErrInvalidState,
			})
			break
		}

		result.Samples = append(result.Samples, sampleOf(st))
		result.StepsTaken++

		if st.Done && !result.Completed {
			result.Completed = true
			result.CompletionTime = st.Snapshot.Time
		}
		if cfg.StopWhenDone && st.Done && (cfg.RestSpeed <= 0 || math.Abs(st.Snapshot.LinearVelocity) <= cfg.RestSpeed) {
			break
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	result.Final = s.boat.Snapshot()
	result.CurrentFaults = s.boat.CurrentFaults()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.RestSpeed < 0 {
		return fmt.Errorf("%w: rest speed must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validSnapshot(s boat.Snapshot) bool {
	for _, v := range []float64{s.X, s.Y, s.Orientation, s.LinearVelocity, s.AngularVelocity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RunWithCallback ticks until the duration elapses or callback returns
// false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Step) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for t := 0.0; t < cfg.Duration; t += cfg.Dt {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		st := s.Tick(cfg.Dt)
		if cfg.ValidateState && !validSnapshot(st.Snapshot) {
			return SimError{Time: st.Snapshot.Time, Step: st.Index, Message: "invalid state (NaN/Inf)", Err: ErrInvalidState}
		}
		if !callback(st) {
			return nil
		}
	}

	return nil
}
