package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/sim"
)

// Experiment is one seeded episode: a boat, a generated gate and a
// strategy to get through it.
type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	randSource *rand.Rand
	logger     golog.Logger

	gate      course.Gate
	path      geom.Polyline
	simulator *sim.Simulator
}

type Option func(*Experiment)

func WithLogger(l golog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Sim.Seed)),
		logger:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrInvalidConfig, err)
	}

	start := e.cfg.Start
	clock := boat.NewManualClock(time.Unix(0, 0))
	b := boat.New(e.cfg.Boat, start, boat.WithClock(clock), boat.WithLogger(e.logger))

	field, err := e.registry.GetCurrent(e.cfg.Current)
	if err != nil {
		return err
	}
	b.SetCurrentField(field)

	gen := course.NewGenerator(e.cfg.Gate.Bounds(), e.randSource)
	e.gate = gen.Generate(start.X, start.Y)

	origin := b.Position()
	e.path = course.PathThrough(origin, e.gate, e.cfg.Sim.Runout)

	strategy, err := e.registry.GetStrategy(e.cfg.Sim.Strategy, e.cfg, origin, e.gate)
	if err != nil {
		return err
	}

	e.simulator = sim.New(b, clock, strategy, sim.WithLogger(e.logger))
	for _, m := range e.registry.DefaultMetrics(e.cfg, e.path) {
		e.simulator.AddMetric(m)
	}

	e.logger.Infow("episode ready", "seed", e.cfg.Sim.Seed, "strategy", strategy.Name(), "gate", e.gate.String())
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Sim.Dt,
		Duration:      e.cfg.Sim.Duration,
		Seed:          e.cfg.Sim.Seed,
		StopWhenDone:  e.cfg.Sim.StopWhenDone,
		RestSpeed:     e.cfg.Sim.RestSpeed,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Gate() course.Gate      { return e.gate }
func (e *Experiment) Path() geom.Polyline    { return geom.NewPolyline(e.path) }
func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Factory builds a set-up experiment per seed for sim.Ensemble. The config
// is copied so runs share nothing.
func Factory(cfg *config.Config, opts ...Option) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Sim.Seed = seed
		e := New(&c, opts...)
		if err := e.Setup(); err != nil {
			return nil, err
		}
		return e.GetSimulator(), nil
	}
}
