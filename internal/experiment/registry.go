package experiment

import (
	"fmt"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/guidance"
	"github.com/san-kum/boatsim/internal/metrics"
	"github.com/san-kum/boatsim/internal/sim"
)

// StrategyFunc builds a strategy that takes the boat from start through
// the gate.
type StrategyFunc func(cfg *config.Config, start r2.Point, gate course.Gate) (guidance.Strategy, error)

type CurrentFunc func(c config.CurrentConfig) boat.CurrentField

type Registry struct {
	strategies map[string]StrategyFunc
	currents   map[string]CurrentFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[string]StrategyFunc),
		currents:   make(map[string]CurrentFunc),
	}

	r.strategies["waypoint"] = func(cfg *config.Config, start r2.Point, gate course.Gate) (guidance.Strategy, error) {
		m := course.MissionThrough(gate, cfg.Sim.Runout, cfg.Sim.Tolerance)
		heading := control.FromConfig(cfg.HeadingPID)
		speed := control.FromConfig(cfg.SpeedPID)
		return guidance.NewWaypointFollower(m, heading, speed, cfg.Limits), nil
	}
	r.strategies["purepursuit"] = func(cfg *config.Config, start r2.Point, gate course.Gate) (guidance.Strategy, error) {
		path := course.PathThrough(start, gate, cfg.Sim.Runout)
		return guidance.NewPurePursuitFollower(path, cfg.Pursuit, control.FromConfig(cfg.SpeedPID), cfg.Limits)
	}

	r.currents["none"] = func(config.CurrentConfig) boat.CurrentField {
		return boat.ConstantCurrent{}
	}
	r.currents["constant"] = func(c config.CurrentConfig) boat.CurrentField {
		return boat.ConstantCurrent{X: c.X, Y: c.Y}
	}
	r.currents["sinusoidal"] = func(c config.CurrentConfig) boat.CurrentField {
		return boat.SinusoidalCurrent{
			Amplitude:  c.Amplitude,
			Direction:  c.DirectionDeg * geom.DegToRad,
			Wavelength: c.Wavelength,
			Period:     c.Period,
			Phase:      c.Phase,
			Bias:       r2.Point{X: c.X, Y: c.Y},
		}
	}

	return r
}

func (r *Registry) RegisterStrategy(name string, fn StrategyFunc) { r.strategies[name] = fn }
func (r *Registry) RegisterCurrent(name string, fn CurrentFunc)   { r.currents[name] = fn }

func (r *Registry) GetStrategy(name string, cfg *config.Config, start r2.Point, gate course.Gate) (guidance.Strategy, error) {
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return fn(cfg, start, gate)
}

// GetCurrent treats an empty kind as "none".
func (r *Registry) GetCurrent(c config.CurrentConfig) (boat.CurrentField, error) {
	kind := c.Kind
	if kind == "" {
		kind = "none"
	}
	fn, ok := r.currents[kind]
	if !ok {
		return nil, fmt.Errorf("unknown current: %s", kind)
	}
	return fn(c), nil
}

func (r *Registry) ListStrategies() []string {
	names := lo.Keys(r.strategies)
	slices.Sort(names)
	return names
}

func (r *Registry) ListCurrents() []string {
	names := lo.Keys(r.currents)
	slices.Sort(names)
	return names
}

// DefaultMetrics measures effort and saturation, track keeping against
// path, distance sailed and the hull speed cap.
func (r *Registry) DefaultMetrics(cfg *config.Config, path geom.Polyline) []sim.Metric {
	return []sim.Metric{
		metrics.NewControlEffort(),
		metrics.NewSaturation(cfg.Limits),
		metrics.NewCrossTrack(path),
		metrics.NewDistance(),
		metrics.NewSpeedCap(cfg.Boat.MaxLinearSpeed),
	}
}
