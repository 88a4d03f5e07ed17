package optim

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/experiment"
	"github.com/san-kum/boatsim/internal/sim"
)

// Objective scores a run; lower is better.
type Objective func(r *sim.Result) float64

// CompletionTime scores unfinished runs as +Inf.
func CompletionTime(r *sim.Result) float64 {
	if !r.Completed {
		return math.Inf(1)
	}
	return r.CompletionTime
}

// MetricObjective reads a named metric, penalising unfinished runs.
func MetricObjective(name string) Objective {
	return func(r *sim.Result) float64 {
		if !r.Completed {
			return math.Inf(1)
		}
		v, ok := r.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination of parameter values and returns the best
// one. A nil map means no combination produced a finite score.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// ApplyParam sets a gain addressed as "<loop>.<gain>", for example
// "heading.Kp" or "speed.Kd".
func ApplyParam(cfg *config.Config, name string, value float64) error {
	loop, gain, ok := strings.Cut(name, ".")
	if !ok {
		return fmt.Errorf("malformed param %q, want loop.gain", name)
	}

	var target *control.PIDConfig
	switch loop {
	case "heading":
		target = &cfg.HeadingPID
	case "speed":
		target = &cfg.SpeedPID
	default:
		return fmt.Errorf("unknown loop %q in %q", loop, name)
	}

	pid := control.FromConfig(*target)
	if err := pid.SetParam(gain, value); err != nil {
		return err
	}
	*target = pid.Config()
	return nil
}

// Builder returns a buildExperiment func that applies each parameter set on
// top of a copy of base.
func Builder(base *config.Config, opts ...experiment.Option) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := *base
		for name, v := range params {
			if err := ApplyParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		e := experiment.New(&cfg, opts...)
		if err := e.Setup(); err != nil {
			return nil, err
		}
		return e, nil
	}
}
