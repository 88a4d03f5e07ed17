// Package automation runs scripted batches of episodes: YAML scenarios and
// single-gain sweeps.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/experiment"
	"github.com/san-kum/boatsim/internal/optim"
	"github.com/san-kum/boatsim/internal/sim"
	"github.com/san-kum/boatsim/internal/storage"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one batch of seeded episodes. Zero fields keep the
// preset's value.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Strategy string             `yaml:"strategy"`
	Current  string             `yaml:"current"`
	Seed     int64              `yaml:"seed"`
	Runs     int                `yaml:"runs"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult holds the outcome of one scenario step. RunIDs is empty unless
// the step was saved.
type StepResult struct {
	Label       string
	Results     []*sim.Result
	SuccessRate float64
	RunIDs      []string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step into a validated episode config.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Strategy != "" {
		cfg.Sim.Strategy = s.Strategy
	}
	if s.Current != "" {
		cfg.Current.Kind = s.Current
	}
	if s.Seed != 0 {
		cfg.Sim.Seed = s.Seed
	}
	if s.Duration > 0 {
		cfg.Sim.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Sim.Dt = s.Dt
	}
	for name, v := range s.Params {
		if err := optim.ApplyParam(cfg, name, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s ScenarioStep) label() string {
	switch {
	case s.SaveAs != "":
		return s.SaveAs
	case s.Preset != "":
		return s.Preset
	}
	return "default"
}

// RunScenario executes all steps in a scenario. Steps with save_as set are
// written to store, which may be nil otherwise.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, logger golog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.SaveAs != "" && store == nil {
			return results, fmt.Errorf("step %d: save_as %q without a store", i+1, step.SaveAs)
		}

		runs := max(step.Runs, 1)
		logger.Infow("scenario step", "step", i+1, "of", len(scenario.Steps), "label", step.label(), "runs", runs)

		sr := StepResult{Label: step.label()}
		for n := 0; n < runs; n++ {
			c := *cfg
			c.Sim.Seed = cfg.Sim.Seed + int64(n)

			exp := experiment.New(&c, experiment.WithLogger(logger))
			if err := exp.Setup(); err != nil {
				return results, fmt.Errorf("step %d setup: %w", i+1, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
			sr.Results = append(sr.Results, result)

			if step.SaveAs == "" {
				continue
			}
			id, err := store.Save(storage.RunMetadata{
				Preset:   step.SaveAs,
				Seed:     c.Sim.Seed,
				Dt:       c.Sim.Dt,
				Duration: c.Sim.Duration,
				Gate:     exp.Gate(),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunIDs = append(sr.RunIDs, id)
		}

		sr.SuccessRate = sim.SuccessRate(sr.Results)
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs an ensemble at each of NumSteps evenly spaced values
// of one gain.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Runs     int
}

// SweepResult holds results from a parameter sweep. MeanCompletion is NaN
// when no run finished.
type SweepResult struct {
	Value          float64
	SuccessRate    float64
	MeanCompletion float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger golog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	runs := max(sweep.Runs, 1)
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.Min + float64(i)*paramStep

		cfg := *sweep.Base
		if err := optim.ApplyParam(&cfg, sweep.Param, value); err != nil {
			return nil, err
		}

		ens := sim.NewEnsemble(experiment.Factory(&cfg, experiment.WithLogger(logger)), runs, cfg.Sim.Seed)
		out, err := ens.Run(ctx, experiment.New(&cfg).SimConfig())
		if err != nil {
			return results, err
		}

		var times []float64
		for _, r := range out {
			if r != nil && r.Completed {
				times = append(times, r.CompletionTime)
			}
		}
		mean := math.NaN()
		if len(times) > 0 {
			mean = stat.Mean(times, nil)
		}

		results = append(results, SweepResult{
			Value:          value,
			SuccessRate:    sim.SuccessRate(out),
			MeanCompletion: mean,
		})
		logger.Infow("sweep", "param", sweep.Param, "value", value, "success", results[i].SuccessRate)
	}

	return results, nil
}
