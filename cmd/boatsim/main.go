package main

import (
	"fmt"
	"os"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/experiment"
)

var (
	dataDir    string
	configFile string
	preset     string
	strategy   string
	seed       int64
	dt         float64
	duration   float64
	verbose    bool
)

// main registers the boatsim commands and executes the root command. It
// exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "boatsim",
		Short:        "autonomous boat gate-course simulator",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDir, "data", ".boatsim", "data directory")
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.StringVar(&strategy, "strategy", config.DefaultStrategy, "guidance strategy")
	flags.Int64Var(&seed, "seed", 0, "course seed")
	flags.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	flags.Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		runCmd(),
		ensembleCmd(),
		gateCmd(),
		listCmd(),
		plotCmd(),
		exportCmd(),
		liveCmd(),
		serveCmd(),
		presetsCmd(),
		strategiesCmd(),
		tuneCmd(),
		sweepCmd(),
		scenarioCmd(),
		analyzeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() golog.Logger {
	if verbose {
		return golog.NewDevelopmentLogger("boatsim")
	}
	return golog.NewLogger("boatsim")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("strategy") {
		cfg.Sim.Strategy = strategy
	}
	if changed("seed") {
		cfg.Sim.Seed = seed
	}
	if changed("dt") {
		cfg.Sim.Dt = dt
	}
	if changed("time") {
		cfg.Sim.Duration = duration
	}

	return cfg, cfg.Validate()
}

// setup builds a ready experiment for the resolved config.
func setup(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, experiment.WithLogger(newLogger()))
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}
