package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/experiment"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/metrics"
	"github.com/san-kum/boatsim/internal/sim"
	"github.com/san-kum/boatsim/internal/storage"
)

func runCmd() *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run one gate episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Printf("gate: %s\n", exp.Gate())
			start := time.Now()
			result, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Printf("completed in %v\n", elapsed)
			printResult(result)

			if noSave {
				return nil
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			cfg := exp.Config()
			runID, err := st.Save(storage.RunMetadata{
				Preset:   preset,
				Seed:     cfg.Sim.Seed,
				Dt:       cfg.Sim.Dt,
				Duration: cfg.Sim.Duration,
				Gate:     exp.Gate(),
			}, result)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func printResult(r *sim.Result) {
	fmt.Printf("strategy: %s\n", r.Strategy)
	fmt.Printf("steps: %d\n", r.StepsTaken)
	if r.Completed {
		fmt.Printf("done at: %.2fs\n", r.CompletionTime)
	} else {
		fmt.Println("done: no")
	}
	fmt.Printf("final: (%.1f, %.1f) speed %.2f\n", r.Final.X, r.Final.Y, r.Final.LinearVelocity)
	if r.CurrentFaults > 0 {
		fmt.Printf("current faults: %d\n", r.CurrentFaults)
	}
	for _, err := range r.Errors {
		fmt.Printf("error: %v\n", err)
	}
	fmt.Println("\nmetrics:")
	for _, s := range metrics.Summarize([]*sim.Result{r}) {
		fmt.Printf("  %s: %.6f\n", s.Name, s.Mean)
	}
}

func ensembleCmd() *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run many seeded episodes in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			build := experiment.Factory(cfg, experiment.WithLogger(newLogger()))
			simCfg := experiment.New(cfg).SimConfig()

			start := time.Now()
			results, err := sim.NewEnsemble(build, runs, cfg.Sim.Seed).Run(ctx, simCfg)
			if err != nil {
				return err
			}

			fmt.Printf("%d runs in %v, success rate %.1f%%\n\n", runs, time.Since(start), 100*sim.SuccessRate(results))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "METRIC\tRUNS\tMEAN\tSTDDEV\tMIN\tMAX")
			for _, s := range metrics.Summarize(results) {
				fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Name, s.Runs, s.Mean, s.StdDev, s.Min, s.Max)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&runs, "runs", "n", 20, "number of episodes")
	return cmd
}

func gateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate [count]",
		Short: "generate gates without simulating",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 1
			if len(args) == 1 {
				if _, err := fmt.Sscan(args[0], &count); err != nil || count < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// the first gate matches what `run` draws for the same seed
			gen := course.NewGenerator(cfg.Gate.Bounds(), rand.New(rand.NewSource(cfg.Sim.Seed)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tCENTER\tHEADING\tWIDTH\tHEIGHT\tBUOYS")
			for i := 0; i < count; i++ {
				g := gen.Generate(cfg.Start.X, cfg.Start.Y)
				buoys := ""
				for _, b := range g.Buoys {
					buoys += fmt.Sprintf("%s(%.0f,%.0f) ", b.Color, b.Position.X, b.Position.Y)
				}
				fmt.Fprintf(w, "%d\t(%.1f, %.1f)\t%.1f°\t%.1f\t%.1f\t%s\n",
					i, g.Center.X, g.Center.Y, g.Orientation*geom.RadToDeg, g.Width, g.Height, buoys)
			}
			return w.Flush()
		},
	}
}
