package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/boatsim/internal/analysis"
	"github.com/san-kum/boatsim/internal/automation"
	"github.com/san-kum/boatsim/internal/storage"
)

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of episode batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunScenario(ctx, sc, st, newLogger())
			if err != nil {
				return err
			}

			fmt.Printf("scenario: %s\n\n", sc.Name)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tLABEL\tRUNS\tSUCCESS\tSAVED")
			for i, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%d\t%.0f%%\t%d\n", i+1, r.Label, len(r.Results), 100*r.SuccessRate, len(r.RunIDs))
			}
			return w.Flush()
		},
	}
}

func sweepCmd() *cobra.Command {
	var (
		param    string
		from, to float64
		steps    int
		runs     int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one controller gain and report success rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
				Base:     cfg,
				Param:    param,
				Min:      from,
				Max:      to,
				NumSteps: steps,
				Runs:     runs,
			}, newLogger())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tSUCCESS\tMEAN DONE AT\n", param)
			for _, r := range results {
				doneAt := "-"
				if !math.IsNaN(r.MeanCompletion) {
					doneAt = fmt.Sprintf("%.2fs", r.MeanCompletion)
				}
				fmt.Fprintf(w, "%g\t%.0f%%\t%s\n", r.Value, 100*r.SuccessRate, doneAt)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&param, "param", "heading.Kp", "gain to sweep (loop.gain)")
	cmd.Flags().Float64Var(&from, "min", 0.5, "first value")
	cmd.Flags().Float64Var(&to, "max", 8, "last value")
	cmd.Flags().IntVar(&steps, "steps", 8, "number of values")
	cmd.Flags().IntVarP(&runs, "runs", "n", 10, "episodes per value")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.New(dataDir).LoadTrace(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHANNEL\tFREQ (Hz)\tPERIOD (s)\tAMPLITUDE")
			for _, ch := range []string{"yaw_rate", "orientation", "speed", "y"} {
				osc, err := analysis.ChannelOscillation(samples, ch)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%.4f\t%.2f\t%.4f\n", ch, osc.Frequency, osc.Period, osc.Amplitude)
			}
			return w.Flush()
		},
	}
}
