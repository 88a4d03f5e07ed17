package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/experiment"
	"github.com/san-kum/boatsim/internal/optim"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tSTRATEGY\tCURRENT\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\n", name, cfg.Sim.Strategy, cfg.Current.Kind, cfg.Sim.Duration)
			}
			return w.Flush()
		},
	}
}

func strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "list guidance strategies and current fields",
		Run: func(cmd *cobra.Command, args []string) {
			r := experiment.NewRegistry()
			fmt.Printf("strategies: %s\n", strings.Join(r.ListStrategies(), ", "))
			fmt.Printf("currents: %s\n", strings.Join(r.ListCurrents(), ", "))
		},
	}
}

func tuneCmd() *cobra.Command {
	var (
		params    []string
		objective string
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search controller gains",
		Long: "Grid search over PID gains addressed as loop.gain, for example\n" +
			"  boatsim tune --param heading.Kp=1,2,4 --param heading.Kd=0,1,2",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			names, ranges, err := parseGrid(params)
			if err != nil {
				return err
			}

			var obj optim.Objective = optim.CompletionTime
			if objective != "completion" {
				obj = optim.MetricObjective(objective)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			total := lo.Reduce(ranges, func(n int, r []float64, _ int) int { return n * len(r) }, 1)
			fmt.Printf("searching %d combinations...\n", total)

			build := optim.Builder(cfg, experiment.WithLogger(zap.NewNop().Sugar()))
			best, score, err := optim.NewGridSearch(names, ranges).Search(ctx, build, obj)
			if err != nil {
				return err
			}
			if best == nil {
				fmt.Println("no combination finished the course")
				return nil
			}

			fmt.Printf("best %s: %.4f\n", objective, score)
			for _, name := range names {
				fmt.Printf("  %s = %g\n", name, best[name])
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", []string{"heading.Kp=1,2,4,8", "heading.Kd=0,1,2,4"}, "loop.gain=v1,v2,...")
	cmd.Flags().StringVar(&objective, "objective", "completion", "completion or a metric name")
	return cmd
}

func parseGrid(params []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(params))
	ranges := make([][]float64, 0, len(params))
	for _, p := range params {
		name, list, ok := strings.Cut(p, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("malformed --param %q, want loop.gain=v1,v2", p)
		}
		var vals []float64
		for _, field := range strings.Split(list, ",") {
			var v float64
			if _, err := fmt.Sscan(strings.TrimSpace(field), &v); err != nil {
				return nil, nil, fmt.Errorf("param %s: bad value %q", name, field)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}
