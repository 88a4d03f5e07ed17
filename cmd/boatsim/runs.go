package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/golang/geo/r2"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/export"
	"github.com/san-kum/boatsim/internal/storage"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTRATEGY\tTIME\tSEED\tSTEPS\tDONE\tDONE AT")
			for _, run := range runs {
				doneAt := "-"
				if run.Completed {
					doneAt = fmt.Sprintf("%.2fs", run.CompletionTime)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%v\t%s\n",
					run.ID,
					run.Strategy,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Seed,
					run.Steps,
					run.Completed,
					doneAt,
				)
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot speed, heading and track of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadTrace(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("strategy: %s\n", meta.Strategy)
			fmt.Printf("samples: %d\n\n", len(samples))

			series := []struct {
				caption string
				value   func(i int) float64
			}{
				{"linear velocity", func(i int) float64 { return samples[i].LinearVelocity }},
				{"orientation (rad)", func(i int) float64 { return samples[i].Orientation }},
				{"y", func(i int) float64 { return samples[i].Y }},
				{"waypoint progress", func(i int) float64 { return float64(samples[i].Progress) }},
			}
			for _, s := range series {
				data := make([]float64, len(samples))
				for i := range samples {
					data[i] = s.value(i)
				}
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(s.caption),
				))
				fmt.Println()
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		format    string
		out       string
		withTrace bool
	)
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			st := storage.New(dataDir)
			switch format {
			case "json":
				return st.Export(w, args[0], withTrace)
			case "svg":
				meta, err := st.Load(args[0])
				if err != nil {
					return err
				}
				samples, err := st.LoadTrace(args[0])
				if err != nil {
					return err
				}
				var path []r2.Point
				if len(samples) > 0 {
					start := r2.Point{X: samples[0].X, Y: samples[0].Y}
					path = course.PathThrough(start, meta.Gate, config.DefaultRunout)
				}
				_, err = fmt.Fprint(w, export.CourseToSVG(samples, path, meta.Gate, 800, 600))
				return err
			default:
				return fmt.Errorf("unknown format %q (json, svg)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&withTrace, "trace", false, "include the sample trace in json output")
	return cmd
}
