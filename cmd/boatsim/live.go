package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boatsim/internal/experiment"
	"github.com/san-kum/boatsim/internal/sim"
	"github.com/san-kum/boatsim/internal/telemetry"
	"github.com/san-kum/boatsim/internal/viz"
)

func liveCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run an episode in the terminal with manual override",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// the TUI owns the terminal, so logging is silenced
			exp := experiment.New(cfg, experiment.WithLogger(zap.NewNop().Sugar()))
			if err := exp.Setup(); err != nil {
				return err
			}
			if theme != "" {
				viz.SetTheme(theme)
			}

			model := viz.NewModel(exp.GetSimulator(), exp.Gate(), exp.Path(), cfg.Sim.Dt)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		addr  string
		every int
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "stream an episode to websocket clients in real time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if speed <= 0 {
				return fmt.Errorf("speed must be positive, got %v", speed)
			}
			logger := newLogger()
			exp, err := setup(cmd)
			if err != nil {
				return err
			}

			hub := telemetry.NewHub(telemetry.WithLogger(logger), telemetry.WithDecimation(every))
			hub.SetGate(exp.Gate())
			exp.GetSimulator().AddObserver(hub)
			defer hub.Close()

			mux := http.NewServeMux()
			mux.Handle("/ws", hub)
			srv := &http.Server{Addr: addr, Handler: mux}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()
			logger.Infow("serving telemetry", "addr", addr, "path", "/ws")

			// pace the episode against the wall clock
			cfg := exp.SimConfig()
			frame := time.Duration(cfg.Dt / speed * float64(time.Second))
			ticker := time.NewTicker(frame)
			defer ticker.Stop()

			runErr := exp.GetSimulator().RunWithCallback(ctx, cfg, func(st sim.Step) bool {
				if st.Done && cfg.StopWhenDone {
					logger.Infow("episode done", "t", st.Snapshot.Time)
					return false
				}
				select {
				case <-ctx.Done():
					return false
				case <-ticker.C:
					return true
				}
			})

			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdown); err != nil {
				return err
			}
			if err := <-errc; err != nil {
				return err
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&every, "every", 2, "publish every n-th step")
	cmd.Flags().Float64Var(&speed, "speed", 1, "playback speed factor")
	return cmd
}
