package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/boatsim/internal/config"
	"github.com/san-kum/boatsim/internal/sim"
)

func TestApplyParam(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := ApplyParam(cfg, "heading.Kp", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ApplyParam(cfg, "speed.Ki", 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HeadingPID.Kp != 7 || cfg.SpeedPID.Ki != 0.5 {
		t.Errorf("gains not applied: %+v %+v", cfg.HeadingPID, cfg.SpeedPID)
	}

	for _, bad := range []string{"heading", "rudder.Kp", "speed.Kx"} {
		if err := ApplyParam(cfg, bad, 1); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestObjectives(t *testing.T) {
	done := &sim.Result{Completed: true, CompletionTime: 4, Metrics: map[string]float64{"distance": 12}}
	failed := &sim.Result{Metrics: map[string]float64{"distance": 1}}

	if CompletionTime(done) != 4 || !math.IsInf(CompletionTime(failed), 1) {
		t.Error("CompletionTime scored incorrectly")
	}
	obj := MetricObjective("distance")
	if obj(done) != 12 || !math.IsInf(obj(failed), 1) {
		t.Error("MetricObjective scored incorrectly")
	}
	if !math.IsInf(MetricObjective("missing")(done), 1) {
		t.Error("missing metric should score +Inf")
	}
}

func TestGridSearchFindsWorkingGains(t *testing.T) {
	base := config.DefaultConfig()
	base.Sim.Seed = 3

	g := NewGridSearch([]string{"heading.Kp"}, [][]float64{{0, 4}})
	best, score, err := g.Search(context.Background(), Builder(base), CompletionTime)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best == nil {
		t.Fatal("no parameter set finished the course")
	}
	if kp := best["heading.Kp"]; kp != 0 && kp != 4 {
		t.Errorf("best Kp %v not from the grid", kp)
	}
	if math.IsInf(score, 1) || score <= 0 {
		t.Errorf("unexpected score %v", score)
	}
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"heading.Kp", "heading.Kd"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), Builder(config.DefaultConfig()), CompletionTime); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"heading.Kp"}, [][]float64{{1, 2}})
	if _, _, err := g.Search(ctx, Builder(config.DefaultConfig()), CompletionTime); err == nil {
		t.Error("expected context error")
	}
}
