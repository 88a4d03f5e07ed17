package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Strategy: "waypoint",
		Samples: []sim.Sample{
			{Time: 0.1, X: 1, Y: 0, LinearVelocity: 10, LinearAccel: 50},
			{Time: 0.2, X: 2.5, Y: 0.25, Orientation: 0.1, LinearVelocity: 15, AngularVelocity: 0.2, AngularAccel: -1, Progress: 1},
		},
		StepsTaken:     2,
		Completed:      true,
		CompletionTime: 0.2,
		Metrics: map[string]float64{
			"distance": 1.5,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	gate := course.NewGate(r2.Point{X: 100, Y: 0}, 0, 100, 400)
	runID, err := st.Save(RunMetadata{Seed: 42, Dt: 0.1, Duration: 1, Gate: gate}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Strategy != "waypoint" {
		t.Errorf("expected strategy 'waypoint', got '%s'", meta.Strategy)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if !meta.Completed || meta.Steps != 2 {
		t.Errorf("outcome not recorded: %+v", meta)
	}
	if meta.Metrics["distance"] != 1.5 {
		t.Errorf("expected distance 1.5, got %f", meta.Metrics["distance"])
	}
	if meta.Gate.Buoys[2].Color != course.Red {
		t.Errorf("gate not preserved: %+v", meta.Gate)
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	want := testResult().Samples[1]
	if samples[1] != want {
		t.Errorf("sample = %+v, want %+v", samples[1], want)
	}
}

func TestStoreTraceIsGzipped(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(RunMetadata{}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, runID, traceFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Error("trace is not gzip encoded")
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second, _ := st.Save(RunMetadata{Timestamp: base.Add(time.Minute)}, testResult())
	first, _ := st.Save(RunMetadata{Timestamp: base}, testResult())

	// stray directories are ignored
	if err := os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not ordered by time: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreMissingList(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list for missing dir, got %v, %v", runs, err)
	}
}

func TestStoreRejectsBadID(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("../etc"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, err := st.LoadTrace("nope"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Seed: 3}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(&buf, runID, true); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not json: %v", err)
	}
	if data.Metadata.ID != runID || data.Metadata.Seed != 3 {
		t.Errorf("unexpected metadata %+v", data.Metadata)
	}
	if len(data.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(data.Samples))
	}

	buf.Reset()
	if err := st.Export(&buf, runID, false); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data = ExportData{}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Samples) != 0 {
		t.Errorf("expected no samples, got %d", len(data.Samples))
	}
}
