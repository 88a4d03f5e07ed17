package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "states.csv.gz"
)

var traceHeader = []string{
	"time", "x", "y", "orientation", "linear_velocity", "angular_velocity",
	"linear_accel", "angular_accel", "progress",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Strategy       string             `json:"strategy"`
	Preset         string             `json:"preset,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Steps          int                `json:"steps"`
	Completed      bool               `json:"completed"`
	CompletionTime float64            `json:"completion_time"`
	CurrentFaults  int                `json:"current_faults"`
	Gate           course.Gate        `json:"gate"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes the run under a fresh ID and returns it. Outcome fields of
// meta are filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Strategy = result.Strategy
	meta.Steps = result.StepsTaken
	meta.Completed = result.Completed
	meta.CompletionTime = result.CompletionTime
	meta.CurrentFaults = result.CurrentFaults
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	traceOut, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer traceOut.Close()

	zw := gzip.NewWriter(traceOut)
	if err := writeTrace(zw, result.Samples); err != nil {
		return "", fmt.Errorf("write trace: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeTrace(out io.Writer, samples []sim.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(traceHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			formatFloat(smp.Time),
			formatFloat(smp.X),
			formatFloat(smp.Y),
			formatFloat(smp.Orientation),
			formatFloat(smp.LinearVelocity),
			formatFloat(smp.AngularVelocity),
			formatFloat(smp.LinearAccel),
			formatFloat(smp.AngularAccel),
			strconv.Itoa(smp.Progress),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	r := csv.NewReader(zr)
	r.FieldsPerRecord = len(traceHeader)

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []sim.Sample{}, nil
		}
		return nil, err
	}

	samples := make([]sim.Sample, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		smp, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(samples)+2, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, error) {
	vals := make([]float64, len(record)-1)
	for i := range vals {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return sim.Sample{}, err
		}
		vals[i] = v
	}
	progress, err := strconv.Atoi(record[len(record)-1])
	if err != nil {
		return sim.Sample{}, err
	}

	return sim.Sample{
		Time:            vals[0],
		X:               vals[1],
		Y:               vals[2],
		Orientation:     vals[3],
		LinearVelocity:  vals[4],
		AngularVelocity: vals[5],
		LinearAccel:     vals[6],
		AngularAccel:    vals[7],
		Progress:        progress,
	}, nil
}
