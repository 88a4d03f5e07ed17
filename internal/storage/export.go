package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/boatsim/internal/sim"
)

type ExportData struct {
	Metadata RunMetadata  `json:"metadata"`
	Samples  []sim.Sample `json:"samples,omitempty"`
}

// Export writes a stored run as indented JSON. The trace is included only
// when withTrace is set.
func (s *Store) Export(w io.Writer, runID string, withTrace bool) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{Metadata: *meta}
	if withTrace {
		if data.Samples, err = s.LoadTrace(runID); err != nil {
			return err
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
