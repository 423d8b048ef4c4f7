package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/mdsim/internal/metrics"
)

type ExportData struct {
	*RunMetadata
	Samples []metrics.Sample `json:"samples"`
}

// Export writes the metadata and energy series of a run as indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Samples: samples})
}

func (s *Store) ExportFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.Export(file, runID)
}
