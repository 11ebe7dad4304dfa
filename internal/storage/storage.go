package storage

import (
	"ctp/internal/config"
	"ctp/internal/domain"
)

// Storage persists and loads run results (e.g. for the fails viewer).
type Storage interface {
	Save(output *domain.ResultsOutput) error
	Load() (*domain.ResultsOutput, error)
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Path returns the file the storage reads and writes
func (s *JSONStorage) Path() string {
	return s.cfg.GetOutputPath()
}
