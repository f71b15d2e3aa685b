package storage

import (
	"errors"

	"caserun/internal/config"
	"caserun/internal/domain"
)

// Storage persists and loads test run results (e.g. for the failures viewer).
type Storage interface {
	// Save persists a run. attachments are the retained attachments of the
	// run, in the order of output.Attachments.
	Save(output *domain.RunOutput, attachments []domain.Attachment) error
	Load() (*domain.RunOutput, error)
	// SaveOutput rewrites a previously saved run (e.g. after marking failures resolved).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Multi fans writes out to several storages; reads come from the first one.
type Multi []Storage

func (m Multi) Save(output *domain.RunOutput, attachments []domain.Attachment) error {
	for _, s := range m {
		if err := s.Save(output, attachments); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Load() (*domain.RunOutput, error) {
	if len(m) == 0 {
		return nil, errors.New("no storage configured")
	}
	return m[0].Load()
}

func (m Multi) SaveOutput(output *domain.RunOutput) error {
	for _, s := range m {
		if err := s.SaveOutput(output); err != nil {
			return err
		}
	}
	return nil
}
