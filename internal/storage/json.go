package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"caserun/internal/domain"
)

// Save writes attachment payloads next to the results file and then the run itself.
func (s *JSONStorage) Save(output *domain.RunOutput, attachments []domain.Attachment) error {
	if len(attachments) != len(output.Attachments) {
		return fmt.Errorf("attachment count mismatch: %d payloads for %d records", len(attachments), len(output.Attachments))
	}

	if len(attachments) > 0 {
		dir := s.cfg.GetAttachmentsPath(output.Meta.RunID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create attachments dir: %w", err)
		}
		for i, a := range attachments {
			path := filepath.Join(dir, uniqueName(dir, a.FileName()))
			if err := os.WriteFile(path, a.Payload, 0644); err != nil {
				return fmt.Errorf("write attachment %s: %w", a.Name, err)
			}
			output.Attachments[i].Path = path
		}
	}

	return s.SaveOutput(output)
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// uniqueName returns name, or name with a numeric suffix if it already exists in dir
func uniqueName(dir, name string) string {
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	candidate := name
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d%s", base, i, ext)
	}
}
