package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"
)

const (
	DefaultDir     = "verification"
	reportFileName = "report.json"
)

type artifactStore struct {
	dir        string
	reportPath string
}

// NewArtifactStore - creates the artifact directory if missing
func NewArtifactStore(dir string) (interfaces.ArtifactStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	return &artifactStore{
		dir:        dir,
		reportPath: filepath.Join(dir, reportFileName),
	}, nil
}

func (s *artifactStore) Dir() string {
	return s.dir
}

// Path - resolves an artifact name; only the base name is kept
func (s *artifactStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// SaveReport - writes the report through a temp file so readers never see a partial one
func (s *artifactStore) SaveReport(report *entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.reportPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.reportPath)
}

// LoadReport - loads the last run report
func (s *artifactStore) LoadReport() (*entities.RunReport, error) {
	data, err := os.ReadFile(s.reportPath)
	if err != nil {
		return nil, err
	}

	var report entities.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("corrupt report %s: %w", s.reportPath, err)
	}

	return &report, nil
}
