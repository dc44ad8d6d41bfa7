package interfaces

import "request_verifier/domain/entities"

// ArtifactStore owns the screenshot directory and the run report
type ArtifactStore interface {
	// Dir returns the artifact directory
	Dir() string

	// Path resolves an artifact name inside the directory
	Path(name string) string

	// SaveReport writes the run report, replacing the previous one
	SaveReport(report *entities.RunReport) error

	// LoadReport reads the last run report
	LoadReport() (*entities.RunReport, error)
}
