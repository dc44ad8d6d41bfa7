package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"request_verifier/domain/entities"
	"request_verifier/domain/scoring"

	"gopkg.in/yaml.v3"
)

// Load - returns the default scenario overlaid with the YAML file at path.
// An empty path returns the default scenario.
func Load(path string) (entities.Scenario, error) {
	if path == "" {
		return entities.DefaultScenario(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return entities.Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse - decodes YAML over the default scenario and validates the result
func Parse(data []byte) (entities.Scenario, error) {
	s := entities.DefaultScenario()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return entities.Scenario{}, fmt.Errorf("invalid yaml: %w", err)
	}

	effort, err := scoring.ParseEffort(string(s.Selection.Effort))
	if err != nil {
		return entities.Scenario{}, err
	}
	s.Selection.Effort = effort

	if err := s.Validate(); err != nil {
		return entities.Scenario{}, err
	}
	return s, nil
}

// Write - encodes a scenario as YAML
func Write(w io.Writer, s entities.Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
