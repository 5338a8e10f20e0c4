// Package conformance drives fixture-based differential and golden testing
// of the adapters and the client script, per spec.md §4.6. Fixtures are
// small component sources plus optional props and an optional golden
// expectedHtml; the harness normalizes HTML before comparison so that
// formatting differences never fail a test.
package conformance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is one named, minimal source sample.
type Fixture struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Source      string            `yaml:"source"`
	Props       map[string]any    `yaml:"props,omitempty"`
	Companions  map[string]string `yaml:"companions,omitempty"`
	ExpectedHTML *string          `yaml:"expectedHtml,omitempty"`
	SkipClient  bool              `yaml:"skipClient,omitempty"`
}

// LoadFixtures reads a YAML file containing a top-level `fixtures:` list.
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures %s: %w", path, err)
	}
	var doc struct {
		Fixtures []Fixture `yaml:"fixtures"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing fixtures %s: %w", path, err)
	}
	return doc.Fixtures, nil
}

// SaveFixtures writes fixtures back in the same shape LoadFixtures reads,
// used by the expected-HTML bootstrapping script (spec §4.6) to persist
// freshly computed goldens.
func SaveFixtures(path string, fixtures []Fixture) error {
	doc := struct {
		Fixtures []Fixture `yaml:"fixtures"`
	}{Fixtures: fixtures}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling fixtures: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
