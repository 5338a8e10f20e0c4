package conformance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barefootjs/bfc/internal/adapter/reference"
	"github.com/barefootjs/bfc/internal/compiler"
)

const greetingSource = `
export default function Greeting() {
  return <div><p>hello</p></div>;
}
`

func TestLoadSaveFixturesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")

	html := "<div><p>hello</p></div>"
	fixtures := []Fixture{
		{ID: "greeting", Description: "static greeting", Source: greetingSource, ExpectedHTML: &html},
	}
	require.NoError(t, SaveFixtures(path, fixtures))

	loaded, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "greeting", loaded[0].ID)
	require.NotNil(t, loaded[0].ExpectedHTML)
	assert.Equal(t, html, *loaded[0].ExpectedHTML)
}

func TestBootstrapFillsExpectedHTML(t *testing.T) {
	fixtures := []Fixture{{ID: "greeting", Source: greetingSource}}
	out := Bootstrap(fixtures, compiler.Options{Adapter: reference.New()})
	require.Len(t, out, 1)
	require.NotNil(t, out[0].ExpectedHTML)
	assert.Contains(t, *out[0].ExpectedHTML, "<p>")
}

func TestRunAdapterConformancePassesOnMatchingGolden(t *testing.T) {
	bootstrapped := Bootstrap([]Fixture{{ID: "greeting", Source: greetingSource}}, compiler.Options{Adapter: reference.New()})

	h := &Harness{Reference: reference.New()}
	results := h.RunAdapterConformance(bootstrapped)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed, results[0].Detail)
}

func TestRunAdapterConformanceSkipsFixturesWithoutExpectedHTML(t *testing.T) {
	h := &Harness{Reference: reference.New()}
	results := h.RunAdapterConformance([]Fixture{{ID: "no-golden", Source: greetingSource}})
	assert.Empty(t, results)
}

func TestRunAdapterConformanceFailsOnMismatch(t *testing.T) {
	wrong := "<div><p>goodbye</p></div>"
	h := &Harness{Reference: reference.New()}
	results := h.RunAdapterConformance([]Fixture{{ID: "greeting", Source: greetingSource, ExpectedHTML: &wrong}})
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.NotEmpty(t, results[0].Detail)
}
