package ranking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/ngo-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ranking.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	path := writeConfig(t, `weights:
  growth: 0.4
  balance: 0.4
  stability: 0.2
undefined_policy: exclude
bands:
  - name: small
    min: 0
    max: 1000000
  - name: large
    min: 1000000
    max: 0`)

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Weights.Growth)
	assert.Equal(t, 0.2, cfg.Weights.Stability)
	assert.Equal(t, domain.PolicyExclude, cfg.UndefinedPolicy)
	require.Len(t, cfg.Bands, 2)
	assert.Equal(t, "small", cfg.Bands[0].Name)
	assert.Equal(t, float64(1_000_000), cfg.Bands[1].Min)
}

func TestLoadConfig_PolicyDefaultsToWorstCase(t *testing.T) {
	path := writeConfig(t, `weights:
  growth: 0.4
  balance: 0.4
  stability: 0.2
bands:
  - name: all
    min: 0
    max: 0`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, domain.PolicyWorstCase, cfg.UndefinedPolicy)
}

func TestLoadConfig_WeightsMustSumToOne(t *testing.T) {
	path := writeConfig(t, `weights:
  growth: 0.5
  balance: 0.4
  stability: 0.2
bands:
  - name: all
    min: 0
    max: 0`)

	_, err := LoadConfig(path)

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Contains(t, confErr.Reason, "sum to 1.0")
}

func TestLoadConfig_RejectsBrokenBands(t *testing.T) {
	cases := []struct {
		name  string
		bands string
	}{
		{
			name: "gap between bands",
			bands: `
  - name: a
    min: 0
    max: 1000
  - name: b
    min: 2000
    max: 0`,
		},
		{
			name: "overlapping bands",
			bands: `
  - name: a
    min: 0
    max: 1000
  - name: b
    min: 500
    max: 0`,
		},
		{
			name: "empty band",
			bands: `
  - name: a
    min: 0
    max: 0
  - name: b
    min: 0
    max: 0`,
		},
		{
			name: "first band does not start at zero",
			bands: `
  - name: a
    min: 100
    max: 0`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, `weights:
  growth: 0.4
  balance: 0.4
  stability: 0.2
bands:`+tc.bands)

			_, err := LoadConfig(path)

			var confErr *ConfigurationError
			require.ErrorAs(t, err, &confErr)
		})
	}
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeConfig(t, "weights: 0.4: bad")

	_, err := LoadConfig(path)

	require.Error(t, err)
}

func TestDefaultConfig_IsValid(t *testing.T) {
	_, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
}
