package detector

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruiser-KPI/hand-recognition/models"
	"github.com/cruiser-KPI/hand-recognition/proposals"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50.0, cfg.MinConfidence)
	assert.Equal(t, 0.3, cfg.OverlapThreshold)
	assert.Equal(t, 30, cfg.MinDim)
	assert.Equal(t, 1.2, cfg.MaxScale)
	assert.Equal(t, []string{"left", "right", "bad"}, cfg.Classes)
	assert.Equal(t, 50, cfg.Classifier.InputWidth)
	assert.Equal(t, proposals.MethodEdges, cfg.Proposals.Method)
	assert.Positive(t, cfg.workers())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "confidence NaN", modify: func(c *Config) { c.MinConfidence = math.NaN() }, errMsg: "min confidence"},
		{name: "confidence above range", modify: func(c *Config) { c.MinConfidence = 101 }, errMsg: "min confidence"},
		{name: "overlap negative", modify: func(c *Config) { c.OverlapThreshold = -0.5 }, errMsg: "overlap threshold"},
		{name: "zero min dim", modify: func(c *Config) { c.MinDim = 0 }, errMsg: "min_dim"},
		{name: "scale below one", modify: func(c *Config) { c.MaxScale = 0.9 }, errMsg: "max_scale"},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -1 }, errMsg: "workers"},
		{name: "two classes", modify: func(c *Config) { c.Classes = []string{"left", "right"} }, errMsg: "classes"},
		{name: "duplicate class", modify: func(c *Config) { c.Classes = []string{"left", "left", "bad"} }, errMsg: "classes"},
		{name: "zero input", modify: func(c *Config) { c.Classifier.InputHeight = 0 }, errMsg: "classifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ClassSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Classes = []string{"links", "rechts", "hintergrund"}

	set, err := cfg.ClassSet()
	require.NoError(t, err)
	assert.Equal(t, "rechts", set.Name(models.RightHand))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
min_confidence: 70
workers: 2
classifier:
  softmax: true
proposals:
  method: window
  window:
    min_size: 64
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 70.0, cfg.MinConfidence)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Classifier.Softmax)
	assert.Equal(t, proposals.MethodWindow, cfg.Proposals.Method)
	assert.Equal(t, 64, cfg.Proposals.Window.MinSize)

	// Untouched keys keep their defaults.
	defaults := DefaultConfig()
	assert.Equal(t, defaults.OverlapThreshold, cfg.OverlapThreshold)
	assert.Equal(t, defaults.Classifier.InputWidth, cfg.Classifier.InputWidth)
	assert.Equal(t, defaults.Proposals.Window.ScaleStep, cfg.Proposals.Window.ScaleStep)
	assert.Equal(t, defaults.Proposals.Edges, cfg.Proposals.Edges)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "min_confidence: [1, 2"))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "overlap_threshold: 3\n"))
		assert.ErrorContains(t, err, "invalid config")
	})
}
