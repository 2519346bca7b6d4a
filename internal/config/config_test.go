package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFullProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `
detector: binomial-cubic
range:
  min: 10
  max: 500
min_n: 12
workers: 4
store: runs.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "binomial-cubic", cfg.Detector)
	assert.Equal(t, int64(10), cfg.Range.Min)
	assert.Equal(t, int64(500), cfg.Range.Max)
	assert.Equal(t, int64(12), cfg.MinN)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "runs.db", cfg.Store)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDetector, cfg.Detector)
	assert.Equal(t, int64(DefaultMin), cfg.Range.Min)
	assert.Equal(t, int64(DefaultMax), cfg.Range.Max)
	assert.Zero(t, cfg.Workers)
	assert.Empty(t, cfg.Store)
}

func TestParseDetectorSpecProfile(t *testing.T) {
	cfg, err := Parse([]byte("detector_spec: custom.cue\nrange: {min: 2, max: 50}\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Detector)
	assert.Equal(t, "custom.cue", cfg.DetectorSpec)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("detecter: quartic\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative min", "range: {min: -1, max: 10}"},
		{"inverted range", "range: {min: 20, max: 10}"},
		{"negative workers", "range: {min: 2, max: 10}\nworkers: -2"},
		{"negative min_n", "range: {min: 2, max: 10}\nmin_n: -5"},
		{"conflicting detectors", "detector: quartic\ndetector_spec: custom.cue\nrange: {min: 2, max: 10}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
