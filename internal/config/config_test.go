package config

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.8, cfg.Selection.EliteMargin)
	assert.True(t, cfg.Batch.ExcelQuote)
	assert.False(t, cfg.Debug.Enabled)
	// zero sizes the worker pool and the OCR client pool to the CPU count
	assert.Zero(t, cfg.Batch.Workers)
	assert.Zero(t, cfg.Tesseract.PoolSize)
}

func TestDefaultConfig_RoundTripsPackageDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, recognize.DefaultOptions(), cfg.RecognizeOptions())
	assert.Equal(t, ocr.DefaultEngineConfig(), cfg.EngineConfig())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"pool size", func(c *Config) { c.Tesseract.PoolSize = -1 }, "pool_size"},
		{"psm", func(c *Config) { c.Tesseract.PageSegMode = 14 }, "page_seg_mode"},
		{"scan fraction", func(c *Config) { c.Band.ScanFraction = 1.5 }, "scan_fraction"},
		{"fallback fraction", func(c *Config) { c.Band.FallbackFraction = 0 }, "fallback_fraction"},
		{"min run", func(c *Config) { c.Band.MinRunRows = 0 }, "band row"},
		{"no rois", func(c *Config) { c.ROIs = nil }, "at least one roi"},
		{"dup roi", func(c *Config) { c.ROIs = append(c.ROIs, c.ROIs[0]) }, "duplicate roi"},
		{"roi bounds", func(c *Config) { c.ROIs[0].To = 1.2 }, "from < to"},
		{"roi tag", func(c *Config) { c.ROIs[0].Tag = "" }, "without tag"},
		{"scale", func(c *Config) { c.Variants.NearestScale = 0 }, "scales"},
		{"even block", func(c *Config) { c.Variants.AdaptiveBlock = 30 }, "adaptive_block"},
		{"kernel", func(c *Config) { c.Variants.CloseHeight = 0 }, "closing kernel"},
		{"margin", func(c *Config) { c.Selection.EliteMargin = -0.1 }, "elite_margin"},
		{"preferred", func(c *Config) { c.Selection.PreferredROIs = nil }, "preferred"},
		{"workers", func(c *Config) { c.Batch.Workers = -1 }, "workers"},
		{"extensions", func(c *Config) { c.Batch.Extensions = nil }, "extensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecognizeOptions_LowercasesWeightKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.ROI = map[string]float64{"Left70": 9}
	opts := cfg.RecognizeOptions()
	assert.Equal(t, 9.0, opts.Weights.ROI["left70"])
}

func TestRecognizeOptions_DoesNotAlias(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.RecognizeOptions()
	opts.ROIs[0].Tag = "changed"
	opts.Policy.PreferredROIs[0] = "changed"
	assert.Equal(t, "full", cfg.ROIs[0].Tag)
	assert.Equal(t, "left70", cfg.Selection.PreferredROIs[0])
}

func TestCSVOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Batch.SplitDateTime = true
	opts := cfg.CSVOptions()
	assert.True(t, opts.ExcelQuote)
	assert.True(t, opts.SplitDateTime)
}

func TestLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel())
	cfg.Log.Level = "???"
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel())
}

func TestYAML(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "elite_margin: 0.8")
	assert.True(t, strings.Contains(out, "tag: left70"))

	var back Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, cfg.ROIs, back.ROIs)
	assert.Equal(t, cfg.Weights.Variant, back.Weights.Variant)
}
