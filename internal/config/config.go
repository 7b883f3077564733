package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/trailcam-ocr/internal/imaging"
	"github.com/ironsheep/trailcam-ocr/internal/ocr"
	"github.com/ironsheep/trailcam-ocr/internal/recognize"
	"github.com/ironsheep/trailcam-ocr/internal/report"
	"github.com/ironsheep/trailcam-ocr/internal/vote"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete configuration of trailcam-ocr. It is loaded from
// defaults, an optional YAML file, TRAILCAM_* environment variables and
// command-line flags, in increasing priority.
type Config struct {
	Log       LogConfig         `mapstructure:"log" yaml:"log" json:"log"`
	Tesseract TesseractConfig   `mapstructure:"tesseract" yaml:"tesseract" json:"tesseract"`
	Band      BandConfig        `mapstructure:"band" yaml:"band" json:"band"`
	ROIs      []imaging.ROISpec `mapstructure:"rois" yaml:"rois" json:"rois"`
	Variants  VariantConfig     `mapstructure:"variants" yaml:"variants" json:"variants"`
	Weights   WeightsConfig     `mapstructure:"weights" yaml:"weights" json:"weights"`
	Selection SelectionConfig   `mapstructure:"selection" yaml:"selection" json:"selection"`
	Debug     DebugConfig       `mapstructure:"debug" yaml:"debug" json:"debug"`
	Batch     BatchConfig       `mapstructure:"batch" yaml:"batch" json:"batch"`
	Metrics   MetricsConfig     `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// TesseractConfig mirrors ocr.EngineConfig.
type TesseractConfig struct {
	Language                string `mapstructure:"language" yaml:"language" json:"language"`
	TessdataPrefix          string `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix" json:"tessdata_prefix"`
	Whitelist               string `mapstructure:"whitelist" yaml:"whitelist" json:"whitelist"`
	PageSegMode             int    `mapstructure:"page_seg_mode" yaml:"page_seg_mode" json:"page_seg_mode"`
	PreserveInterwordSpaces bool   `mapstructure:"preserve_interword_spaces" yaml:"preserve_interword_spaces" json:"preserve_interword_spaces"`
	NumericMode             bool   `mapstructure:"numeric_mode" yaml:"numeric_mode" json:"numeric_mode"`
	PoolSize                int    `mapstructure:"pool_size" yaml:"pool_size" json:"pool_size"`
}

// BandConfig mirrors imaging.BandOptions.
type BandConfig struct {
	ScanFraction     float64 `mapstructure:"scan_fraction" yaml:"scan_fraction" json:"scan_fraction"`
	DarkThreshold    float64 `mapstructure:"dark_threshold" yaml:"dark_threshold" json:"dark_threshold"`
	MaxStartRow      int     `mapstructure:"max_start_row" yaml:"max_start_row" json:"max_start_row"`
	MinRunRows       int     `mapstructure:"min_run_rows" yaml:"min_run_rows" json:"min_run_rows"`
	FallbackFraction float64 `mapstructure:"fallback_fraction" yaml:"fallback_fraction" json:"fallback_fraction"`
	FallbackMinRows  int     `mapstructure:"fallback_min_rows" yaml:"fallback_min_rows" json:"fallback_min_rows"`
	Padding          int     `mapstructure:"padding" yaml:"padding" json:"padding"`
}

// VariantConfig mirrors imaging.VariantOptions.
type VariantConfig struct {
	CubicScale    float64 `mapstructure:"cubic_scale" yaml:"cubic_scale" json:"cubic_scale"`
	NearestScale  float64 `mapstructure:"nearest_scale" yaml:"nearest_scale" json:"nearest_scale"`
	BlurRadius    float64 `mapstructure:"blur_radius" yaml:"blur_radius" json:"blur_radius"`
	AdaptiveBlock int     `mapstructure:"adaptive_block" yaml:"adaptive_block" json:"adaptive_block"`
	AdaptiveC     float64 `mapstructure:"adaptive_c" yaml:"adaptive_c" json:"adaptive_c"`
	CloseWidth    int     `mapstructure:"close_width" yaml:"close_width" json:"close_width"`
	CloseHeight   int     `mapstructure:"close_height" yaml:"close_height" json:"close_height"`
}

// WeightsConfig mirrors vote.Weights.
type WeightsConfig struct {
	ROI     map[string]float64 `mapstructure:"roi" yaml:"roi" json:"roi"`
	Variant map[string]float64 `mapstructure:"variant" yaml:"variant" json:"variant"`
	Layout  LayoutConfig       `mapstructure:"layout" yaml:"layout" json:"layout"`
}

// LayoutConfig mirrors vote.LayoutBonus.
type LayoutConfig struct {
	ColonBonus     float64 `mapstructure:"colon_bonus" yaml:"colon_bonus" json:"colon_bonus"`
	TripletPenalty float64 `mapstructure:"triplet_penalty" yaml:"triplet_penalty" json:"triplet_penalty"`
	TimeTailBonus  float64 `mapstructure:"time_tail_bonus" yaml:"time_tail_bonus" json:"time_tail_bonus"`
}

// SelectionConfig mirrors vote.Policy.
type SelectionConfig struct {
	EliteMargin       float64  `mapstructure:"elite_margin" yaml:"elite_margin" json:"elite_margin"`
	PreferredROIs     []string `mapstructure:"preferred_rois" yaml:"preferred_rois" json:"preferred_rois"`
	PreferredVariants []string `mapstructure:"preferred_variants" yaml:"preferred_variants" json:"preferred_variants"`
	MismatchPenalty   float64  `mapstructure:"mismatch_penalty" yaml:"mismatch_penalty" json:"mismatch_penalty"`
}

// DebugConfig controls artifact capture. An empty Dir means
// "<image folder>/_ocr_debug".
type DebugConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Dir          string `mapstructure:"dir" yaml:"dir" json:"dir"`
	OverlayColor string `mapstructure:"overlay_color" yaml:"overlay_color" json:"overlay_color"`
}

// BatchConfig controls folder extraction.
type BatchConfig struct {
	// Workers bounds concurrent images; 0 means one per CPU.
	Workers       int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Extensions    []string `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	ExcelQuote    bool     `mapstructure:"excel_quote" yaml:"excel_quote" json:"excel_quote"`
	SplitDateTime bool     `mapstructure:"split_date_time" yaml:"split_date_time" json:"split_date_time"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file" json:"file"`
}

// DebugDirName is the default debug folder inside the image folder.
const DebugDirName = "_ocr_debug"

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	engine := ocr.DefaultEngineConfig()
	band := imaging.DefaultBandOptions()
	variants := imaging.DefaultVariantOptions()
	weights := vote.DefaultWeights()
	policy := vote.DefaultPolicy()

	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Tesseract: TesseractConfig{
			Language:                engine.Language,
			TessdataPrefix:          engine.TessdataPrefix,
			Whitelist:               engine.Whitelist,
			PageSegMode:             engine.PageSegMode,
			PreserveInterwordSpaces: engine.PreserveInterwordSpaces,
			NumericMode:             engine.NumericMode,
			PoolSize:                engine.PoolSize,
		},
		Band: BandConfig{
			ScanFraction:     band.ScanFraction,
			DarkThreshold:    band.DarkThreshold,
			MaxStartRow:      band.MaxStartRow,
			MinRunRows:       band.MinRunRows,
			FallbackFraction: band.FallbackFraction,
			FallbackMinRows:  band.FallbackMinRows,
			Padding:          band.Padding,
		},
		ROIs: imaging.DefaultROIs(),
		Variants: VariantConfig{
			CubicScale:    variants.CubicScale,
			NearestScale:  variants.NearestScale,
			BlurRadius:    variants.BlurRadius,
			AdaptiveBlock: variants.AdaptiveBlock,
			AdaptiveC:     variants.AdaptiveC,
			CloseWidth:    variants.CloseWidth,
			CloseHeight:   variants.CloseHeight,
		},
		Weights: WeightsConfig{
			ROI:     weights.ROI,
			Variant: weights.Variant,
			Layout: LayoutConfig{
				ColonBonus:     weights.Layout.ColonBonus,
				TripletPenalty: weights.Layout.TripletPenalty,
				TimeTailBonus:  weights.Layout.TimeTailBonus,
			},
		},
		Selection: SelectionConfig{
			EliteMargin:       policy.EliteMargin,
			PreferredROIs:     policy.PreferredROIs,
			PreferredVariants: policy.PreferredVariants,
			MismatchPenalty:   policy.MismatchPenalty,
		},
		Debug: DebugConfig{OverlayColor: imaging.DefaultOverlayColor},
		Batch: BatchConfig{
			Extensions: []string{".png", ".jpg", ".jpeg"},
			ExcelQuote: true,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if !contains([]string{"text", "json"}, c.Log.Format) {
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}

	if c.Tesseract.PoolSize < 0 {
		return fmt.Errorf("%w: tesseract.pool_size must not be negative", ErrInvalid)
	}
	if c.Tesseract.PageSegMode < 0 || c.Tesseract.PageSegMode > 13 {
		return fmt.Errorf("%w: tesseract.page_seg_mode must be in [0, 13]", ErrInvalid)
	}

	if err := validateFraction(c.Band.ScanFraction, "band.scan_fraction"); err != nil {
		return err
	}
	if err := validateFraction(c.Band.FallbackFraction, "band.fallback_fraction"); err != nil {
		return err
	}
	if c.Band.MinRunRows < 1 || c.Band.MaxStartRow < 0 || c.Band.Padding < 0 || c.Band.FallbackMinRows < 1 {
		return fmt.Errorf("%w: band row counts must be non-negative and run/fallback rows positive", ErrInvalid)
	}

	if len(c.ROIs) == 0 {
		return fmt.Errorf("%w: at least one roi is required", ErrInvalid)
	}
	seen := make(map[string]bool)
	for _, r := range c.ROIs {
		switch {
		case r.Tag == "":
			return fmt.Errorf("%w: roi without tag", ErrInvalid)
		case seen[r.Tag]:
			return fmt.Errorf("%w: duplicate roi %q", ErrInvalid, r.Tag)
		case r.From < 0 || r.To > 1 || r.From >= r.To:
			return fmt.Errorf("%w: roi %q needs 0 <= from < to <= 1", ErrInvalid, r.Tag)
		}
		seen[r.Tag] = true
	}

	v := c.Variants
	if v.CubicScale <= 0 || v.NearestScale <= 0 {
		return fmt.Errorf("%w: variant scales must be positive", ErrInvalid)
	}
	if v.AdaptiveBlock < 3 || v.AdaptiveBlock%2 == 0 {
		return fmt.Errorf("%w: variants.adaptive_block must be odd and at least 3", ErrInvalid)
	}
	if v.BlurRadius < 0 || v.CloseWidth < 1 || v.CloseHeight < 1 {
		return fmt.Errorf("%w: blur radius and closing kernel must be positive", ErrInvalid)
	}

	if c.Selection.EliteMargin < 0 {
		return fmt.Errorf("%w: selection.elite_margin must not be negative", ErrInvalid)
	}
	if len(c.Selection.PreferredROIs) == 0 || len(c.Selection.PreferredVariants) == 0 {
		return fmt.Errorf("%w: selection needs preferred rois and variants", ErrInvalid)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: batch.workers must not be negative", ErrInvalid)
	}
	if len(c.Batch.Extensions) == 0 {
		return fmt.Errorf("%w: batch.extensions must not be empty", ErrInvalid)
	}
	return nil
}

// EngineConfig converts the tesseract section.
func (c *Config) EngineConfig() ocr.EngineConfig {
	t := c.Tesseract
	return ocr.EngineConfig{
		Language:                t.Language,
		TessdataPrefix:          t.TessdataPrefix,
		Whitelist:               t.Whitelist,
		PageSegMode:             t.PageSegMode,
		PreserveInterwordSpaces: t.PreserveInterwordSpaces,
		NumericMode:             t.NumericMode,
		PoolSize:                t.PoolSize,
	}
}

// RecognizeOptions converts the pipeline sections.
func (c *Config) RecognizeOptions() recognize.Options {
	b, v := c.Band, c.Variants
	return recognize.Options{
		Band: imaging.BandOptions{
			ScanFraction:     b.ScanFraction,
			DarkThreshold:    b.DarkThreshold,
			MaxStartRow:      b.MaxStartRow,
			MinRunRows:       b.MinRunRows,
			FallbackFraction: b.FallbackFraction,
			FallbackMinRows:  b.FallbackMinRows,
			Padding:          b.Padding,
		},
		ROIs: append([]imaging.ROISpec(nil), c.ROIs...),
		Variants: imaging.VariantOptions{
			CubicScale:    v.CubicScale,
			NearestScale:  v.NearestScale,
			BlurRadius:    v.BlurRadius,
			AdaptiveBlock: v.AdaptiveBlock,
			AdaptiveC:     v.AdaptiveC,
			CloseWidth:    v.CloseWidth,
			CloseHeight:   v.CloseHeight,
		},
		Weights: vote.Weights{
			ROI:     copyWeights(c.Weights.ROI),
			Variant: copyWeights(c.Weights.Variant),
			Layout: vote.LayoutBonus{
				ColonBonus:     c.Weights.Layout.ColonBonus,
				TripletPenalty: c.Weights.Layout.TripletPenalty,
				TimeTailBonus:  c.Weights.Layout.TimeTailBonus,
			},
		},
		Policy: vote.Policy{
			EliteMargin:       c.Selection.EliteMargin,
			PreferredROIs:     append([]string(nil), c.Selection.PreferredROIs...),
			PreferredVariants: append([]string(nil), c.Selection.PreferredVariants...),
			MismatchPenalty:   c.Selection.MismatchPenalty,
		},
		OverlayColor: c.Debug.OverlayColor,
	}
}

// CSVOptions converts the batch output settings.
func (c *Config) CSVOptions() report.CSVOptions {
	return report.CSVOptions{ExcelQuote: c.Batch.ExcelQuote, SplitDateTime: c.Batch.SplitDateTime}
}

// LogLevel returns the parsed log level, info when unparsable.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// YAML renders the configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}

func validateFraction(v float64, name string) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in (0, 1]", ErrInvalid, name)
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}

// copyWeights lower-cases keys; viper folds map keys read from files.
func copyWeights(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
