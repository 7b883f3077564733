package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "trailcam-ocr"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "TRAILCAM"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// BindFlag binds a command-line flag to a configuration key. Unset flags
// do not override other sources.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads configuration from the file (searched for when configFile is
// empty), the environment and bound flags, and validates the result.
func (l *Loader) Load(configFile string) (*Config, error) {
	cfg, err := l.LoadWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithoutValidation is Load without the final Validate.
func (l *Loader) LoadWithoutValidation(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
		if err := l.v.ReadInConfig(); err != nil {
			// A missing file is fine; defaults and env apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are named) into the process environment. Missing files are skipped and
// variables already set are left alone.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// SearchPaths returns the directories searched for trailcam-ocr.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(configDir, ConfigFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}
	return append(paths, filepath.Join("/etc", ConfigFileName))
}

func (l *Loader) addConfigPaths() {
	for _, p := range SearchPaths() {
		l.v.AddConfigPath(p)
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.format", d.Log.Format)

	l.v.SetDefault("tesseract.language", d.Tesseract.Language)
	l.v.SetDefault("tesseract.tessdata_prefix", d.Tesseract.TessdataPrefix)
	l.v.SetDefault("tesseract.whitelist", d.Tesseract.Whitelist)
	l.v.SetDefault("tesseract.page_seg_mode", d.Tesseract.PageSegMode)
	l.v.SetDefault("tesseract.preserve_interword_spaces", d.Tesseract.PreserveInterwordSpaces)
	l.v.SetDefault("tesseract.numeric_mode", d.Tesseract.NumericMode)
	l.v.SetDefault("tesseract.pool_size", d.Tesseract.PoolSize)

	l.v.SetDefault("band.scan_fraction", d.Band.ScanFraction)
	l.v.SetDefault("band.dark_threshold", d.Band.DarkThreshold)
	l.v.SetDefault("band.max_start_row", d.Band.MaxStartRow)
	l.v.SetDefault("band.min_run_rows", d.Band.MinRunRows)
	l.v.SetDefault("band.fallback_fraction", d.Band.FallbackFraction)
	l.v.SetDefault("band.fallback_min_rows", d.Band.FallbackMinRows)
	l.v.SetDefault("band.padding", d.Band.Padding)

	l.v.SetDefault("rois", d.ROIs)

	l.v.SetDefault("variants.cubic_scale", d.Variants.CubicScale)
	l.v.SetDefault("variants.nearest_scale", d.Variants.NearestScale)
	l.v.SetDefault("variants.blur_radius", d.Variants.BlurRadius)
	l.v.SetDefault("variants.adaptive_block", d.Variants.AdaptiveBlock)
	l.v.SetDefault("variants.adaptive_c", d.Variants.AdaptiveC)
	l.v.SetDefault("variants.close_width", d.Variants.CloseWidth)
	l.v.SetDefault("variants.close_height", d.Variants.CloseHeight)

	// Nested maps merge key by key with the file.
	l.v.SetDefault("weights.roi", toAny(d.Weights.ROI))
	l.v.SetDefault("weights.variant", toAny(d.Weights.Variant))
	l.v.SetDefault("weights.layout.colon_bonus", d.Weights.Layout.ColonBonus)
	l.v.SetDefault("weights.layout.triplet_penalty", d.Weights.Layout.TripletPenalty)
	l.v.SetDefault("weights.layout.time_tail_bonus", d.Weights.Layout.TimeTailBonus)

	l.v.SetDefault("selection.elite_margin", d.Selection.EliteMargin)
	l.v.SetDefault("selection.preferred_rois", d.Selection.PreferredROIs)
	l.v.SetDefault("selection.preferred_variants", d.Selection.PreferredVariants)
	l.v.SetDefault("selection.mismatch_penalty", d.Selection.MismatchPenalty)

	l.v.SetDefault("debug.enabled", d.Debug.Enabled)
	l.v.SetDefault("debug.dir", d.Debug.Dir)
	l.v.SetDefault("debug.overlay_color", d.Debug.OverlayColor)

	l.v.SetDefault("batch.workers", d.Batch.Workers)
	l.v.SetDefault("batch.extensions", d.Batch.Extensions)
	l.v.SetDefault("batch.excel_quote", d.Batch.ExcelQuote)
	l.v.SetDefault("batch.split_date_time", d.Batch.SplitDateTime)

	l.v.SetDefault("metrics.file", d.Metrics.File)
}

func toAny(m map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
