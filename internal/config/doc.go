// Package config loads trailcam-ocr settings with viper.
//
// Sources, in increasing priority: built-in defaults, a YAML file
// (trailcam-ocr.yaml in ., $XDG_CONFIG_HOME/trailcam-ocr or
// ~/.config/trailcam-ocr, /etc/trailcam-ocr, or the --config path),
// TRAILCAM_* environment variables (an optional .env file is loaded
// first), and command-line flags. Nested keys map to environment names by
// replacing dots with underscores, e.g. selection.elite_margin is
// TRAILCAM_SELECTION_ELITE_MARGIN.
package config
