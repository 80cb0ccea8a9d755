// Package config holds the persistent settings of ldf, read by viper
// from the config file, environment and flags.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config are the settings a user can persist in ~/.ldf.yaml. Flags
// override them through viper's flag binding.
type Config struct {
	// Units selects the size formatting: si, binary or bytes.
	Units string `mapstructure:"units" validate:"omitempty,oneof=si binary bytes"`

	// Cols is the default --cols expression.
	Cols string `mapstructure:"cols"`

	// Sort is the default --sort specification.
	Sort string `mapstructure:"sort"`

	// Color controls table coloring: yes, no or auto (tty detection).
	Color string `mapstructure:"color" validate:"omitempty,oneof=yes no auto"`

	// ASCII restricts the table to ASCII characters.
	ASCII bool `mapstructure:"ascii"`

	// All lists every mount, like the -a flag.
	All bool `mapstructure:"all"`

	// RemoteStats enables statfs on network mounts. Disable it when
	// dead NFS mounts make the tool hang.
	RemoteStats bool `mapstructure:"remote_stats"`

	// CSVSeparator is the column separator of the CSV output.
	CSVSeparator string `mapstructure:"csv_separator" validate:"omitempty,len=1"`

	// LogLevel is the minimum level written to stderr.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// SetDefaults registers the fallback values with viper. They apply
// when neither a flag, the environment nor the config file sets a key.
func SetDefaults() {
	viper.SetDefault("units", "si")
	viper.SetDefault("color", "auto")
	viper.SetDefault("remote_stats", true)
	viper.SetDefault("csv_separator", ",")
	viper.SetDefault("log_level", "warn")
}

// Load unmarshals and validates the effective configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
