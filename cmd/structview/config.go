package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config controls structview output.
type Config struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// loadConfig reads structview.yml from the working directory, if present,
// with STRUCTVIEW_* environment variables taking precedence over defaults.
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("format", "yaml")
	v.SetDefault("no_color", false)

	v.SetConfigName("structview")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("structview")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Format != "yaml" && config.Format != "json" {
		return nil, fmt.Errorf("invalid format %q: must be yaml or json", config.Format)
	}
	return &config, nil
}
