// Package config provides configuration loading for scrybe.
package config

import (
	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SCRYBE_"

// Config holds the application configuration.
type Config struct {
	// From is the input format used when it cannot be inferred from the input file name.
	From string `koanf:"from"`
	// To is the output format used when it cannot be inferred from the output file name.
	To string `koanf:"to"`
	// Options are converter options applied before the ones given on the command line.
	// Options the resolved pair does not declare are ignored.
	Options map[string]string `koanf:"options"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		To:      "html",
		Options: map[string]string{},
	}
}

// Load returns the application configuration: defaults, then the optional file at path,
// then SCRYBE_* environment variables.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	var (
		cfg Config
		err error
	)

	if path == "" {
		cfg, err = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	} else {
		cfg, err = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithFile[Config](path),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	}

	if err != nil {
		return nil, err
	}

	if cfg.Options == nil {
		cfg.Options = map[string]string{}
	}

	return &cfg, nil
}
