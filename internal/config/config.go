// Package config loads this tool's runtime defaults through Viper,
// the same way the rest of the corpus this module was built alongside
// configures itself: a named config file searched across a handful of
// conventional paths, environment variable overrides, and a missing
// file treated as "use the defaults" rather than an error.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the defaults applied when a caller doesn't pin a value
// explicitly via CLI flags.
type Config struct {
	// DefaultBlockSize is used when a block source can't report its
	// own block size (e.g. a plain file opened without partition context).
	DefaultBlockSize int64 `mapstructure:"default_block_size"`

	// AutoSniffPartitions controls whether Inspector.Open probes for a
	// partition scheme before looking for an HFS Plus signature directly.
	AutoSniffPartitions bool `mapstructure:"auto_sniff_partitions"`

	// DefaultOutputFormat is the CLI's default -o/--output value.
	DefaultOutputFormat string `mapstructure:"default_output_format"`

	// MaxForkReadIterations, when positive, replaces the fork-read
	// loop bound (fork.MaxReadIterations); exceeding it surfaces
	// herr.StuckTraversal instead of spinning forever on a malformed
	// extent list. B-tree traversal bounds are not affected.
	MaxForkReadIterations int `mapstructure:"max_fork_read_iterations"`
}

// Load reads hfsinspect's configuration file, if any, from the
// current directory, ./config, $HOME/.hfsinspect, or /etc/hfsinspect, falling back to
// built-in defaults when no file is present.
func Load() (*Config, error) {
	viper.SetConfigName("hfsinspect-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.hfsinspect")
	viper.AddConfigPath("/etc/hfsinspect")

	viper.SetDefault("default_block_size", 512)
	viper.SetDefault("auto_sniff_partitions", true)
	viper.SetDefault("default_output_format", "table")
	viper.SetDefault("max_fork_read_iterations", 2000)

	viper.SetEnvPrefix("HFSINSPECT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
