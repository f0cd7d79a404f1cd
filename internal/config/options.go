package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/logging"
)

// Options are the command line settings, bound to flags and PATTERNLAB_
// environment variables through the global Viper instance.
type Options struct {
	SourceDir string `mapstructure:"source"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// LoadOptions reads Options from Viper, applying defaults for unset values.
func LoadOptions() (*Options, error) {
	var opts Options
	if err := viper.Unmarshal(&opts); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "cannot read command line options")
	}

	if opts.SourceDir == "" {
		opts.SourceDir = "."
	}
	if opts.LogLevel == "" {
		opts.LogLevel = logging.LevelWarn.String()
	}
	if opts.LogFormat == "" {
		opts.LogFormat = "text"
	}

	if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeConfigInvalid, "invalid log level")
	}
	if opts.LogFormat != "text" && opts.LogFormat != "json" {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("log format %q must be text or json", opts.LogFormat), nil)
	}

	return &opts, nil
}

// LoggerConfig builds the logger configuration for the options.
func (o *Options) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(o.LogLevel); err == nil {
		cfg.Level = level
	}
	cfg.Format = o.LogFormat
	return cfg
}
