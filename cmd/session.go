package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/patternlab/internal/config"
	"github.com/conneroisu/patternlab/internal/logging"
	"github.com/conneroisu/patternlab/internal/provider"
	"github.com/conneroisu/patternlab/internal/version"
)

// newSession opens a compilation session for the configured source
// directory. Logs go to the command's error stream.
func newSession(cmd *cobra.Command, publicDir string) (*provider.Provider, error) {
	opts, err := config.LoadOptions()
	if err != nil {
		return nil, err
	}

	logCfg := opts.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()

	return provider.New(provider.Options{
		SourceDir: opts.SourceDir,
		PublicDir: publicDir,
		Logger:    logging.NewLogger(logCfg),
		Version:   version.GetVersion(),
	}), nil
}

// noColor reports whether output should be plain.
func noColor() bool {
	return viper.GetBool("no-color") || color.NoColor
}
