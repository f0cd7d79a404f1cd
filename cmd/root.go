// Package cmd provides the patternlab command line interface.
//
// Global settings come from flags and PATTERNLAB_ environment variables,
// flags taking precedence:
//
//	--source      PATTERNLAB_SOURCE      source directory (default ".")
//	--log-level   PATTERNLAB_LOG_LEVEL   debug, info, warn or error
//	--log-format  PATTERNLAB_LOG_FORMAT  text or json
//
// Settings of the pattern library itself live in config/config.yml below
// the source directory and are generated on first use.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "patternlab",
	Short: "Compile pattern libraries into static style guides",
	Long: `patternlab compiles a folder of pattern templates into a static style guide.

Patterns live below _patterns in folders for their type and subtype:

  _patterns/00-atoms/01-forms/00-button@complete.gohtml

is the pattern "atoms-button" in state "complete". Global data is read from
_data, the page header and footer from _meta.

Quick Start:
  patternlab list                 List all patterns and their states
  patternlab build                Export the style guide to public/
  patternlab state atoms-button   Show the resolved state of a pattern

Command Aliases:
  list (l), build (b)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Errors are printed before they are returned.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.PrintError(rootCmd.ErrOrStderr(), withHints(err), noColor())
	}
	return err
}

// withHints attaches fixes for configuration errors.
func withHints(err error) error {
	if !errors.IsConfigError(err) {
		return err
	}
	return errors.WithSuggestions(err, []errors.Suggestion{
		{
			Title:       "Check the settings file",
			Description: "config/config.yml below the source directory must be readable YAML",
			Command:     "patternlab config --path",
		},
		{
			Title:       "Check the global flags",
			Description: "Log levels are debug, info, warn and error; log formats are text and json",
			Command:     "patternlab --help",
		},
	})
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("source", "s", ".", "source directory of the pattern library")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	for _, name := range []string{"source", "log-level", "log-format", "no-color"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig enables PATTERNLAB_ environment variables for the global flags.
func initConfig() {
	viper.SetEnvPrefix("PATTERNLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
