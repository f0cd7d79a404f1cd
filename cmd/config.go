package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the pattern library settings",
	Long: `Print the settings read from config/config.yml below the source
directory. The file is generated with default values when it is missing.

Examples:
  patternlab config               # Table of all settings
  patternlab config -o json       # Output as JSON
  patternlab config --path        # Print the settings file location`,
	RunE: runConfig,
}

var (
	configFlags *OutputFlags
	configPath  bool
)

func init() {
	rootCmd.AddCommand(configCmd)

	configFlags = AddOutputFlags(configCmd, FormatTable, FormatJSON, FormatYAML)
	configCmd.Flags().BoolVar(&configPath, "path", false, "Print the settings file path only")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := configFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	settings, err := session.Config()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if configPath {
		fmt.Fprintln(out, settings.Path())
		return nil
	}

	if !strings.EqualFold(configFlags.Format, FormatTable) {
		return encode(out, configFlags.Format, settings.All())
	}

	table := ui.NewKeyValueTable(out, noColor())
	for _, key := range settings.Keys() {
		table.AddRow(key, settings.Get(key))
	}
	table.Render()
	return nil
}
