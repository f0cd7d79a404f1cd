package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for patternlab: version, git commit, build
time, Go version and target platform.

Examples:
  patternlab version              # Show version and commit
  patternlab version --short      # Show the version only
  patternlab version -f json      # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", FormatText, "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().Bool("detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	detailed, _ := cmd.Flags().GetBool("detailed")
	out := cmd.OutOrStdout()

	switch versionFormat {
	case FormatJSON, FormatYAML:
		return encode(out, versionFormat, version.GetBuildInfo())
	case FormatText:
		switch {
		case versionShort:
			fmt.Fprintln(out, version.GetVersion())
		case detailed:
			fmt.Fprintln(out, version.GetDetailedVersion())
		default:
			fmt.Fprintf(out, "patternlab %s\n", version.GetShortVersion())
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}
