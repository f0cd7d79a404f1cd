package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/errors"
)

var dataCmd = &cobra.Command{
	Use:   "data [key]",
	Short: "Print the data the style guide viewer receives",
	Long: `Print the global data merged with the session metadata: settings,
navigation, link table, path lookups, breakpoints and the cache buster.

Examples:
  patternlab data                 # Output as JSON
  patternlab data -o yaml         # Output as YAML
  patternlab data --raw           # Only the files below _data
  patternlab data link            # Only the link table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runData,
}

var (
	dataFlags *OutputFlags
	dataRaw   bool
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataFlags = AddOutputFlags(dataCmd, FormatJSON, FormatYAML)
	dataCmd.Flags().BoolVar(&dataRaw, "raw", false, "Print only the data files")
}

func runData(cmd *cobra.Command, args []string) error {
	if err := dataFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	if _, err := session.Config(); err != nil {
		return err
	}

	collection := session.ViewerData()
	if dataRaw {
		collection = session.Data()
	}
	if len(args) == 1 {
		value := collection.Get(args[0])
		if value.IsNull() {
			return errors.NewValidationError(errors.ErrCodeDataNotFound, "no data under key "+args[0])
		}
		return encode(cmd.OutOrStdout(), dataFlags.Format, value.Interface())
	}
	return encode(cmd.OutOrStdout(), dataFlags.Format, collection.Interface())
}
