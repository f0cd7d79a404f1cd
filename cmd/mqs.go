package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var mqsCmd = &cobra.Command{
	Use:   "mqs",
	Short: "List the media query breakpoints of the stylesheets",
	Long: `List the distinct min-width and max-width values used in the .css files
of the source directory, smallest first. Ignored directories are skipped.`,
	RunE: runMQs,
}

var mqsFlags *OutputFlags

func init() {
	rootCmd.AddCommand(mqsCmd)

	mqsFlags = AddOutputFlags(mqsCmd, FormatText, FormatJSON, FormatYAML)
}

func runMQs(cmd *cobra.Command, args []string) error {
	if err := mqsFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	if _, err := session.Config(); err != nil {
		return err
	}

	queries := session.MediaQueries()
	if queries == nil {
		queries = []string{}
	}

	if strings.EqualFold(mqsFlags.Format, FormatText) {
		for _, q := range queries {
			fmt.Fprintln(cmd.OutOrStdout(), q)
		}
		return nil
	}
	return encode(cmd.OutOrStdout(), mqsFlags.Format, queries)
}
