package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/errors"
	"github.com/conneroisu/patternlab/internal/ui"
)

var stateCmd = &cobra.Command{
	Use:   "state <pattern>",
	Short: "Show the resolved state of a pattern",
	Long: `Show the state a pattern is displayed with. A pattern takes the state of
an included pattern when that state has a higher priority than its own; the
lowest priority state never spreads.

The pattern may be named by partial, slash path or view URL:
  patternlab state atoms-button
  patternlab state 00-atoms/01-forms/00-button
  patternlab state molecules-search -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runState,
}

var stateFlags *OutputFlags

func init() {
	rootCmd.AddCommand(stateCmd)

	stateFlags = AddOutputFlags(stateCmd, FormatText, FormatJSON, FormatYAML)
}

func runState(cmd *cobra.Command, args []string) error {
	if err := stateFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	if _, err := session.Config(); err != nil {
		return err
	}

	pattern, ok := session.FindPattern(args[0])
	if !ok {
		partials := make([]string, 0, len(session.Patterns()))
		for _, p := range session.Patterns() {
			partials = append(partials, p.Partial())
		}
		return errors.WithSuggestions(errors.ErrPatternNotFound(args[0]),
			errors.PatternNotFoundSuggestions(args[0], partials))
	}

	entry := newPatternEntry(session, pattern)
	if !strings.EqualFold(stateFlags.Format, FormatText) {
		return encode(cmd.OutOrStdout(), stateFlags.Format, entry)
	}

	table := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor())
	table.AddRow("Pattern", entry.Partial)
	table.AddRow("Own state", orNone(pattern.State))
	table.AddRow("State", orNone(entry.State))
	reg := session.Registry()
	var includes []string
	for _, p := range reg.Lineage(pattern.Partial()) {
		includes = append(includes, p.Partial())
	}
	table.AddRow("Includes", orNone(strings.Join(includes, ", ")))
	if missing := reg.MissingLineages()[pattern.Partial()]; len(missing) > 0 {
		table.AddRow("Missing includes", strings.Join(missing, ", "))
	}
	var dependents []string
	for _, d := range reg.Dependents(pattern.Partial()) {
		dependents = append(dependents, d.Partial())
	}
	table.AddRow("Included by", orNone(strings.Join(dependents, ", ")))
	table.AddRow("Priorities", stateSummary(session.States().States()))
	table.Render()
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// stateSummary formats priority order for help output.
func stateSummary(states []string) string {
	return fmt.Sprintf("%s (highest first)", strings.Join(states, " > "))
}
