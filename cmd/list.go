package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/provider"
	"github.com/conneroisu/patternlab/internal/types"
	"github.com/conneroisu/patternlab/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all discovered patterns",
	Long: `List the patterns of the pattern library in dash path order with their
resolved states. Hidden patterns and the meta templates are left out unless
--all is given.

Examples:
  patternlab list                 # Table of visible patterns
  patternlab list -o json         # Output as JSON
  patternlab list --all -o yaml   # Include hidden patterns, output as YAML`,
	RunE: runList,
}

var (
	listFlags *OutputFlags
	listAll   bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, FormatTable, FormatJSON, FormatYAML)
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include hidden patterns")
}

// patternEntry is the listed form of a pattern.
type patternEntry struct {
	Partial  string   `json:"partial" yaml:"partial"`
	Name     string   `json:"name" yaml:"name"`
	Path     string   `json:"path" yaml:"path"`
	State    string   `json:"state,omitempty" yaml:"state,omitempty"`
	Hidden   bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Lineages []string `json:"lineages,omitempty" yaml:"lineages,omitempty"`
	File     string   `json:"file" yaml:"file"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	if _, err := session.Config(); err != nil {
		return err
	}

	entries := listEntries(session, listAll)

	out := cmd.OutOrStdout()
	if strings.EqualFold(listFlags.Format, FormatTable) {
		if len(entries) == 0 {
			fmt.Fprintln(out, "No patterns found.")
			return nil
		}
		return outputPatternTable(cmd, session, entries)
	}
	return encode(out, listFlags.Format, entries)
}

func listEntries(session *provider.Provider, all bool) []patternEntry {
	entries := make([]patternEntry, 0, len(session.Patterns()))
	for _, p := range session.Patterns() {
		if p.Hidden && !all {
			continue
		}
		entries = append(entries, newPatternEntry(session, p))
	}
	return entries
}

func newPatternEntry(session *provider.Provider, p *types.Pattern) patternEntry {
	return patternEntry{
		Partial:  p.Partial(),
		Name:     p.DisplayName(),
		Path:     p.PathSlash(),
		State:    session.GetState(p),
		Hidden:   p.Hidden,
		Lineages: p.Lineages,
		File:     p.FilePath,
	}
}

func outputPatternTable(cmd *cobra.Command, session *provider.Provider, entries []patternEntry) error {
	states := session.States().States()

	table := ui.NewTable(cmd.OutOrStdout(), []string{"PARTIAL", "PATH", "STATE"}, &ui.TableOptions{NoColor: noColor()})
	for _, e := range entries {
		table.AddStyledRow(ui.StateColor(e.State, states), e.Partial, e.Path, e.State)
	}
	table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d patterns\n", table.Len())
	return nil
}
