package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/renderer"
	"github.com/conneroisu/patternlab/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the pattern library for problems",
	Long: `Check the pattern library for:

- files whose partial is already taken by another file
- includes of patterns that do not exist
- circular includes
- patterns that fail to render

The command fails when any problem is found.

Examples:
  patternlab check                # Report problems as text
  patternlab check -o json        # Output the report as JSON`,
	RunE: runCheck,
}

var checkFlags *OutputFlags

func init() {
	rootCmd.AddCommand(checkCmd)

	checkFlags = AddOutputFlags(checkCmd, FormatText, FormatJSON, FormatYAML)
}

// CheckReport lists the problems found in a pattern library.
type CheckReport struct {
	Patterns     int                 `json:"patterns" yaml:"patterns"`
	Duplicates   []string            `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Missing      map[string][]string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Cycles       [][]string          `json:"cycles,omitempty" yaml:"cycles,omitempty"`
	RenderErrors map[string]string   `json:"renderErrors,omitempty" yaml:"renderErrors,omitempty"`
}

// Problems counts the reported problems.
func (r *CheckReport) Problems() int {
	return len(r.Duplicates) + len(r.Missing) + len(r.Cycles) + len(r.RenderErrors)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := checkFlags.Validate(); err != nil {
		return err
	}

	session, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	if _, err := session.Config(); err != nil {
		return err
	}

	reg := session.Registry()
	report := &CheckReport{
		Patterns:     reg.Count(),
		Missing:      reg.MissingLineages(),
		Cycles:       reg.DetectCycles(),
		RenderErrors: make(map[string]string),
	}
	for _, dup := range reg.Duplicates() {
		report.Duplicates = append(report.Duplicates, dup.FilePath)
	}

	r := renderer.NewPatternRenderer(session)
	for _, p := range session.Patterns() {
		if _, err := r.Render(cmd.Context(), p); err != nil {
			report.RenderErrors[p.Partial()] = err.Error()
		}
	}

	out := cmd.OutOrStdout()
	if strings.EqualFold(checkFlags.Format, FormatText) {
		printCheckReport(cmd, report)
	} else if err := encode(out, checkFlags.Format, report); err != nil {
		return err
	}

	if n := report.Problems(); n > 0 {
		return fmt.Errorf("found %d problems in %d patterns", n, report.Patterns)
	}
	return nil
}

func printCheckReport(cmd *cobra.Command, report *CheckReport) {
	out := cmd.OutOrStdout()

	for _, file := range report.Duplicates {
		ui.PrintWarning(out, "duplicate partial ignored: "+file, noColor())
	}
	for _, partial := range sortedMapKeys(report.Missing) {
		ui.PrintWarning(out, fmt.Sprintf("%s includes missing patterns: %s", partial, strings.Join(report.Missing[partial], ", ")), noColor())
	}
	for _, cycle := range report.Cycles {
		ui.PrintWarning(out, "circular include: "+strings.Join(cycle, " -> "), noColor())
	}
	for _, partial := range sortedMapKeys(report.RenderErrors) {
		ui.PrintWarning(out, fmt.Sprintf("%s does not render: %s", partial, report.RenderErrors[partial]), noColor())
	}

	if report.Problems() == 0 {
		fmt.Fprintf(out, "%d patterns, no problems found\n", report.Patterns)
	}
}

func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
