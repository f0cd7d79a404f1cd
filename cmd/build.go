package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/patternlab/internal/build"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Export the style guide as a static site",
	Long: `Render every pattern and write the static style guide to the public
directory: pattern pages with their escaped markup and template source,
view-all pages, the viewer data file and the source assets.

Files whose content did not change are left untouched.

Examples:
  patternlab build                    # Export to the configured publicDir
  patternlab build --public ./dist    # Export somewhere else
  patternlab build --no-cache         # Set the cache buster to 0`,
	RunE: runBuild,
}

var (
	buildPublic  string
	buildNoCache bool
	buildWorkers int
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildPublic, "public", "p", "", "Output directory (overrides publicDir)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Disable the cache buster")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "Concurrent page renderers (default: number of CPUs)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd, buildPublic)
	if err != nil {
		return err
	}

	exporter := build.NewExporter(session, build.Options{
		Workers: buildWorkers,
		NoCache: buildNoCache,
	})

	result, err := exporter.Export(cmd.Context())
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(),
			"Exported %d patterns, %d view-all pages and %d assets to %s (%d files, %d unchanged) in %s\n",
			result.Patterns, result.ViewAll, result.Assets, session.PublicPath(),
			len(result.Files), result.Unchanged, result.Duration.Round(1e6))
	}

	metrics := exporter.Metrics()
	if snapshot := metrics.GetSnapshot(); snapshot.TotalPatterns > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f%% of %d pages rendered, %s average\n",
			metrics.GetSuccessRate(), snapshot.TotalPatterns, snapshot.AverageDuration.Round(1e3))
	}
	return err
}
