package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cinescore/internal/core"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var weights core.Weights
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Look up one movie and print its ratings and score",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			defer logger.Sync()

			finder, err := ctx.newFinder(cfg, logger)
			if err != nil {
				return err
			}

			report, err := finder.FindMovie(cmd.Context(), strings.Join(args, " "), weights)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			return printReport(cmd, report)
		},
	}

	cmd.Flags().Float64Var(&weights.MovieDB, "movie-db", 1, "Weight of the TMDB vote average")
	cmd.Flags().Float64Var(&weights.IMDb, "imdb", 1, "Weight of the IMDb rating")
	cmd.Flags().Float64Var(&weights.RottenTomatoes, "rotten", 1, "Weight of the Rotten Tomatoes score")
	cmd.Flags().Float64Var(&weights.Metacritic, "metacritic", 1, "Weight of the Metacritic rating")
	cmd.Flags().Float64Var(&weights.Metascore, "metascore", 1, "Weight of the Metascore")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	return cmd
}

func printReport(cmd *cobra.Command, report *core.Report) error {
	out := cmd.OutOrStdout()
	if !report.Found {
		fmt.Fprintf(out, "No '%s' movie found\n", report.Query)
		return nil
	}

	fmt.Fprintf(out, "%s (%s)\n", report.Title, report.Release)
	if report.PosterURL != "" {
		fmt.Fprintln(out, report.PosterURL)
	}

	rows := make([][]string, 0, len(report.Ratings))
	for _, line := range report.Ratings {
		rows = append(rows, []string{line.Source, line.Value})
	}
	fmt.Fprintln(out, renderTable([]string{"Source", "Rating"}, rows, []columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Your rating: %s\n", report.Score)

	if len(report.Similar) > 0 {
		fmt.Fprintln(out, "Similar movies:")
		for _, s := range report.Similar {
			fmt.Fprintf(out, "  %s\n", s.Title)
		}
	}
	return nil
}
