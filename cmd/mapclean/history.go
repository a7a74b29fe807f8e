package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kimchi-Robotics/map-post-processing/internal/config"
	"github.com/Kimchi-Robotics/map-post-processing/internal/database"
	"github.com/Kimchi-Robotics/map-post-processing/internal/model"
)

// NewHistoryCmd creates the history command.
// This command lists past cleaning runs recorded in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [map]",
		Short: "List past cleaning runs",
		Long: `History lists cleaning runs recorded by previous invocations of
'mapclean clean'. With a map path argument, only runs for that map are
shown; results are useful for comparing parameter choices across
cleaning passes of the same floor.

Examples:
  # Show the most recent runs across all maps
  mapclean history

  # Show runs for one map
  mapclean history floor2.pgm

  # Show more entries, as JSON
  mapclean history --limit 50 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output run history in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Opening read-only: an empty history is reported, not created.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no run history yet (run 'mapclean clean' first): %w", err)
	}
	defer db.Close()

	var records []model.RunRecord
	if len(args) == 1 {
		records, err = db.RunsFor(cmd.Context(), args[0], limit)
	} else {
		records, err = db.ListRuns(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cleaning runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLEANED AT\tINPUT\tSIZE\tMIN AREA\tREGIONS\tREMOVED")
	for _, rec := range records {
		s := rec.Summary
		fmt.Fprintf(w, "%d\t%s\t%s\t%dx%d\t%g\t%d\t%d\n",
			rec.ID,
			s.DateCleaned.Local().Format(time.DateTime),
			s.InputPath,
			s.Width, s.Height,
			s.Params.MinArea,
			s.RegionsFound,
			s.RegionsRemoved,
		)
	}
	return w.Flush()
}
