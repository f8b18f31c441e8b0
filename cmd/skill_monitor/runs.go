package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent market runs recorded in the database",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var runsLimit int

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("no database configured: set database_url or DATABASE_URL")
	}
	b, err := openBackends(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	runs, err := b.db.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		_, _ = fmt.Fprintf(os.Stdout, "%s  %-9s  %s  listings=%d skipped=%d  %s\n",
			r.ID, r.Status, r.CreatedAt.Format(time.RFC3339), r.TotalListings, r.SkippedListings, r.Source)
	}
	return nil
}
