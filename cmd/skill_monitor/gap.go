package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/gap"
	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/profile"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Compare a user's skills against the most demanded market skills",
	RunE:  runGap,
}

var (
	gapUser     string
	gapSnapshot string
	gapTopN     int
	gapOutput   string
)

func init() {
	gapCmd.Flags().StringVarP(&gapUser, "user", "u", "", "User id (required)")
	gapCmd.Flags().StringVarP(&gapSnapshot, "snapshot", "s", "", "Path to market_snapshot.json; defaults to the one in output_dir")
	gapCmd.Flags().IntVarP(&gapTopN, "top-n", "n", 0, "Number of demanded skills; defaults to the configured top_n")
	gapCmd.Flags().StringVarP(&gapOutput, "out", "o", "", "Also write the gap report JSON here")

	if err := gapCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(gapCmd)
}

// snapshotPath returns the flag value or the snapshot in the configured output directory
func snapshotPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(cfg.OutputDir, pipeline.SnapshotFile)
}

func runGap(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	set, err := loadDictionary()
	if err != nil {
		return err
	}
	b, err := openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	snapshot, err := b.snapshots(snapshotPath(gapSnapshot)).LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	canon := parsing.NewCanonicalizer(set)
	p, err := profile.NewService(b.profileStore(), canon, logger).Get(ctx, gapUser)
	if err != nil {
		return err
	}
	topN := gapTopN
	if topN == 0 {
		topN = cfg.TopN
	}
	report := gap.Compute(p, snapshot.Matrix, topN, canon)

	if gapOutput != "" {
		if err := pipeline.WriteJSON(gapOutput, schemafiles.GapReport, report); err != nil {
			return err
		}
	}
	observability.NewPrinter(os.Stdout).PrintGap(report)
	return nil
}
