package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/types"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate learning recommendations for one or more users",
	Long: `Computes each user's gap against the latest market snapshot, selects critical skills and
matching courses, appends the result to the user's recommendation history and publishes it when a
broker is configured. Several users are processed concurrently.`,
	RunE: runRecommend,
}

var (
	recommendUsers    []string
	recommendAll      bool
	recommendSnapshot string
	recommendCatalog  string
	recommendWorkers  int
	recommendOutDir   string
)

func init() {
	recommendCmd.Flags().StringSliceVarP(&recommendUsers, "user", "u", nil, "User ids to process")
	recommendCmd.Flags().BoolVar(&recommendAll, "all", false, "Process every stored user")
	recommendCmd.Flags().StringVarP(&recommendSnapshot, "snapshot", "s", "", "Path to market_snapshot.json; defaults to the one in output_dir")
	recommendCmd.Flags().StringVar(&recommendCatalog, "catalog", "", "Learning resource catalog; defaults to the configured catalog")
	recommendCmd.Flags().IntVarP(&recommendWorkers, "workers", "w", 0, "Users processed concurrently; defaults to the configured workers")
	recommendCmd.Flags().StringVarP(&recommendOutDir, "out", "o", "", "Also write each recommendation JSON to this directory")

	recommendCmd.MarkFlagsOneRequired("user", "all")
	recommendCmd.MarkFlagsMutuallyExclusive("user", "all")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
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

	catalogPath := recommendCatalog
	if catalogPath == "" {
		catalogPath = cfg.Catalog
	}
	recommender, err := newRecommender(b, set, catalogPath)
	if err != nil {
		return err
	}

	snapshot, err := b.snapshots(snapshotPath(recommendSnapshot)).LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	userIDs := recommendUsers
	if recommendAll {
		if userIDs, err = recommender.Profiles.List(ctx); err != nil {
			return err
		}
	}

	workers := recommendWorkers
	if workers == 0 {
		workers = cfg.Workers
	}
	result, err := recommender.RecommendAll(ctx, userIDs, snapshot.Matrix, workers)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	for _, userID := range sortedKeys(result.Recommendations) {
		rec := result.Recommendations[userID]
		printer.PrintRecommendation(rec)
		if recommendOutDir != "" {
			if err := writeRecommendation(recommendOutDir, rec); err != nil {
				return err
			}
		}
	}

	for _, userID := range sortedKeys(result.Errors) {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s: %v\n", userID, result.Errors[userID])
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d of %d users failed", len(result.Errors), len(userIDs))
	}
	return nil
}

func writeRecommendation(dir string, rec *types.Recommendation) error {
	path := filepath.Join(dir, fmt.Sprintf("recommendation_%s.json", rec.UserID))
	return pipeline.WriteJSON(path, schemafiles.Recommendation, rec)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
