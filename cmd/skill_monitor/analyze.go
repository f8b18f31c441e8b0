package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/ingestion"
	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify the market into categories, role clusters and trend buckets",
	Long: `Runs extraction and aggregation over the listing corpus and writes the market analysis
(category rollups, role clusters, trend buckets, seniority distribution) and the skill counts per
experience level. Nothing is persisted to the database or cache.`,
	RunE: runAnalyze,
}

var (
	analyzeListings []string
	analyzeOutDir   string
	analyzeVerbose  bool
)

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzeListings, "listings", "l", nil, "Listing corpus files or directories (CSV or JSON)")
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", "", "Output directory; defaults to the configured output_dir")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print the analysis")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	paths, err := listingPaths(analyzeListings)
	if err != nil {
		return err
	}
	outDir := analyzeOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	set, err := loadDictionary()
	if err != nil {
		return err
	}

	listings, _, err := ingestion.NewLoader(logger).Load(paths...)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	result, err := pipeline.New(set, pipeline.WithLogger(logger)).Analyze(listings)
	if err != nil {
		return err
	}

	snapshot := result.Snapshot
	if err := pipeline.WriteJSON(filepath.Join(outDir, pipeline.AnalysisFile), schemafiles.MarketAnalysis, snapshot.Analysis); err != nil {
		return err
	}
	if err := pipeline.WriteJSON(filepath.Join(outDir, pipeline.SkillsBySeniorityFile), "", snapshot.SkillsBySeniority); err != nil {
		return err
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintAnalysis(snapshot.Analysis)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Analyzed %d listings; analysis written to %s\n", snapshot.TotalListings, outDir)
	return nil
}
