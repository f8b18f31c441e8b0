package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the market pipeline over a listing corpus",
	Long: `Loads the listing corpus, extracts skills, aggregates the frequency table, builds the
competency matrix and the market analysis, and writes every artifact as JSON. When a database,
cache or broker is configured the snapshot is also persisted there.`,
	RunE: runRun,
}

var (
	runListings   []string
	runUserSkills []string
	runOutputDir  string
	runVerbose    bool
)

func init() {
	runCmd.Flags().StringSliceVarP(&runListings, "listings", "l", nil, "Listing corpus files or directories (CSV or JSON); defaults to the configured listings")
	runCmd.Flags().StringSliceVar(&runUserSkills, "user-skills", nil, "Skills to mark as held in an extra "+pipeline.UserMatrixFile+" artifact")
	runCmd.Flags().StringVarP(&runOutputDir, "out", "o", "", "Output directory for artifacts; defaults to the configured output_dir")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print summaries of each stage")

	rootCmd.AddCommand(runCmd)
}

// listingPaths returns the flag value or the configured corpus
func listingPaths(flagValue []string) ([]string, error) {
	if len(flagValue) > 0 {
		return flagValue, nil
	}
	if cfg.Listings != "" {
		return []string{cfg.Listings}, nil
	}
	return nil, fmt.Errorf("no listing corpus: pass --listings or set 'listings' in the config")
}

func runRun(cmd *cobra.Command, _ []string) error {
	paths, err := listingPaths(runListings)
	if err != nil {
		return err
	}
	outDir := runOutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	set, err := loadDictionary()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	p := pipeline.New(set,
		pipeline.WithLogger(logger),
		pipeline.WithStore(b.runStore()),
		pipeline.WithCache(b.cache),
		pipeline.WithMetrics(b.metrics),
	)

	result, err := p.Run(ctx, pipeline.RunOptions{
		ListingPaths: paths,
		UserSkills:   runUserSkills,
		OutputDir:    outDir,
		Verbose:      runVerbose,
		Out:          os.Stdout,
		OnProgress: func(e pipeline.ProgressEvent) {
			if runVerbose {
				_, _ = fmt.Fprintf(os.Stdout, "[%s] %s\n", e.Step, e.Message)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("market run failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Run %s: %d listings, %d skipped, %d skills. Artifacts in %s\n",
		result.Snapshot.RunID, result.Snapshot.TotalListings, result.Snapshot.SkippedListings,
		len(result.Snapshot.Frequencies), outDir)
	return nil
}
