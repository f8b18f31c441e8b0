package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/extraction"
	"github.com/jonathan/skill-monitor/internal/ingestion"
	"github.com/jonathan/skill-monitor/internal/pipeline"
)

// ExtractedFile is the per-listing extraction artifact
const ExtractedFile = "extracted_listings.json"

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Extract skills, experience level and category from each listing",
	Long: `Loads the listing corpus and writes the consolidated listings, their metadata and the
per-listing extraction (technical skills, management skills, experience level, job category).`,
	RunE: runExtractSkills,
}

var (
	extractListings []string
	extractOutDir   string
)

func init() {
	extractSkillsCmd.Flags().StringSliceVarP(&extractListings, "listings", "l", nil, "Listing corpus files or directories (CSV or JSON)")
	extractSkillsCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Output directory (required)")

	if err := extractSkillsCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(_ *cobra.Command, _ []string) error {
	paths, err := listingPaths(extractListings)
	if err != nil {
		return err
	}
	set, err := loadDictionary()
	if err != nil {
		return err
	}

	listings, meta, err := ingestion.NewLoader(logger).Load(paths...)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	if err := ingestion.WriteOutput(extractOutDir, listings, meta); err != nil {
		return err
	}

	extracted, skipped := extraction.NewExtractor(set, logger).ExtractAll(listings)
	out := filepath.Join(extractOutDir, ExtractedFile)
	if err := pipeline.WriteJSON(out, "", extracted); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Extracted skills from %d listings (%d skipped) to %s\n", len(extracted), skipped, out)
	return nil
}
