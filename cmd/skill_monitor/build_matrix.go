package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/market"
	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/schemas"
	"github.com/jonathan/skill-monitor/internal/types"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

var buildMatrixCmd = &cobra.Command{
	Use:   "build-matrix",
	Short: "Build the competency matrix from a frequency table",
	Long: `Reads a skill frequency table (as written by 'run') and classifies every skill into an
importance tier with its recommendation text. With --user or --user-skills the rows are marked
against the user's current skills.`,
	RunE: runBuildMatrix,
}

var (
	buildMatrixFrequencies string
	buildMatrixUser        string
	buildMatrixUserSkills  []string
	buildMatrixOutput      string
	buildMatrixVerbose     bool
)

func init() {
	buildMatrixCmd.Flags().StringVarP(&buildMatrixFrequencies, "frequencies", "f", "", "Path to skill_frequencies.json (required)")
	buildMatrixCmd.Flags().StringVarP(&buildMatrixUser, "user", "u", "", "User id whose current skills mark the matrix")
	buildMatrixCmd.Flags().StringSliceVar(&buildMatrixUserSkills, "user-skills", nil, "Skills to mark as held")
	buildMatrixCmd.Flags().StringVarP(&buildMatrixOutput, "out", "o", "", "Path to output competency matrix JSON (required)")
	buildMatrixCmd.Flags().BoolVarP(&buildMatrixVerbose, "verbose", "v", false, "Print the matrix")

	if err := buildMatrixCmd.MarkFlagRequired("frequencies"); err != nil {
		panic(fmt.Sprintf("failed to mark frequencies flag as required: %v", err))
	}
	if err := buildMatrixCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	buildMatrixCmd.MarkFlagsMutuallyExclusive("user", "user-skills")

	rootCmd.AddCommand(buildMatrixCmd)
}

// readFrequencies loads and validates a frequency table artifact
func readFrequencies(path string) ([]types.SkillFrequency, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &types.MissingInputError{Resource: "frequency table", ID: path, Cause: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read frequency table %s: %w", path, err)
	}
	if err := schemas.ValidateBytes(schemafiles.SkillFrequencies, data); err != nil {
		return nil, fmt.Errorf("frequency table %s is invalid: %w", path, err)
	}

	var freqs []types.SkillFrequency
	if err := json.Unmarshal(data, &freqs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal frequency table: %w", err)
	}
	return freqs, nil
}

func runBuildMatrix(cmd *cobra.Command, _ []string) error {
	freqs, err := readFrequencies(buildMatrixFrequencies)
	if err != nil {
		return err
	}
	if err := market.CheckInvariants(freqs); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %v; values are clamped\n", err)
	}

	userSkills := buildMatrixUserSkills
	if buildMatrixUser != "" {
		set, err := loadDictionary()
		if err != nil {
			return err
		}
		b, err := openBackends(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		svc := profile.NewService(b.profileStore(), parsing.NewCanonicalizer(set), logger)
		p, err := svc.Get(cmd.Context(), buildMatrixUser)
		if err != nil {
			return err
		}
		userSkills = p.SkillsCurrent
	}

	matrix := market.BuildMatrix(freqs, userSkills)
	if err := pipeline.WriteJSON(buildMatrixOutput, schemafiles.CompetencyMatrix, matrix); err != nil {
		return err
	}

	if buildMatrixVerbose {
		observability.NewPrinter(os.Stdout).PrintMatrix(matrix)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Successfully built competency matrix (%d skills) to %s\n", len(matrix), buildMatrixOutput)
	return nil
}
