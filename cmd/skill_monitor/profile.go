package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/scoring"
	"github.com/jonathan/skill-monitor/internal/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new user profile",
	RunE:  runProfileCreate,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Print a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored user ids",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileAddSkillsCmd = &cobra.Command{
	Use:   "add-skills <user-id>",
	Short: "Add skills to a profile's current or target set",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAddSkills,
}

var profileScoresCmd = &cobra.Command{
	Use:   "scores <user-id>",
	Short: "Score each of the user's skills against market demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileScores,
}

var (
	createName       string
	createID         string
	createCareer     string
	createLevel      string
	createYears      int
	createSkills     []string
	createTargets    []string
	createObjectives []string

	addSkillsKind string
	addSkills     []string

	scoresSnapshot string
)

func init() {
	profileCreateCmd.Flags().StringVar(&createName, "name", "", "Full name (required)")
	profileCreateCmd.Flags().StringVar(&createID, "id", "", "User id; derived from the name when empty")
	profileCreateCmd.Flags().StringVar(&createCareer, "career", "", "Career or degree")
	profileCreateCmd.Flags().StringVar(&createLevel, "level", "", "Experience level: Junior, Semi-Senior or Senior")
	profileCreateCmd.Flags().IntVar(&createYears, "years", 0, "Years of experience")
	profileCreateCmd.Flags().StringSliceVar(&createSkills, "skills", nil, "Current skills")
	profileCreateCmd.Flags().StringSliceVar(&createTargets, "targets", nil, "Target skills")
	profileCreateCmd.Flags().StringArrayVar(&createObjectives, "objective", nil, "Career objective (repeatable)")
	if err := profileCreateCmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("failed to mark name flag as required: %v", err))
	}

	profileAddSkillsCmd.Flags().StringVar(&addSkillsKind, "kind", "current", "Skill set to extend: current or target")
	profileAddSkillsCmd.Flags().StringSliceVar(&addSkills, "skills", nil, "Skills to add (required)")
	if err := profileAddSkillsCmd.MarkFlagRequired("skills"); err != nil {
		panic(fmt.Sprintf("failed to mark skills flag as required: %v", err))
	}

	profileScoresCmd.Flags().StringVarP(&scoresSnapshot, "snapshot", "s", "", "Path to market_snapshot.json; defaults to the one in output_dir")

	profileCmd.AddCommand(profileCreateCmd, profileShowCmd, profileListCmd, profileAddSkillsCmd, profileScoresCmd)
	rootCmd.AddCommand(profileCmd)
}

// profileService opens the backends and returns a profile service over them
func profileService(cmd *cobra.Command) (*profile.Service, *parsing.Canonicalizer, *backends, error) {
	set, err := loadDictionary()
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := openBackends(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	canon := parsing.NewCanonicalizer(set)
	return profile.NewService(b.profileStore(), canon, logger), canon, b, nil
}

func runProfileCreate(cmd *cobra.Command, _ []string) error {
	svc, _, b, err := profileService(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := svc.Create(cmd.Context(), &types.CreateProfileRequest{
		UserID:          createID,
		Name:            createName,
		Career:          createCareer,
		ExperienceLevel: createLevel,
		ExperienceYears: createYears,
		SkillsCurrent:   createSkills,
		SkillsTarget:    createTargets,
		Objectives:      createObjectives,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Created profile %s (%d current skills, %d target skills)\n",
		p.UserID, len(p.SkillsCurrent), len(p.SkillsTarget))
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	svc, _, b, err := profileService(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintProfile(p)
	return nil
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	svc, _, b, err := profileService(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	ids, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		_, _ = fmt.Fprintln(os.Stdout, id)
	}
	return nil
}

func runProfileAddSkills(cmd *cobra.Command, args []string) error {
	svc, _, b, err := profileService(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := svc.AddSkills(cmd.Context(), args[0], &types.AddSkillsRequest{Kind: addSkillsKind, Skills: addSkills})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Updated %s: %d current skills, %d target skills\n",
		p.UserID, len(p.SkillsCurrent), len(p.SkillsTarget))
	return nil
}

func runProfileScores(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, canon, b, err := profileService(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	p, err := svc.Get(ctx, args[0])
	if err != nil {
		return err
	}
	snapshot, err := b.snapshots(snapshotPath(scoresSnapshot)).LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	observability.NewPrinter(os.Stdout).PrintScores(scoring.Score(p, snapshot.Matrix, canon))
	return nil
}
