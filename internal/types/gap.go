// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// GapReport compares a user's skills against the most demanded market skills.
// Recomputed on every run; never persisted by the core.
type GapReport struct {
	UserID              string   `json:"user_id"`
	SkillsDemanded      []string `json:"skills_demanded"`
	SkillsCovered       []string `json:"skills_covered"`
	SkillsMissing       []string `json:"skills_missing"`
	SkillsUnused        []string `json:"skills_unused"`
	SkillsTargetCovered []string `json:"skills_target_covered"`
	TotalDemanded       int      `json:"total_demanded"`
	CoverageCount       int      `json:"coverage_count"`
	GapCount            int      `json:"gap_count"`
}
