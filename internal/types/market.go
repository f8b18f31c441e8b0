// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SkillFrequency is one row of the corpus-wide frequency table
type SkillFrequency struct {
	Skill      string  `json:"skill"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// Importance tiers, highest priority first
const (
	ImportanceCritical = "Crítica"
	ImportanceHigh     = "Alta"
	ImportanceMedium   = "Media"
	ImportanceLow      = "Baja"
)

// Matrix recommendation texts
const (
	RecommendationMaintain = "Mantener y profundizar"
	RecommendationUrgent   = "Aprender urgentemente"
	RecommendationSoon     = "Aprender pronto"
	RecommendationOptional = "Opcional"
)

// CompetencyMatrixRow is one skill of the market view
type CompetencyMatrixRow struct {
	Skill            string  `json:"skill"`
	FrequencyMarket  int     `json:"frequency_market"`
	PercentageMarket float64 `json:"percentage_market"`
	UserHas          bool    `json:"user_has"`
	Importance       string  `json:"importance"`
	Recommendation   string  `json:"recommendation"`
}

// SeniorityFrequency counts listings mentioning a skill at a given experience level
type SeniorityFrequency struct {
	Skill           string `json:"skill"`
	ExperienceLevel string `json:"experience_level"`
	Frequency       int    `json:"frequency"`
}

// MarketSnapshot is the full artifact produced by one pipeline run
type MarketSnapshot struct {
	RunID             string                `json:"run_id"`
	GeneratedAt       time.Time             `json:"generated_at"`
	TotalListings     int                   `json:"total_listings"`
	SkippedListings   int                   `json:"skipped_listings"`
	Frequencies       []SkillFrequency      `json:"frequencies"`
	Matrix            []CompetencyMatrixRow `json:"matrix"`
	Analysis          *MarketAnalysis       `json:"analysis"`
	SkillsBySeniority []SeniorityFrequency  `json:"skills_by_seniority"`
}
