// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MarketAnalysis groups the reporting summaries derived from the frequency table
type MarketAnalysis struct {
	Categories []CategoryRollup `json:"categories"`
	Clusters   []ClusterSummary `json:"clusters"`
	Trends     TrendBuckets     `json:"trends"`
	Seniority  []SeniorityCount `json:"seniority"`
}

// CategoryRollup sums frequencies of the skills grouped under one category
type CategoryRollup struct {
	Category       string           `json:"category"`
	TotalSkills    int              `json:"total_skills"`
	TotalFrequency int              `json:"total_frequency"`
	Skills         []SkillFrequency `json:"skills"`
}

// ClusterSummary measures how present a role archetype is in the corpus
type ClusterSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SkillsFound []string `json:"skills_found"`
	Coverage    float64  `json:"coverage"`
	Strength    int      `json:"strength"`
}

// TrendBuckets partitions skills by demand percentage
type TrendBuckets struct {
	Explosive []TrendSkill `json:"explosive"`
	Hot       []TrendSkill `json:"hot"`
	Stable    []TrendSkill `json:"stable"`
}

// TrendSkill is a skill placed in a trend bucket
type TrendSkill struct {
	Skill      string  `json:"skill"`
	Percentage float64 `json:"percentage"`
	Label      string  `json:"label"`
}

// SeniorityCount counts listings per experience level
type SeniorityCount struct {
	ExperienceLevel string `json:"experience_level"`
	Listings        int    `json:"listings"`
}
