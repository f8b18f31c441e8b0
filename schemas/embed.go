// Package schemas embeds the JSON Schemas describing every artifact the pipeline writes.
package schemas

import "embed"

// FS holds the *.schema.json files
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	SkillFrequencies = "skill_frequencies.schema.json"
	CompetencyMatrix = "competency_matrix.schema.json"
	MarketAnalysis   = "market_analysis.schema.json"
	MarketSnapshot   = "market_snapshot.schema.json"
	GapReport        = "gap_report.schema.json"
	Recommendation   = "recommendation.schema.json"
	UserProfile      = "user_profile.schema.json"
)
