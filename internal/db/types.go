package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a market pipeline run record
type Run struct {
	ID              uuid.UUID  `json:"id"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	TotalListings   int        `json:"total_listings"`
	SkippedListings int        `json:"skipped_listings"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ArtifactStep constants for known artifact types
const (
	StepFrequencies       = "skill_frequencies"
	StepMatrix            = "competency_matrix"
	StepAnalysis          = "market_analysis"
	StepSkillsBySeniority = "skills_by_seniority"
	StepSnapshot          = "market_snapshot"
)

// Artifact categories
const (
	CategoryMarket   = "market"
	CategoryAnalysis = "analysis"
)
