// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxRecommendationHistory bounds UserProfile.RecommendationHistory
const MaxRecommendationHistory = 10

// UserProfile is the declared skill set and goals of one user
type UserProfile struct {
	UserID                   string         `json:"user_id" validate:"required,max=64,excludesall=/\\"`
	Name                     string         `json:"name" validate:"required"`
	Career                   string         `json:"career,omitempty"`
	ExperienceLevel          string         `json:"experience_level,omitempty" validate:"omitempty,oneof=Junior Semi-Senior Senior"`
	ExperienceYears          int            `json:"experience_years" validate:"gte=0"`
	SkillsCurrent            []string       `json:"skills_current"`
	SkillsTarget             []string       `json:"skills_target"`
	Objectives               []string       `json:"objectives"`
	Interests                []string       `json:"interests,omitempty"`
	RecommendationsGenerated int            `json:"recommendations_generated"`
	RecommendationHistory    []HistoryEntry `json:"recommendation_history" validate:"max=10"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
}

// HistoryEntry is a compact record of one recommendation run
type HistoryEntry struct {
	GeneratedAt    time.Time `json:"generated_at"`
	SkillsCritical []string  `json:"skills_critical"`
	NextStep       string    `json:"next_step"`
}

// Validate validates the profile at the ingestion boundary.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// CreateProfileRequest is the payload used to register a new user.
// An empty UserID is derived from Name.
type CreateProfileRequest struct {
	UserID          string   `json:"user_id,omitempty" validate:"omitempty,max=64,excludesall=/\\"`
	Name            string   `json:"name" validate:"required"`
	Career          string   `json:"career,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty" validate:"omitempty,oneof=Junior Semi-Senior Senior"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	SkillsCurrent   []string `json:"skills_current,omitempty"`
	SkillsTarget    []string `json:"skills_target,omitempty"`
	Objectives      []string `json:"objectives,omitempty"`
}

// Validate validates the CreateProfileRequest using the validator.
func (r *CreateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// AddSkillsRequest adds skills to a profile's current or target set
type AddSkillsRequest struct {
	Kind   string   `json:"kind" validate:"required,oneof=current target"`
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}

// Validate validates the AddSkillsRequest using the validator.
func (r *AddSkillsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateProfileRequest changes descriptive profile fields. Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Career          *string  `json:"career,omitempty"`
	ExperienceLevel *string  `json:"experience_level,omitempty" validate:"omitempty,oneof=Junior Semi-Senior Senior"`
	ExperienceYears *int     `json:"experience_years,omitempty" validate:"omitempty,gte=0"`
	Objectives      []string `json:"objectives,omitempty"`
	Interests       []string `json:"interests,omitempty"`
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
