// Package types provides type definitions for structured data used throughout the skill-monitor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Recommendation is the learning plan produced for one user
type Recommendation struct {
	UserID            string            `json:"user_id"`
	GeneratedAt       time.Time         `json:"generated_at"`
	SkillsCritical    []string          `json:"skills_critical"`
	SkillsToReinforce []string          `json:"skills_to_reinforce"`
	MatchedResources  []MatchedResource `json:"matched_resources"`
	ObjectiveMatches  []ObjectiveMatch  `json:"objective_matches"`
	Actions           []string          `json:"actions"`
	NextStep          string            `json:"next_step"`
}

// MatchedResource pairs a skill with a course. A fallback entry carries only Message.
type MatchedResource struct {
	Skill      string `json:"skill,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Level      string `json:"level,omitempty"`
	URL        string `json:"url,omitempty"`
	Message    string `json:"message,omitempty"`
}

// IsFallback reports whether the entry is the general-resources fallback
func (m MatchedResource) IsFallback() bool {
	return m.CourseName == "" && m.Message != ""
}

// ObjectiveMatch links a free-text career objective to a suggested skill path
type ObjectiveMatch struct {
	Objective         string   `json:"objective"`
	Path              string   `json:"path"`
	SkillsRecommended []string `json:"skills_recommended"`
}

// Catalog is the learning-resource catalog
type Catalog struct {
	Courses []Course `json:"courses"`
}

// Course is a single skill-tagged learning resource
type Course struct {
	Name     string   `json:"name"`
	Platform string   `json:"platform"`
	Level    string   `json:"level"`
	URL      string   `json:"url"`
	Skills   []string `json:"skills"`
	Free     bool     `json:"free"`
}

// SkillScore is the deterministic score of one declared skill
type SkillScore struct {
	Skill    string `json:"skill"`
	Score    int    `json:"score"`
	Category string `json:"category"`
}
