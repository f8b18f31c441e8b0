package dictionary

import (
	"fmt"
	"strings"
)

// LevelRule lists the keywords that tag a listing with an experience level
type LevelRule struct {
	Level    string   `yaml:"level" json:"level"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// CategoryRule classifies a listing into a job category.
// A rule matches when any listed skill was extracted or the title contains any fragment;
// with RequireAll both conditions must hold.
type CategoryRule struct {
	Name          string   `yaml:"name" json:"name"`
	AnySkill      []string `yaml:"any_skill" json:"any_skill"`
	TitleContains []string `yaml:"title_contains" json:"title_contains"`
	RequireAll    bool     `yaml:"require_all" json:"require_all"`
}

// SkillGroup is a descriptive grouping of skills used for category rollups
type SkillGroup struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

// Cluster is a bundle of skills representing a professional role archetype
type Cluster struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Skills      []string `yaml:"skills" json:"skills"`
}

// ObjectivePath suggests skills for career objectives mentioning any of its keywords
type ObjectivePath struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Skills   []string `yaml:"skills" json:"skills"`
}

// Matches reports whether the rule applies to a listing title and its extracted skills
func (r CategoryRule) Matches(title string, skills map[string]bool) bool {
	skillHit := false
	for _, s := range r.AnySkill {
		if skills[s] {
			skillHit = true
			break
		}
	}

	titleHit := false
	lowerTitle := strings.ToLower(title)
	for _, fragment := range r.TitleContains {
		if fragment != "" && strings.Contains(lowerTitle, strings.ToLower(fragment)) {
			titleHit = true
			break
		}
	}

	if r.RequireAll {
		return (len(r.AnySkill) == 0 || skillHit) && (len(r.TitleContains) == 0 || titleHit)
	}
	return skillHit || titleHit
}

// validateLevelRules checks experience rules have a level and at least one keyword
func validateLevelRules(rules []LevelRule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Level) == "" {
			return fmt.Errorf("experience rule %d has no level", i)
		}
		if seen[r.Level] {
			return fmt.Errorf("duplicate experience level %q", r.Level)
		}
		seen[r.Level] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("experience level %q has no keywords", r.Level)
		}
	}
	return nil
}

// lowerAll returns a lowercased copy of values
func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
