// Package recommend turns a gap report into a prioritized learning plan: critical skills to
// learn, skills to reinforce, matching courses from the resource catalog, objective paths and
// a next step.
package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/types"
)

const (
	// FallbackMessage is the single matched-resource entry used when no course matches
	FallbackMessage = "No se encontraron cursos específicos, revisa las rutas generales en 'Recursos'."
	// DefaultNextStep is used when there is no critical skill to learn
	DefaultNextStep = "Definir skills objetivo"

	maxActions = 3
)

// Config controls the size of a recommendation
type Config struct {
	MaxCritical  int
	MaxReinforce int
	// Now stamps generated recommendations; defaults to time.Now
	Now func() time.Time
}

// DefaultConfig returns the standard limits: five critical skills and three to reinforce
func DefaultConfig() *Config {
	return &Config{MaxCritical: 5, MaxReinforce: 3, Now: time.Now}
}

// Generator builds recommendations from gap reports. It holds only read-only data and can be
// shared across goroutines.
type Generator struct {
	catalog *types.Catalog
	paths   []dictionary.ObjectivePath
	config  Config
}

// NewGenerator creates a generator over a resource catalog and objective paths.
// A nil config uses DefaultConfig.
func NewGenerator(catalog *types.Catalog, paths []dictionary.ObjectivePath, config *Config) *Generator {
	cfg := *DefaultConfig()
	if config != nil {
		if config.MaxCritical > 0 {
			cfg.MaxCritical = config.MaxCritical
		}
		if config.MaxReinforce > 0 {
			cfg.MaxReinforce = config.MaxReinforce
		}
		if config.Now != nil {
			cfg.Now = config.Now
		}
	}
	if catalog == nil {
		catalog = &types.Catalog{}
	}
	return &Generator{catalog: catalog, paths: paths, config: cfg}
}

// Generate builds the recommendation for profile from its gap report. Critical skills are the
// first missing skills in report order and are never re-sorted, so the same profile and matrix
// always give the same list. Generate does not touch the profile; see AppendHistory.
func (g *Generator) Generate(profile *types.UserProfile, report *types.GapReport) *types.Recommendation {
	var missing, covered, objectives []string
	userID := ""
	if report != nil {
		missing = report.SkillsMissing
		covered = report.SkillsCovered
		userID = report.UserID
	}
	if profile != nil {
		objectives = profile.Objectives
		if userID == "" {
			userID = profile.UserID
		}
	}

	critical := head(missing, g.config.MaxCritical)
	return &types.Recommendation{
		UserID:            userID,
		GeneratedAt:       g.config.Now(),
		SkillsCritical:    critical,
		SkillsToReinforce: head(covered, g.config.MaxReinforce),
		MatchedResources:  MatchResources(g.catalog, critical),
		ObjectiveMatches:  MatchObjectives(g.paths, objectives),
		Actions:           Actions(critical),
		NextStep:          NextStep(critical),
	}
}

// GenerateFromMissing is the simplified path used at registration time, when only the missing
// skills are known
func (g *Generator) GenerateFromMissing(userID string, missing []string) *types.Recommendation {
	return g.Generate(nil, &types.GapReport{UserID: userID, SkillsMissing: missing})
}

// MatchResources pairs each skill with every course having a tag that contains the skill name,
// case-insensitively. Skills keep their order, courses keep catalog order. When nothing matches
// a single fallback entry is returned.
func MatchResources(catalog *types.Catalog, skills []string) []types.MatchedResource {
	matched := []types.MatchedResource{}
	if catalog != nil {
		for _, skill := range skills {
			needle := strings.ToLower(strings.TrimSpace(skill))
			if needle == "" {
				continue
			}
			for _, course := range catalog.Courses {
				if !courseCovers(course, needle) {
					continue
				}
				matched = append(matched, types.MatchedResource{
					Skill:      skill,
					CourseName: course.Name,
					Platform:   course.Platform,
					Level:      course.Level,
					URL:        course.URL,
				})
			}
		}
	}

	if len(matched) == 0 {
		return []types.MatchedResource{{Message: FallbackMessage}}
	}
	return matched
}

func courseCovers(course types.Course, needle string) bool {
	for _, tag := range course.Skills {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// MatchObjectives maps each free-text objective to the first path with a keyword contained in
// it. Objectives matching no path are left out.
func MatchObjectives(paths []dictionary.ObjectivePath, objectives []string) []types.ObjectiveMatch {
	matches := []types.ObjectiveMatch{}
	for _, objective := range objectives {
		lower := strings.ToLower(objective)
		for _, p := range paths {
			if containsAny(lower, p.Keywords) {
				matches = append(matches, types.ObjectiveMatch{
					Objective:         objective,
					Path:              p.Name,
					SkillsRecommended: append([]string(nil), p.Skills...),
				})
				break
			}
		}
	}
	return matches
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Actions suggests a course or certification for each of the first three critical skills
func Actions(critical []string) []string {
	top := head(critical, maxActions)
	actions := make([]string, len(top))
	for i, skill := range top {
		actions[i] = fmt.Sprintf("Curso/certificación en %s", skill)
	}
	return actions
}

// NextStep names the first critical skill, or DefaultNextStep when there is none
func NextStep(critical []string) string {
	if len(critical) == 0 {
		return DefaultNextStep
	}
	return "Aprender " + critical[0]
}

// head returns a copy of the first n values
func head(values []string, n int) []string {
	if n > len(values) {
		n = len(values)
	}
	if n < 0 {
		n = 0
	}
	return append([]string{}, values[:n]...)
}
