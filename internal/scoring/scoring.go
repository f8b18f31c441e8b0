// Package scoring rates each skill a user declares from their experience level and the skill's
// market demand. Scores are deterministic: the same profile and matrix always give the same
// result.
package scoring

import (
	"math"

	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/types"
)

// Score categories
const (
	CategoryHigh   = "Alta"
	CategoryNext   = "Próxima"
	CategoryUrgent = "Aprender urgente"
)

const (
	defaultBase   = 50
	demandWeight  = 0.25
	highThreshold = 80
	nextThreshold = 60
)

// levelBase is the starting score per experience level
var levelBase = map[string]int{
	types.ExperienceJunior:     40,
	types.ExperienceSemiSenior: 60,
	types.ExperienceSenior:     75,
}

// Score rates every current skill of profile in profile order. The score is the level base plus
// a quarter of the skill's market percentage, clamped to [0, 100]; skills absent from the
// matrix get the base alone.
func Score(profile *types.UserProfile, matrix []types.CompetencyMatrixRow, canon *parsing.Canonicalizer) []types.SkillScore {
	scores := []types.SkillScore{}
	if profile == nil {
		return scores
	}

	demand := make(map[string]float64, len(matrix))
	for _, row := range matrix {
		demand[row.Skill] = row.PercentageMarket
	}

	base, ok := levelBase[profile.ExperienceLevel]
	if !ok {
		base = defaultBase
	}

	for _, skill := range canon.CanonicalizeAll(profile.SkillsCurrent) {
		score := base + int(math.Round(demand[skill]*demandWeight))
		score = clamp(score, 0, 100)
		scores = append(scores, types.SkillScore{Skill: skill, Score: score, Category: Categorize(score)})
	}
	return scores
}

// Categorize maps a score to its category
func Categorize(score int) string {
	switch {
	case score >= highThreshold:
		return CategoryHigh
	case score >= nextThreshold:
		return CategoryNext
	default:
		return CategoryUrgent
	}
}

// Urgent returns the skills whose category is CategoryUrgent, in score order
func Urgent(scores []types.SkillScore) []string {
	urgent := []string{}
	for _, s := range scores {
		if s.Category == CategoryUrgent {
			urgent = append(urgent, s.Skill)
		}
	}
	return urgent
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
