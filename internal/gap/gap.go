// Package gap compares a user's declared skills against the most demanded market skills.
package gap

import (
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/types"
)

// DefaultTopN is the number of matrix rows treated as demanded when no explicit value is given
const DefaultTopN = 20

// Compute builds the gap report of profile against the first topN matrix rows (topN <= 0 means
// DefaultTopN). User skills are canonicalized with canon before comparison; a nil canon only
// trims them. Covered, missing and target-covered skills follow matrix order, unused skills
// follow profile order. An empty matrix or skill set yields an empty partition, never an error.
func Compute(profile *types.UserProfile, matrix []types.CompetencyMatrixRow, topN int, canon *parsing.Canonicalizer) *types.GapReport {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > len(matrix) {
		topN = len(matrix)
	}

	report := &types.GapReport{
		SkillsDemanded:      make([]string, 0, topN),
		SkillsCovered:       []string{},
		SkillsMissing:       []string{},
		SkillsUnused:        []string{},
		SkillsTargetCovered: []string{},
	}

	var current, target []string
	if profile != nil {
		report.UserID = profile.UserID
		current = canon.CanonicalizeAll(profile.SkillsCurrent)
		target = canon.CanonicalizeAll(profile.SkillsTarget)
	}
	has := toSet(current)
	wants := toSet(target)

	demanded := make(map[string]bool, topN)
	for _, row := range matrix[:topN] {
		if demanded[row.Skill] {
			continue
		}
		demanded[row.Skill] = true
		report.SkillsDemanded = append(report.SkillsDemanded, row.Skill)

		if has[row.Skill] {
			report.SkillsCovered = append(report.SkillsCovered, row.Skill)
		} else {
			report.SkillsMissing = append(report.SkillsMissing, row.Skill)
		}
		if wants[row.Skill] {
			report.SkillsTargetCovered = append(report.SkillsTargetCovered, row.Skill)
		}
	}

	for _, s := range current {
		if !demanded[s] {
			report.SkillsUnused = append(report.SkillsUnused, s)
		}
	}

	report.TotalDemanded = len(report.SkillsDemanded)
	report.CoverageCount = len(report.SkillsCovered)
	report.GapCount = len(report.SkillsMissing)
	return report
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
