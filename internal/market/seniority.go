package market

import (
	"sort"

	"github.com/jonathan/skill-monitor/internal/types"
)

// levelOrder breaks frequency ties between experience levels of the same skill
var levelOrder = map[string]int{
	types.ExperienceSenior:      0,
	types.ExperienceSemiSenior:  1,
	types.ExperienceJunior:      2,
	types.ExperienceUnspecified: 3,
}

// SkillsBySeniority counts listings per (skill, experience level). Rows are ordered by skill
// ascending, then frequency descending.
func SkillsBySeniority(extracted []types.ExtractedListing) []types.SeniorityFrequency {
	type key struct{ skill, level string }
	counts := make(map[key]int)

	for i := range extracted {
		level := extracted[i].ExperienceLevel
		if level == "" {
			level = types.ExperienceUnspecified
		}
		seen := make(map[string]bool)
		for _, skill := range extracted[i].AllSkills() {
			if seen[skill] {
				continue
			}
			seen[skill] = true
			counts[key{skill, level}]++
		}
	}

	rows := make([]types.SeniorityFrequency, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, types.SeniorityFrequency{Skill: k.skill, ExperienceLevel: k.level, Frequency: n})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Skill != rows[j].Skill {
			return rows[i].Skill < rows[j].Skill
		}
		if rows[i].Frequency != rows[j].Frequency {
			return rows[i].Frequency > rows[j].Frequency
		}
		ri, rj := rank(rows[i].ExperienceLevel), rank(rows[j].ExperienceLevel)
		if ri != rj {
			return ri < rj
		}
		return rows[i].ExperienceLevel < rows[j].ExperienceLevel
	})

	return rows
}

func rank(level string) int {
	if r, ok := levelOrder[level]; ok {
		return r
	}
	return len(levelOrder)
}
