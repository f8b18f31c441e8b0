// Package market aggregates extracted listings into the corpus-wide skill frequency table and
// derives the competency matrix from it.
package market

import (
	"math"
	"sort"

	"github.com/jonathan/skill-monitor/internal/types"
)

// Aggregate counts, for every skill, the number of listings mentioning it. Skills are visited
// technical first then management, listing by listing in corpus order; the table is sorted by
// frequency descending with ties kept in that first-appearance order. An empty corpus yields
// an empty table.
func Aggregate(extracted []types.ExtractedListing) []types.SkillFrequency {
	counts := make(map[string]int)
	order := make([]string, 0)

	for i := range extracted {
		seen := make(map[string]bool)
		for _, skill := range extracted[i].AllSkills() {
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			if _, ok := counts[skill]; !ok {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	total := len(extracted)
	table := make([]types.SkillFrequency, 0, len(order))
	for _, skill := range order {
		table = append(table, types.SkillFrequency{
			Skill:      skill,
			Frequency:  counts[skill],
			Percentage: Percentage(counts[skill], total),
		})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Frequency > table[j].Frequency
	})

	return table
}

// Percentage returns count/total*100 rounded to two decimals, or 0 when total is 0
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(count) / float64(total) * 100)
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
