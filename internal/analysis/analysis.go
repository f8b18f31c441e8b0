// Package analysis builds the reporting summaries of a market snapshot: category rollups,
// role clusters, trend buckets and the seniority distribution. Nothing here feeds back into
// the competency matrix or gap analysis.
package analysis

import (
	"sort"

	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/types"
)

// Trend labels
const (
	LabelHighDemand   = "Alta Demanda"
	LabelMediumDemand = "Demanda Media"
	LabelSteadyDemand = "Demanda Estable"
)

// Trend bucket thresholds (strictly above) and the number of skills kept per bucket
const (
	explosiveAbove = 15.0
	hotAbove       = 5.0
	stableAbove    = 1.0
	trendBucketCap = 5
)

// Analyzer derives the reporting summaries from a dictionary set
type Analyzer struct {
	set *dictionary.Set
}

// NewAnalyzer creates an analyzer over the category groups and clusters of set
func NewAnalyzer(set *dictionary.Set) *Analyzer {
	return &Analyzer{set: set}
}

// Analyze builds every summary. Empty inputs give empty summaries.
func (a *Analyzer) Analyze(freqs []types.SkillFrequency, extracted []types.ExtractedListing) *types.MarketAnalysis {
	var groups []dictionary.SkillGroup
	var clusters []dictionary.Cluster
	if a != nil && a.set != nil {
		groups = a.set.SkillCategories
		clusters = a.set.Clusters
	}

	return &types.MarketAnalysis{
		Categories: CategoryRollups(groups, freqs),
		Clusters:   Clusters(clusters, freqs),
		Trends:     Trends(freqs),
		Seniority:  SeniorityDistribution(extracted),
	}
}

func index(freqs []types.SkillFrequency) map[string]types.SkillFrequency {
	byName := make(map[string]types.SkillFrequency, len(freqs))
	for _, f := range freqs {
		byName[f.Skill] = f
	}
	return byName
}

// CategoryRollups sums the frequencies of the skills present in each group. Groups with no
// present skill are omitted; skills inside a rollup are ordered by frequency descending.
func CategoryRollups(groups []dictionary.SkillGroup, freqs []types.SkillFrequency) []types.CategoryRollup {
	byName := index(freqs)
	rollups := make([]types.CategoryRollup, 0, len(groups))

	for _, g := range groups {
		present := make([]types.SkillFrequency, 0, len(g.Skills))
		total := 0
		for _, s := range g.Skills {
			f, ok := byName[s]
			if !ok {
				continue
			}
			present = append(present, f)
			total += f.Frequency
		}
		if len(present) == 0 {
			continue
		}

		sort.SliceStable(present, func(i, j int) bool {
			return present[i].Frequency > present[j].Frequency
		})
		rollups = append(rollups, types.CategoryRollup{
			Category:       g.Name,
			TotalSkills:    len(present),
			TotalFrequency: total,
			Skills:         present,
		})
	}
	return rollups
}

// Clusters measures each role cluster against the frequency table. Strength is the sum of the
// found skills' frequencies and coverage the found/defined ratio. Clusters without any found
// skill are omitted; the rest keep definition order.
func Clusters(clusters []dictionary.Cluster, freqs []types.SkillFrequency) []types.ClusterSummary {
	byName := index(freqs)
	summaries := make([]types.ClusterSummary, 0, len(clusters))

	for _, c := range clusters {
		found := make([]string, 0, len(c.Skills))
		strength := 0
		for _, s := range c.Skills {
			f, ok := byName[s]
			if !ok {
				continue
			}
			found = append(found, s)
			strength += f.Frequency
		}
		if len(found) == 0 {
			continue
		}

		summaries = append(summaries, types.ClusterSummary{
			Name:        c.Name,
			Description: c.Description,
			SkillsFound: found,
			Coverage:    float64(len(found)) / float64(len(c.Skills)),
			Strength:    strength,
		})
	}
	return summaries
}

// Trends buckets skills by percentage: explosive above 15, hot above 5, stable above 1.
// Each bucket keeps its top five by percentage.
func Trends(freqs []types.SkillFrequency) types.TrendBuckets {
	buckets := types.TrendBuckets{
		Explosive: []types.TrendSkill{},
		Hot:       []types.TrendSkill{},
		Stable:    []types.TrendSkill{},
	}

	for _, f := range freqs {
		switch {
		case f.Percentage > explosiveAbove:
			buckets.Explosive = append(buckets.Explosive, types.TrendSkill{Skill: f.Skill, Percentage: f.Percentage, Label: LabelHighDemand})
		case f.Percentage > hotAbove:
			buckets.Hot = append(buckets.Hot, types.TrendSkill{Skill: f.Skill, Percentage: f.Percentage, Label: LabelMediumDemand})
		case f.Percentage > stableAbove:
			buckets.Stable = append(buckets.Stable, types.TrendSkill{Skill: f.Skill, Percentage: f.Percentage, Label: LabelSteadyDemand})
		}
	}

	buckets.Explosive = topByPercentage(buckets.Explosive)
	buckets.Hot = topByPercentage(buckets.Hot)
	buckets.Stable = topByPercentage(buckets.Stable)
	return buckets
}

func topByPercentage(skills []types.TrendSkill) []types.TrendSkill {
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Percentage > skills[j].Percentage
	})
	if len(skills) > trendBucketCap {
		skills = skills[:trendBucketCap]
	}
	return skills
}

// seniorityLevels is the fixed reporting order
var seniorityLevels = []string{
	types.ExperienceSenior,
	types.ExperienceSemiSenior,
	types.ExperienceJunior,
	types.ExperienceUnspecified,
}

// SeniorityDistribution counts listings per experience level. All four levels are always
// reported, in the order Senior, Semi-Senior, Junior, unspecified.
func SeniorityDistribution(extracted []types.ExtractedListing) []types.SeniorityCount {
	counts := make(map[string]int, len(seniorityLevels))
	for i := range extracted {
		level := extracted[i].ExperienceLevel
		if level == "" {
			level = types.ExperienceUnspecified
		}
		counts[level]++
	}

	out := make([]types.SeniorityCount, 0, len(seniorityLevels))
	for _, level := range seniorityLevels {
		out = append(out, types.SeniorityCount{ExperienceLevel: level, Listings: counts[level]})
	}
	return out
}
