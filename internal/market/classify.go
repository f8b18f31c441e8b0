package market

import "github.com/jonathan/skill-monitor/internal/types"

// Tier is one row of the importance table: skills whose market percentage is strictly above
// Above get Name
type Tier struct {
	Name  string
	Above float64
}

// Tiers is the importance table, highest threshold first. Anything not above the last
// threshold is types.ImportanceLow.
var Tiers = []Tier{
	{Name: types.ImportanceCritical, Above: 10},
	{Name: types.ImportanceHigh, Above: 5},
	{Name: types.ImportanceMedium, Above: 2},
}

// Classify maps a market percentage to its importance tier
func Classify(percentage float64) string {
	for _, t := range Tiers {
		if percentage > t.Above {
			return t.Name
		}
	}
	return types.ImportanceLow
}

// TierRank orders tiers for comparisons; higher is more important. Unknown tiers rank 0.
func TierRank(importance string) int {
	switch importance {
	case types.ImportanceCritical:
		return 4
	case types.ImportanceHigh:
		return 3
	case types.ImportanceMedium:
		return 2
	case types.ImportanceLow:
		return 1
	default:
		return 0
	}
}

// RecommendationText returns the advice shown next to a skill in the competency matrix
func RecommendationText(importance string, userHas bool) string {
	important := importance == types.ImportanceCritical || importance == types.ImportanceHigh

	switch {
	case userHas && important:
		return types.RecommendationMaintain
	case !userHas && important:
		return types.RecommendationUrgent
	case !userHas && importance == types.ImportanceMedium:
		return types.RecommendationSoon
	default:
		return types.RecommendationOptional
	}
}
