package market

import (
	"github.com/jonathan/skill-monitor/internal/types"
)

// BuildMatrix turns the frequency table into competency matrix rows, one per skill in table
// order. userSkills marks the rows the user already has; pass nil for the market-only view.
// Out-of-range values are clamped; use CheckInvariants to detect them beforehand.
func BuildMatrix(freqs []types.SkillFrequency, userSkills []string) []types.CompetencyMatrixRow {
	has := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		has[s] = true
	}

	rows := make([]types.CompetencyMatrixRow, 0, len(freqs))
	for _, f := range freqs {
		freq := f.Frequency
		if freq < 0 {
			freq = 0
		}
		pct := clampPercentage(f.Percentage)
		importance := Classify(pct)

		rows = append(rows, types.CompetencyMatrixRow{
			Skill:            f.Skill,
			FrequencyMarket:  freq,
			PercentageMarket: pct,
			UserHas:          has[f.Skill],
			Importance:       importance,
			Recommendation:   RecommendationText(importance, has[f.Skill]),
		})
	}
	return rows
}

// CheckInvariants returns a *types.InvariantViolation for the first frequency row with a
// negative frequency or a percentage outside [0, 100]
func CheckInvariants(freqs []types.SkillFrequency) error {
	for _, f := range freqs {
		if f.Frequency < 0 {
			return &types.InvariantViolation{Skill: f.Skill, Field: "frequency", Value: float64(f.Frequency)}
		}
		if f.Percentage < 0 || f.Percentage > 100 {
			return &types.InvariantViolation{Skill: f.Skill, Field: "percentage", Value: f.Percentage}
		}
	}
	return nil
}

// Skills returns the skill names of matrix rows in order
func Skills(rows []types.CompetencyMatrixRow) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Skill
	}
	return names
}

func clampPercentage(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
