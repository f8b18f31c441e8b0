package recommend

import (
	"github.com/jonathan/skill-monitor/internal/types"
)

// AppendHistory records rec in the profile's history ring, evicting the oldest entries beyond
// types.MaxRecommendationHistory, and bumps the generated counter. The caller persists the
// profile.
func AppendHistory(profile *types.UserProfile, rec *types.Recommendation) {
	if profile == nil || rec == nil {
		return
	}

	profile.RecommendationsGenerated++
	profile.RecommendationHistory = append(profile.RecommendationHistory, types.HistoryEntry{
		GeneratedAt:    rec.GeneratedAt,
		SkillsCritical: append([]string{}, rec.SkillsCritical...),
		NextStep:       rec.NextStep,
	})

	if excess := len(profile.RecommendationHistory) - types.MaxRecommendationHistory; excess > 0 {
		kept := make([]types.HistoryEntry, types.MaxRecommendationHistory)
		copy(kept, profile.RecommendationHistory[excess:])
		profile.RecommendationHistory = kept
	}
}
