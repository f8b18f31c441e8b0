package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/types"
)

func listing(level string, technical []string, management ...string) types.ExtractedListing {
	if technical == nil {
		technical = []string{}
	}
	if management == nil {
		management = []string{}
	}
	return types.ExtractedListing{
		Listing:          types.Listing{Title: "x"},
		TechnicalSkills:  technical,
		ManagementSkills: management,
		ExperienceLevel:  level,
	}
}

// tenListingCorpus has Python in 6 listings and SQL in 3
func tenListingCorpus() []types.ExtractedListing {
	corpus := make([]types.ExtractedListing, 0, 10)
	for i := 0; i < 10; i++ {
		var skills []string
		if i < 6 {
			skills = append(skills, "Python")
		}
		if i >= 7 {
			skills = append(skills, "SQL")
		}
		corpus = append(corpus, listing(types.ExperienceUnspecified, skills))
	}
	return corpus
}

func TestAggregate_PythonSQLScenario(t *testing.T) {
	freqs := Aggregate(tenListingCorpus())

	require.Len(t, freqs, 2)
	assert.Equal(t, types.SkillFrequency{Skill: "Python", Frequency: 6, Percentage: 60.0}, freqs[0])
	assert.Equal(t, types.SkillFrequency{Skill: "SQL", Frequency: 3, Percentage: 30.0}, freqs[1])

	matrix := BuildMatrix(freqs, nil)
	require.Len(t, matrix, 2)
	assert.Equal(t, types.ImportanceCritical, matrix[0].Importance)
	assert.Equal(t, types.ImportanceCritical, matrix[1].Importance)
}

func TestAggregate_EmptyCorpus(t *testing.T) {
	freqs := Aggregate(nil)
	assert.NotNil(t, freqs)
	assert.Empty(t, freqs)

	matrix := BuildMatrix(freqs, nil)
	assert.NotNil(t, matrix)
	assert.Empty(t, matrix)
}

func TestAggregate_TiesKeepFirstAppearance(t *testing.T) {
	corpus := []types.ExtractedListing{
		listing("", []string{"Excel"}, "KPI"),
		listing("", []string{"SQL", "Excel"}),
		listing("", []string{"SQL"}, "KPI"),
	}

	freqs := Aggregate(corpus)

	require.Len(t, freqs, 3)
	assert.Equal(t, []string{"Excel", "KPI", "SQL"}, []string{freqs[0].Skill, freqs[1].Skill, freqs[2].Skill})
	for _, f := range freqs {
		assert.Equal(t, 2, f.Frequency)
		assert.Equal(t, 66.67, f.Percentage)
	}
}

func TestAggregate_CountsListingsNotMentions(t *testing.T) {
	corpus := []types.ExtractedListing{
		listing("", []string{"SQL"}, "SQL"),
		listing("", []string{}),
	}

	freqs := Aggregate(corpus)

	require.Len(t, freqs, 1)
	assert.Equal(t, 1, freqs[0].Frequency)
	assert.Equal(t, 50.0, freqs[0].Percentage)
}

func TestAggregate_PercentageBounds(t *testing.T) {
	corpus := []types.ExtractedListing{
		listing("", []string{"SQL", "Python"}, "KPI"),
		listing("", []string{"SQL"}),
		listing("", []string{"Excel", "SQL"}, "Dashboard"),
	}

	for _, f := range Aggregate(corpus) {
		assert.GreaterOrEqual(t, f.Percentage, 0.0)
		assert.LessOrEqual(t, f.Percentage, 100.0)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 100.0, Percentage(4, 4))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		percentage float64
		expected   string
	}{
		{60, types.ImportanceCritical},
		{10.01, types.ImportanceCritical},
		{10, types.ImportanceHigh},
		{5.5, types.ImportanceHigh},
		{5, types.ImportanceMedium},
		{2.01, types.ImportanceMedium},
		{2, types.ImportanceLow},
		{0, types.ImportanceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.percentage), "percentage %v", tt.percentage)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	prev := TierRank(Classify(0))
	for p := 0.0; p <= 100; p += 0.25 {
		rank := TierRank(Classify(p))
		assert.GreaterOrEqual(t, rank, prev, "tier dropped at %v", p)
		prev = rank
	}
}

func TestRecommendationText(t *testing.T) {
	assert.Equal(t, types.RecommendationMaintain, RecommendationText(types.ImportanceCritical, true))
	assert.Equal(t, types.RecommendationMaintain, RecommendationText(types.ImportanceHigh, true))
	assert.Equal(t, types.RecommendationUrgent, RecommendationText(types.ImportanceCritical, false))
	assert.Equal(t, types.RecommendationUrgent, RecommendationText(types.ImportanceHigh, false))
	assert.Equal(t, types.RecommendationSoon, RecommendationText(types.ImportanceMedium, false))
	assert.Equal(t, types.RecommendationOptional, RecommendationText(types.ImportanceMedium, true))
	assert.Equal(t, types.RecommendationOptional, RecommendationText(types.ImportanceLow, false))
}

func TestBuildMatrix_UserSkills(t *testing.T) {
	freqs := []types.SkillFrequency{
		{Skill: "Python", Frequency: 6, Percentage: 60},
		{Skill: "Tableau", Frequency: 1, Percentage: 3},
	}

	rows := BuildMatrix(freqs, []string{"Python"})

	require.Len(t, rows, 2)
	assert.True(t, rows[0].UserHas)
	assert.Equal(t, types.RecommendationMaintain, rows[0].Recommendation)
	assert.False(t, rows[1].UserHas)
	assert.Equal(t, types.ImportanceMedium, rows[1].Importance)
	assert.Equal(t, types.RecommendationSoon, rows[1].Recommendation)
	assert.Equal(t, []string{"Python", "Tableau"}, Skills(rows))
}

func TestBuildMatrix_ClampsOutOfRange(t *testing.T) {
	rows := BuildMatrix([]types.SkillFrequency{
		{Skill: "A", Frequency: -2, Percentage: 140},
		{Skill: "B", Frequency: 1, Percentage: -3},
	}, nil)

	assert.Equal(t, 0, rows[0].FrequencyMarket)
	assert.Equal(t, 100.0, rows[0].PercentageMarket)
	assert.Equal(t, 0.0, rows[1].PercentageMarket)
	assert.Equal(t, types.ImportanceLow, rows[1].Importance)
}

func TestCheckInvariants(t *testing.T) {
	assert.NoError(t, CheckInvariants(Aggregate(tenListingCorpus())))

	err := CheckInvariants([]types.SkillFrequency{{Skill: "SQL", Frequency: 1, Percentage: 101}})
	var violation *types.InvariantViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "SQL", violation.Skill)
	assert.Equal(t, "percentage", violation.Field)

	err = CheckInvariants([]types.SkillFrequency{{Skill: "SQL", Frequency: -1}})
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "frequency", violation.Field)
}

func TestSkillsBySeniority(t *testing.T) {
	corpus := []types.ExtractedListing{
		listing(types.ExperienceJunior, []string{"SQL"}),
		listing(types.ExperienceSenior, []string{"SQL", "Python"}),
		listing(types.ExperienceSenior, []string{"SQL"}),
		listing("", []string{"Python"}),
	}

	rows := SkillsBySeniority(corpus)

	expected := []types.SeniorityFrequency{
		{Skill: "Python", ExperienceLevel: types.ExperienceSenior, Frequency: 1},
		{Skill: "Python", ExperienceLevel: types.ExperienceUnspecified, Frequency: 1},
		{Skill: "SQL", ExperienceLevel: types.ExperienceSenior, Frequency: 2},
		{Skill: "SQL", ExperienceLevel: types.ExperienceJunior, Frequency: 1},
	}
	assert.Equal(t, expected, rows)
}
