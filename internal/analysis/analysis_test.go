package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/types"
)

func sampleFrequencies() []types.SkillFrequency {
	return []types.SkillFrequency{
		{Skill: "SQL", Frequency: 40, Percentage: 40},
		{Skill: "Excel", Frequency: 30, Percentage: 30},
		{Skill: "Python", Frequency: 20, Percentage: 20},
		{Skill: "Power BI", Frequency: 12, Percentage: 12},
		{Skill: "KPI", Frequency: 8, Percentage: 8},
		{Skill: "SAP", Frequency: 3, Percentage: 3},
		{Skill: "Kanban", Frequency: 1, Percentage: 1},
	}
}

func TestCategoryRollups(t *testing.T) {
	groups := []dictionary.SkillGroup{
		{Name: "Análisis Datos", Skills: []string{"Machine Learning", "Excel", "Python"}},
		{Name: "Cloud", Skills: []string{"AWS", "Azure"}},
		{Name: "Lenguajes", Skills: []string{"Python", "R", "SQL"}},
	}

	rollups := CategoryRollups(groups, sampleFrequencies())

	require.Len(t, rollups, 2, "groups without any present skill are omitted")
	assert.Equal(t, "Análisis Datos", rollups[0].Category)
	assert.Equal(t, 2, rollups[0].TotalSkills)
	assert.Equal(t, 50, rollups[0].TotalFrequency)
	assert.Equal(t, "Excel", rollups[0].Skills[0].Skill)

	assert.Equal(t, "Lenguajes", rollups[1].Category)
	assert.Equal(t, "SQL", rollups[1].Skills[0].Skill, "skills sorted by frequency")
	assert.Equal(t, 60, rollups[1].TotalFrequency)
}

func TestClusters(t *testing.T) {
	clusters := []dictionary.Cluster{
		{Name: "Business Analyst", Description: "Análisis de negocio y datos", Skills: []string{"SQL", "Power BI", "Excel", "Data Analysis"}},
		{Name: "Cloud", Description: "none", Skills: []string{"AWS"}},
		{Name: "Consultor ERP", Description: "ERP", Skills: []string{"SAP", "Oracle"}},
	}

	got := Clusters(clusters, sampleFrequencies())

	require.Len(t, got, 2)
	assert.Equal(t, "Business Analyst", got[0].Name)
	assert.Equal(t, []string{"SQL", "Power BI", "Excel"}, got[0].SkillsFound)
	assert.Equal(t, 82, got[0].Strength)
	assert.InDelta(t, 0.75, got[0].Coverage, 1e-9)

	assert.Equal(t, "Consultor ERP", got[1].Name)
	assert.Equal(t, 3, got[1].Strength)
	assert.InDelta(t, 0.5, got[1].Coverage, 1e-9)
}

func TestTrends(t *testing.T) {
	buckets := Trends(sampleFrequencies())

	require.Len(t, buckets.Explosive, 3)
	assert.Equal(t, "SQL", buckets.Explosive[0].Skill)
	assert.Equal(t, LabelHighDemand, buckets.Explosive[0].Label)

	require.Len(t, buckets.Hot, 2)
	assert.Equal(t, "Power BI", buckets.Hot[0].Skill)
	assert.Equal(t, LabelMediumDemand, buckets.Hot[0].Label)

	require.Len(t, buckets.Stable, 1)
	assert.Equal(t, "SAP", buckets.Stable[0].Skill)
	assert.Equal(t, LabelSteadyDemand, buckets.Stable[0].Label)
}

func TestTrends_CapsBuckets(t *testing.T) {
	freqs := make([]types.SkillFrequency, 0, 8)
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		freqs = append(freqs, types.SkillFrequency{Skill: name, Frequency: 1, Percentage: float64(20 + i)})
	}

	buckets := Trends(freqs)

	require.Len(t, buckets.Explosive, 5)
	assert.Equal(t, "H", buckets.Explosive[0].Skill)
	assert.Equal(t, "D", buckets.Explosive[4].Skill)
}

func TestTrends_Empty(t *testing.T) {
	buckets := Trends(nil)
	assert.NotNil(t, buckets.Explosive)
	assert.Empty(t, buckets.Explosive)
	assert.Empty(t, buckets.Hot)
	assert.Empty(t, buckets.Stable)
}

func TestSeniorityDistribution(t *testing.T) {
	extracted := []types.ExtractedListing{
		{ExperienceLevel: types.ExperienceSenior},
		{ExperienceLevel: types.ExperienceJunior},
		{ExperienceLevel: types.ExperienceSenior},
		{ExperienceLevel: ""},
	}

	got := SeniorityDistribution(extracted)

	assert.Equal(t, []types.SeniorityCount{
		{ExperienceLevel: types.ExperienceSenior, Listings: 2},
		{ExperienceLevel: types.ExperienceSemiSenior, Listings: 0},
		{ExperienceLevel: types.ExperienceJunior, Listings: 1},
		{ExperienceLevel: types.ExperienceUnspecified, Listings: 1},
	}, got)
}

func TestAnalyze_DefaultDictionary(t *testing.T) {
	set, err := dictionary.Default()
	require.NoError(t, err)

	result := NewAnalyzer(set).Analyze(sampleFrequencies(), nil)

	require.NotNil(t, result)
	assert.NotEmpty(t, result.Categories)
	assert.NotEmpty(t, result.Clusters)
	assert.Len(t, result.Seniority, 4)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	set, err := dictionary.Default()
	require.NoError(t, err)

	result := NewAnalyzer(set).Analyze(nil, nil)

	assert.Empty(t, result.Categories)
	assert.Empty(t, result.Clusters)
	assert.Empty(t, result.Trends.Explosive)
}
