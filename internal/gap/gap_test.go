package gap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/types"
)

func matrixOf(skills ...string) []types.CompetencyMatrixRow {
	rows := make([]types.CompetencyMatrixRow, len(skills))
	for i, s := range skills {
		rows[i] = types.CompetencyMatrixRow{Skill: s, FrequencyMarket: len(skills) - i}
	}
	return rows
}

func TestCompute_TopThreeScenario(t *testing.T) {
	profile := &types.UserProfile{UserID: "ana", SkillsCurrent: []string{"Python"}}

	report := Compute(profile, matrixOf("Python", "SQL", "Power BI", "Excel"), 3, nil)

	assert.Equal(t, "ana", report.UserID)
	assert.Equal(t, []string{"Python", "SQL", "Power BI"}, report.SkillsDemanded)
	assert.Equal(t, []string{"Python"}, report.SkillsCovered)
	assert.Equal(t, []string{"SQL", "Power BI"}, report.SkillsMissing)
	assert.Empty(t, report.SkillsUnused)
	assert.Equal(t, 3, report.TotalDemanded)
	assert.Equal(t, 1, report.CoverageCount)
	assert.Equal(t, 2, report.GapCount)
}

func TestCompute_PartitionInvariant(t *testing.T) {
	matrix := make([]types.CompetencyMatrixRow, 0, 30)
	for i := 0; i < 30; i++ {
		matrix = append(matrix, types.CompetencyMatrixRow{Skill: fmt.Sprintf("skill-%02d", i)})
	}
	profiles := [][]string{
		nil,
		{"skill-00"},
		{"skill-05", "skill-19", "skill-20", "other"},
		{"skill-00", "skill-01", "skill-02"},
	}

	for _, current := range profiles {
		report := Compute(&types.UserProfile{SkillsCurrent: current}, matrix, 0, nil)

		require.Len(t, report.SkillsDemanded, DefaultTopN)
		union := make(map[string]bool)
		for _, s := range report.SkillsCovered {
			union[s] = true
		}
		for _, s := range report.SkillsMissing {
			assert.False(t, union[s], "covered and missing overlap on %s", s)
			union[s] = true
		}
		assert.Len(t, union, len(report.SkillsDemanded))
		for _, s := range report.SkillsDemanded {
			assert.True(t, union[s])
		}
	}
}

func TestCompute_UnusedAndTargets(t *testing.T) {
	profile := &types.UserProfile{
		SkillsCurrent: []string{"Cobol", "SQL", "Go"},
		SkillsTarget:  []string{"Power BI", "Rust"},
	}

	report := Compute(profile, matrixOf("SQL", "Power BI", "Excel"), 20, nil)

	assert.Equal(t, []string{"Cobol", "Go"}, report.SkillsUnused)
	assert.Equal(t, []string{"Power BI"}, report.SkillsTargetCovered)
	assert.Equal(t, 3, report.TotalDemanded, "topN larger than the matrix uses the whole matrix")
}

func TestCompute_CanonicalizesUserSkills(t *testing.T) {
	set, err := dictionary.Default()
	require.NoError(t, err)
	canon := parsing.NewCanonicalizer(set)

	profile := &types.UserProfile{SkillsCurrent: []string{"powerbi", "python "}}

	report := Compute(profile, matrixOf("Python", "SQL", "Power BI"), 3, canon)

	assert.Equal(t, []string{"Python", "Power BI"}, report.SkillsCovered)
	assert.Equal(t, []string{"SQL"}, report.SkillsMissing)
}

func TestCompute_EmptyInputs(t *testing.T) {
	report := Compute(&types.UserProfile{UserID: "u"}, nil, 20, nil)

	assert.NotNil(t, report.SkillsDemanded)
	assert.Empty(t, report.SkillsDemanded)
	assert.Empty(t, report.SkillsCovered)
	assert.Empty(t, report.SkillsMissing)
	assert.Zero(t, report.GapCount)

	report = Compute(nil, matrixOf("SQL"), 20, nil)
	assert.Equal(t, []string{"SQL"}, report.SkillsMissing)
}
