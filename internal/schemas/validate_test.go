package schemas

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/types"
	schemafiles "github.com/jonathan/skill-monitor/schemas"
)

func TestValidateJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")

	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0o644))

	tests := []struct {
		name       string
		schema     string
		doc        string
		violations bool
		wantErr    string
	}{
		{name: "valid", schema: schemaPath, doc: filepath.Join("testdata", "valid_json.json")},
		{name: "missing field", schema: schemaPath, doc: filepath.Join("testdata", "invalid_json.json"), violations: true},
		{name: "wrong type", schema: schemaPath, doc: filepath.Join("testdata", "type_mismatch.json"), violations: true},
		{name: "no schema file", schema: filepath.Join("testdata", "nope.json"), doc: filepath.Join("testdata", "valid_json.json"), wantErr: "schema file not found"},
		{name: "no json file", schema: schemaPath, doc: filepath.Join("testdata", "nope.json"), wantErr: "JSON file not found"},
		{name: "malformed json", schema: schemaPath, doc: malformed, wantErr: "failed to parse document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(tt.schema, tt.doc)
			switch {
			case tt.violations:
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.NotEmpty(t, ve.Errors)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	schema := []byte(`{
		"type": "object",
		"required": ["user"],
		"properties": {
			"user": {
				"type": "object",
				"required": ["user_id"],
				"properties": {"user_id": {"type": "string"}}
			}
		}
	}`)

	assert.NoError(t, ValidateDocument(schema, []byte(`{"user": {"user_id": "ana"}}`)))

	err := ValidateDocument(schema, []byte(`{"user": {}}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "user", ve.Errors[0].Field)

	err = ValidateDocument(schema, []byte(`[]`))
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "(root)", ve.Errors[0].Field)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, ValidateDocument([]byte(`{"type": 7}`), []byte(`{}`)), &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "skill", Message: "is required"},
		{Field: "frequency", Message: "must be an integer"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. skill: is required")
	assert.Contains(t, msg, "2. frequency: must be an integer")
}

func TestValidateValue_CompetencyMatrix(t *testing.T) {
	rows := []types.CompetencyMatrixRow{
		{Skill: "Python", FrequencyMarket: 6, PercentageMarket: 60, Importance: types.ImportanceCritical, Recommendation: types.RecommendationUrgent},
		{Skill: "Kanban", FrequencyMarket: 1, PercentageMarket: 2, Importance: types.ImportanceLow, Recommendation: types.RecommendationOptional},
	}
	assert.NoError(t, ValidateValue(schemafiles.CompetencyMatrix, rows))

	rows[0].PercentageMarket = 140
	var ve *ValidationError
	assert.ErrorAs(t, ValidateValue(schemafiles.CompetencyMatrix, rows), &ve)
}

func TestValidateValue_EmptyMatrix(t *testing.T) {
	assert.NoError(t, ValidateValue(schemafiles.CompetencyMatrix, []types.CompetencyMatrixRow{}))
}

func TestValidateValue_GapReport(t *testing.T) {
	report := &types.GapReport{
		UserID:              "ana",
		SkillsDemanded:      []string{"Python", "SQL"},
		SkillsCovered:       []string{"SQL"},
		SkillsMissing:       []string{"Python"},
		SkillsUnused:        []string{},
		SkillsTargetCovered: []string{},
		TotalDemanded:       2,
		CoverageCount:       1,
		GapCount:            1,
	}
	assert.NoError(t, ValidateValue(schemafiles.GapReport, report))

	report.SkillsUnused = nil
	assert.Error(t, ValidateValue(schemafiles.GapReport, report), "null arrays are rejected")
}

func TestValidateValue_Recommendation(t *testing.T) {
	rec := &types.Recommendation{
		UserID:            "ana",
		GeneratedAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		SkillsCritical:    []string{"Python"},
		SkillsToReinforce: []string{},
		MatchedResources:  []types.MatchedResource{{Message: "No se encontraron cursos"}},
		NextStep:          "Aprender Python",
	}
	assert.NoError(t, ValidateValue(schemafiles.Recommendation, rec))

	rec.MatchedResources = []types.MatchedResource{{Platform: "Coursera"}}
	assert.Error(t, ValidateValue(schemafiles.Recommendation, rec))
}

func TestValidateValue_UnknownSchema(t *testing.T) {
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, ValidateValue("missing.schema.json", map[string]string{}), &loadErr)
}

func TestValidateBytes_Malformed(t *testing.T) {
	err := ValidateBytes(schemafiles.GapReport, []byte("{ invalid json }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse document")
}
