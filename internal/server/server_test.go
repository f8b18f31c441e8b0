package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/cache"
	"github.com/jonathan/skill-monitor/internal/config"
	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/metrics"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/recommend"
	"github.com/jonathan/skill-monitor/internal/types"
)

type testEnv struct {
	server   *Server
	handler  http.Handler
	metrics  *metrics.Metrics
	usersDir string
}

func marketListings() []types.Listing {
	descriptions := []string{
		"python", "python", "python", "python sql", "python sql", "python",
		"sql", "excel", "tableau", "kanban",
	}
	listings := make([]types.Listing, len(descriptions))
	for i, d := range descriptions {
		listings[i] = types.Listing{Title: fmt.Sprintf("Analista %d", i+1), Description: d}
	}
	return listings
}

func newTestEnv(t *testing.T, withAuth bool, snapshots SnapshotLoader) *testEnv {
	t.Helper()
	set, err := dictionary.Default()
	require.NoError(t, err)
	canon := parsing.NewCanonicalizer(set)

	if snapshots == nil {
		result, err := pipeline.New(set).Analyze(marketListings())
		require.NoError(t, err)
		memCache := cache.NewMemoryCache()
		require.NoError(t, memCache.Set(context.Background(), result.Snapshot))
		snapshots = pipeline.SnapshotSource{Cache: memCache}
	}

	usersDir := filepath.Join(t.TempDir(), "users")
	profiles := profile.NewService(profile.NewFileStore(usersDir), canon, nil)
	m := metrics.New()
	deps := Deps{
		Snapshots: snapshots,
		Profiles:  profiles,
		Recommender: &pipeline.Recommender{
			Profiles:  profiles,
			Generator: recommend.NewGenerator(&types.Catalog{}, set.ObjectivePaths, nil),
			Canon:     canon,
			Metrics:   m,
			TopN:      3,
		},
		Canon:   canon,
		Metrics: m,
	}

	cfg := Config{Port: 0}
	if withAuth {
		cfg.JWT = &config.JWTConfig{Secret: []byte(testSecret), TTL: time.Hour, Issuer: config.TokenIssuer}
	}
	s, err := New(cfg, deps)
	require.NoError(t, err)
	return &testEnv{server: s, handler: s.Handler(), metrics: m, usersDir: usersDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])

	env.server.deps.Ping = func(context.Context) error { return errors.New("db down") }
	w = env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodOptions, "/users", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMarketEndpoints(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodGet, "/market/skills?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	skills := decodeBody[MarketSkillsResponse](t, w)
	assert.Equal(t, 10, skills.TotalListings)
	require.Len(t, skills.Skills, 2)
	assert.Equal(t, "Python", skills.Skills[0].Skill)
	assert.Equal(t, 60.0, skills.Skills[0].Percentage)

	w = env.do(t, http.MethodGet, "/market/skills?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/market/matrix", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody[[]types.CompetencyMatrixRow](t, w)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Crítica", rows[0].Importance)
	assert.False(t, rows[0].UserHas)

	w = env.do(t, http.MethodGet, "/market/analysis", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decodeBody[MarketAnalysisResponse](t, w)
	assert.NotNil(t, analysis.Analysis)
	assert.NotEmpty(t, analysis.SkillsBySeniority)
}

func TestMarketMatrix_HandEditedProfile(t *testing.T) {
	env := newTestEnv(t, false, nil)

	// written directly, bypassing the service's canonicalization
	doc := `{"user_id": "ana", "name": "Ana", "skills_current": [" python ", "SQL Server"]}`
	require.NoError(t, os.MkdirAll(env.usersDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.usersDir, "ana.json"), []byte(doc), 0o644))

	w := env.do(t, http.MethodGet, "/market/matrix?user_id=ana", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody[[]types.CompetencyMatrixRow](t, w)

	held := map[string]bool{}
	for _, row := range rows {
		held[row.Skill] = row.UserHas
	}
	assert.True(t, held["Python"])
	assert.True(t, held["SQL"])
	assert.False(t, held["Excel"])
}

func TestMarketEndpoints_NoSnapshot(t *testing.T) {
	env := newTestEnv(t, false, pipeline.SnapshotSource{Cache: cache.NewMemoryCache()})

	w := env.do(t, http.MethodGet, "/market/skills", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodPost, "/users", types.CreateProfileRequest{
		Name: "Ana Pérez", ExperienceLevel: "Junior", SkillsCurrent: []string{"python"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[ProfileResponse](t, w)
	assert.Equal(t, "ana_pérez", created.Profile.UserID)
	assert.Empty(t, created.Token)

	id := created.Profile.UserID
	w = env.do(t, http.MethodPost, "/users", types.CreateProfileRequest{UserID: id, Name: "Ana"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{id}, decodeBody[map[string][]string](t, w)["users"])

	w = env.do(t, http.MethodPost, "/users/"+id+"/skills", types.AddSkillsRequest{Kind: "target", Skills: []string{"sql"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"SQL"}, decodeBody[types.UserProfile](t, w).SkillsTarget)

	w = env.do(t, http.MethodGet, "/users/"+id+"/gap", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decodeBody[types.GapReport](t, w)
	assert.Equal(t, []string{"Python"}, report.SkillsCovered)
	assert.Equal(t, []string{"SQL"}, report.SkillsTargetCovered)
	assert.Equal(t, 3, report.TotalDemanded)

	w = env.do(t, http.MethodGet, "/users/"+id+"/gap?top_n=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[types.GapReport](t, w).TotalDemanded)

	w = env.do(t, http.MethodGet, "/users/"+id+"/scores", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skill":"Python"`)

	w = env.do(t, http.MethodPost, "/users/"+id+"/recommendations", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	rec := decodeBody[types.Recommendation](t, w)
	assert.Equal(t, []string{"SQL", "Excel"}, rec.SkillsCritical)

	w = env.do(t, http.MethodGet, "/users/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[types.UserProfile](t, w).RecommendationsGenerated)

	w = env.do(t, http.MethodGet, "/users/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUser_Invalid(t *testing.T) {
	env := newTestEnv(t, false, nil)

	w := env.do(t, http.MethodPost, "/users", types.CreateProfileRequest{Name: "Ana", ExperienceLevel: "Guru"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPost, "/register", types.CreateProfileRequest{
		Name: "Luis Soto", SkillsCurrent: []string{"SQL"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody[RegisterResponse](t, w)
	assert.Equal(t, "luis_soto", resp.Profile.UserID)
	assert.Equal(t, []string{"Python", "Excel"}, resp.Recommendation.SkillsCritical)
	assert.NotEmpty(t, resp.Token)
}

func TestAuth_MutatingRoutes(t *testing.T) {
	env := newTestEnv(t, true, nil)

	w := env.do(t, http.MethodPost, "/users", types.CreateProfileRequest{UserID: "ana", Name: "Ana"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	anaToken := decodeBody[ProfileResponse](t, w).Token
	require.NotEmpty(t, anaToken)

	w = env.do(t, http.MethodPost, "/users", types.CreateProfileRequest{UserID: "luis", Name: "Luis"}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	skills := types.AddSkillsRequest{Kind: "current", Skills: []string{"Python"}}

	w = env.do(t, http.MethodPost, "/users/ana/skills", skills, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/users/luis/skills", skills, anaToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/users/ana/skills", skills, anaToken)
	assert.Equal(t, http.StatusOK, w.Code)

	name := "Ana María"
	w = env.do(t, http.MethodPut, "/users/ana", types.UpdateProfileRequest{Name: &name}, anaToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana María", decodeBody[types.UserProfile](t, w).Name)

	// reads stay open
	w = env.do(t, http.MethodGet, "/users/luis/gap", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false, nil)

	env.do(t, http.MethodGet, "/market/skills", nil, "")
	w := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GET /market/skills")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "body", Message: "bad"}, http.StatusBadRequest},
		{"profile validation", &profile.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{"exists", &profile.AlreadyExistsError{UserID: "ana"}, http.StatusConflict},
		{"missing", &types.MissingInputError{Resource: "profile", ID: "ana"}, http.StatusNotFound},
		{"wrapped missing", fmt.Errorf("load: %w", &types.MissingInputError{Resource: "catalog"}), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
