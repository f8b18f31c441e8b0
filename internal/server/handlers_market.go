package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/skill-monitor/internal/market"
	"github.com/jonathan/skill-monitor/internal/types"
)

// MarketSkillsResponse is the body of GET /market/skills
type MarketSkillsResponse struct {
	RunID         string                 `json:"run_id"`
	TotalListings int                    `json:"total_listings"`
	Skills        []types.SkillFrequency `json:"skills"`
}

// MarketAnalysisResponse is the body of GET /market/analysis
type MarketAnalysisResponse struct {
	RunID             string                     `json:"run_id"`
	Analysis          *types.MarketAnalysis      `json:"analysis"`
	SkillsBySeniority []types.SeniorityFrequency `json:"skills_by_seniority"`
}

// queryInt reads a non-negative integer query parameter; absent gives def
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}

// handleMarketSkills returns the frequency table, optionally truncated with ?limit=
func (s *Server) handleMarketSkills(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	skills := snapshot.Frequencies
	if limit > 0 && limit < len(skills) {
		skills = skills[:limit]
	}
	s.jsonResponse(w, http.StatusOK, MarketSkillsResponse{
		RunID:         snapshot.RunID,
		TotalListings: snapshot.TotalListings,
		Skills:        skills,
	})
}

// handleMarketMatrix returns the competency matrix. With ?user_id= the rows are marked against
// that user's current skills.
func (s *Server) handleMarketMatrix(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.jsonResponse(w, http.StatusOK, snapshot.Matrix)
		return
	}

	p, err := s.deps.Profiles.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, market.BuildMatrix(snapshot.Frequencies, s.deps.Canon.CanonicalizeAll(p.SkillsCurrent)))
}

// handleMarketAnalysis returns clusters, trends, category rollups and seniority counts
func (s *Server) handleMarketAnalysis(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MarketAnalysisResponse{
		RunID:             snapshot.RunID,
		Analysis:          snapshot.Analysis,
		SkillsBySeniority: snapshot.SkillsBySeniority,
	})
}
