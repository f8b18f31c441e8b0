package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/gap"
	"github.com/jonathan/skill-monitor/internal/scoring"
	"github.com/jonathan/skill-monitor/internal/types"
)

// ProfileResponse carries a profile and, when auth is enabled, a token for its owner
type ProfileResponse struct {
	Profile *types.UserProfile `json:"profile"`
	Token   string             `json:"token,omitempty"`
}

// RegisterResponse is the body of POST /register
type RegisterResponse struct {
	Profile        *types.UserProfile    `json:"profile"`
	Recommendation *types.Recommendation `json:"recommendation"`
	Token          string                `json:"token,omitempty"`
}

// issueToken signs a token for userID when auth is enabled
func (s *Server) issueToken(userID string) (string, error) {
	if s.jwtService == nil {
		return "", nil
	}
	return s.jwtService.GenerateToken(userID)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.deps.Profiles.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"users": ids})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	p, err := s.deps.Profiles.Create(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.issueToken(p.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, ProfileResponse{Profile: p, Token: token})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	p, err := s.deps.Profiles.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleAddSkills(w http.ResponseWriter, r *http.Request) {
	var req types.AddSkillsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	p, err := s.deps.Profiles.AddSkills(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handleGap computes the gap report; ?top_n= overrides the configured number of demanded skills
func (s *Server) handleGap(w http.ResponseWriter, r *http.Request) {
	topN, err := queryInt(r, "top_n", s.deps.Recommender.TopN)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p, err := s.deps.Profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gap.Compute(p, snapshot.Matrix, topN, s.deps.Canon))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id": p.UserID,
		"scores":  scoring.Score(p, snapshot.Matrix, s.deps.Canon),
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.deps.Recommender.Recommend(r.Context(), r.PathValue("id"), snapshot.Matrix)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	snapshot, err := s.deps.Snapshots.LoadSnapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	p, rec, err := s.deps.Recommender.Register(r.Context(), &req, snapshot.Matrix)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.issueToken(p.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("user registered", zap.String("user_id", p.UserID), zap.Strings("critical", rec.SkillsCritical))
	s.jsonResponse(w, http.StatusCreated, RegisterResponse{Profile: p, Recommendation: rec, Token: token})
}
