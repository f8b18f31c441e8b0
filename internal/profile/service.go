// Package profile manages user profiles: creation, updates, skill declarations and the
// recommendation history.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/logging"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/recommend"
	"github.com/jonathan/skill-monitor/internal/types"
)

// Skill kinds accepted by AddSkills
const (
	KindCurrent = "current"
	KindTarget  = "target"
)

// Service applies profile operations on top of a Store. It assumes a single writer per user.
type Service struct {
	store  Store
	canon  *parsing.Canonicalizer
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a profile service. Declared skills are canonicalized with canon.
func NewService(store Store, canon *parsing.Canonicalizer, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		canon:  canon,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// DeriveUserID builds a user id from a display name: lowercased, spaces replaced by underscores
func DeriveUserID(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}

// Create registers a new profile
func (s *Service) Create(ctx context.Context, req *types.CreateProfileRequest) (*types.UserProfile, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: "invalid create request", Cause: err}
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = DeriveUserID(req.Name)
	}

	if _, err := s.store.Get(ctx, userID); err == nil {
		return nil, &AlreadyExistsError{UserID: userID}
	} else if !isMissing(err) {
		return nil, err
	}

	now := s.now().UTC()
	profile := &types.UserProfile{
		UserID:                userID,
		Name:                  strings.TrimSpace(req.Name),
		Career:                req.Career,
		ExperienceLevel:       req.ExperienceLevel,
		ExperienceYears:       req.ExperienceYears,
		SkillsCurrent:         s.canon.CanonicalizeAll(req.SkillsCurrent),
		SkillsTarget:          s.canon.CanonicalizeAll(req.SkillsTarget),
		Objectives:            nonNil(req.Objectives),
		Interests:             []string{},
		RecommendationHistory: []types.HistoryEntry{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", zap.String("user_id", userID))
	return profile, nil
}

// Get loads a profile; a missing profile is a *types.MissingInputError
func (s *Service) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	return s.store.Get(ctx, userID)
}

// List returns every user id in ascending order
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Update applies the non-nil fields of req
func (s *Service) Update(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.UserProfile, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: "invalid update request", Cause: err}
	}

	return s.mutate(ctx, userID, func(p *types.UserProfile) {
		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Career != nil {
			p.Career = *req.Career
		}
		if req.ExperienceLevel != nil {
			p.ExperienceLevel = *req.ExperienceLevel
		}
		if req.ExperienceYears != nil {
			p.ExperienceYears = *req.ExperienceYears
		}
		if req.Objectives != nil {
			p.Objectives = req.Objectives
		}
		if req.Interests != nil {
			p.Interests = req.Interests
		}
	})
}

// AddSkills appends canonicalized skills to the current or target set without duplicates
func (s *Service) AddSkills(ctx context.Context, userID string, req *types.AddSkillsRequest) (*types.UserProfile, error) {
	if req == nil {
		return nil, &ValidationError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: "invalid skills request", Cause: err}
	}

	return s.mutate(ctx, userID, func(p *types.UserProfile) {
		switch req.Kind {
		case KindCurrent:
			p.SkillsCurrent = s.canon.CanonicalizeAll(append(p.SkillsCurrent, req.Skills...))
		case KindTarget:
			p.SkillsTarget = s.canon.CanonicalizeAll(append(p.SkillsTarget, req.Skills...))
		}
	})
}

// SaveRecommendation records rec in the profile history and persists the profile
func (s *Service) SaveRecommendation(ctx context.Context, userID string, rec *types.Recommendation) (*types.UserProfile, error) {
	return s.mutate(ctx, userID, func(p *types.UserProfile) {
		recommend.AppendHistory(p, rec)
	})
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*types.UserProfile)) (*types.UserProfile, error) {
	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	fn(profile)
	profile.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Debug("profile updated", zap.String("user_id", userID))
	return profile, nil
}

func (s *Service) save(ctx context.Context, profile *types.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return &ValidationError{Message: "profile failed validation", Cause: err}
	}
	if err := s.store.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", profile.UserID, err)
	}
	return nil
}

func isMissing(err error) bool {
	var missing *types.MissingInputError
	return errors.As(err, &missing)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
