package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-monitor/internal/events"
	"github.com/jonathan/skill-monitor/internal/gap"
	"github.com/jonathan/skill-monitor/internal/logging"
	"github.com/jonathan/skill-monitor/internal/metrics"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/recommend"
	"github.com/jonathan/skill-monitor/internal/types"
)

// DefaultWorkers bounds RecommendAll when no limit is given
const DefaultWorkers = 4

// Recommender ties profiles, the gap engine and the recommendation generator together
type Recommender struct {
	Profiles  *profile.Service
	Generator *recommend.Generator
	Canon     *parsing.Canonicalizer
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	// TopN is the number of matrix rows treated as demanded; 0 uses the gap default
	TopN int
}

func (r *Recommender) logger() *zap.Logger {
	return logging.OrNop(r.Logger)
}

// Gap computes the gap report of one stored user against matrix
func (r *Recommender) Gap(ctx context.Context, userID string, matrix []types.CompetencyMatrixRow) (*types.GapReport, error) {
	p, err := r.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return gap.Compute(p, matrix, r.TopN, r.Canon), nil
}

// Recommend generates a recommendation for one user, appends it to their history and
// publishes it
func (r *Recommender) Recommend(ctx context.Context, userID string, matrix []types.CompetencyMatrixRow) (*types.Recommendation, error) {
	p, err := r.Profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := gap.Compute(p, matrix, r.TopN, r.Canon)
	rec := r.Generator.Generate(p, report)
	if err := r.finish(ctx, userID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Register creates a profile and immediately produces the simplified recommendation built from
// its missing skills
func (r *Recommender) Register(ctx context.Context, req *types.CreateProfileRequest, matrix []types.CompetencyMatrixRow) (*types.UserProfile, *types.Recommendation, error) {
	p, err := r.Profiles.Create(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	report := gap.Compute(p, matrix, r.TopN, r.Canon)
	rec := r.Generator.GenerateFromMissing(p.UserID, report.SkillsMissing)
	if err := r.finish(ctx, p.UserID, rec); err != nil {
		return nil, nil, err
	}

	updated, err := r.Profiles.Get(ctx, p.UserID)
	if err != nil {
		return nil, nil, err
	}
	return updated, rec, nil
}

func (r *Recommender) finish(ctx context.Context, userID string, rec *types.Recommendation) error {
	if _, err := r.Profiles.SaveRecommendation(ctx, userID, rec); err != nil {
		return fmt.Errorf("failed to save recommendation for %s: %w", userID, err)
	}
	r.Metrics.IncRecommendations(1)

	if r.Publisher != nil {
		if err := r.Publisher.PublishRecommendation(ctx, rec); err != nil {
			r.logger().Warn("failed to publish recommendation",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// BatchResult holds the outcome of RecommendAll
type BatchResult struct {
	Recommendations map[string]*types.Recommendation
	Errors          map[string]error
}

// RecommendAll generates recommendations for every user concurrently, at most workers at a
// time. Every user reads the same matrix and writes only its own profile. A failure for one
// user is recorded in Errors and does not stop the batch; only context cancellation aborts it.
func (r *Recommender) RecommendAll(ctx context.Context, userIDs []string, matrix []types.CompetencyMatrixRow, workers int) (*BatchResult, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	result := &BatchResult{
		Recommendations: make(map[string]*types.Recommendation, len(userIDs)),
		Errors:          make(map[string]error),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, userID := range userIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, err := r.Recommend(gctx, userID, matrix)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger().Warn("recommendation failed", zap.String("user_id", userID), zap.Error(err))
				result.Errors[userID] = err
				return nil
			}
			result.Recommendations[userID] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	r.logger().Info("batch recommendations completed",
		zap.Int("users", len(userIDs)),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}
