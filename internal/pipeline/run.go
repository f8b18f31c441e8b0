// Package pipeline provides the high-level orchestration of a market run: listing corpus in,
// market snapshot out. It also drives batch recommendations across users.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/analysis"
	"github.com/jonathan/skill-monitor/internal/cache"
	"github.com/jonathan/skill-monitor/internal/db"
	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/extraction"
	"github.com/jonathan/skill-monitor/internal/ingestion"
	"github.com/jonathan/skill-monitor/internal/logging"
	"github.com/jonathan/skill-monitor/internal/market"
	"github.com/jonathan/skill-monitor/internal/metrics"
	"github.com/jonathan/skill-monitor/internal/observability"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline/steps"
	"github.com/jonathan/skill-monitor/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunStore persists runs and their artifacts. *db.DB implements it.
type RunStore interface {
	CreateRun(ctx context.Context, runID uuid.UUID, source string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, total, skipped int) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	ListingPaths []string
	// UserSkills builds Result.UserMatrix; the snapshot matrix is always the market-only view
	UserSkills []string
	// OutputDir receives the JSON artifacts; empty skips file output
	OutputDir string
	// Verbose prints boxed summaries to Out
	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
}

// Result is everything a run produced
type Result struct {
	Snapshot   *types.MarketSnapshot
	Extracted  []types.ExtractedListing
	Corpus     *ingestion.Metadata
	// UserMatrix marks the rows held by RunOptions.UserSkills; nil when none were given
	UserMatrix []types.CompetencyMatrixRow
	// Violation is set when the frequency table broke an invariant and matrix values were clamped
	Violation  error
}

// Pipeline runs the market analysis over one dictionary set. Every backend is optional.
type Pipeline struct {
	set       *dictionary.Set
	extractor *extraction.Extractor
	analyzer  *analysis.Analyzer
	canon     *parsing.Canonicalizer
	loader    *ingestion.Loader
	store     RunStore
	cache     cache.SnapshotCache
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithStore persists runs and artifacts
func WithStore(store RunStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithCache publishes each snapshot to a cache
func WithCache(c cache.SnapshotCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMetrics records run counters
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the structured logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNop(l) }
}

// WithClock overrides the snapshot timestamp source
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline over set
func New(set *dictionary.Set, opts ...Option) *Pipeline {
	p := &Pipeline{
		set:    set,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor = extraction.NewExtractor(set, p.logger)
	p.analyzer = analysis.NewAnalyzer(set)
	p.canon = parsing.NewCanonicalizer(set)
	p.loader = ingestion.NewLoader(p.logger)
	return p
}

// tracker enforces the step graph and reports progress
type tracker struct {
	completed map[string]bool
	runID     string
	opts      *RunOptions
}

func (t *tracker) done(step, message string, content any) error {
	if err := steps.ValidateDependencies(t.completed, step); err != nil {
		return err
	}
	t.completed[step] = true
	if t.opts.OnProgress != nil {
		t.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.StepRegistry[step].Category,
			Message:  message,
			RunID:    t.runID,
			Content:  content,
		})
	}
	return nil
}

// Run loads the listing corpus, analyzes it and persists the snapshot to every configured backend
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	started := p.now()
	runID := uuid.New()
	t := &tracker{completed: map[string]bool{}, runID: runID.String(), opts: &opts}

	store := p.store
	if store != nil {
		if err := store.CreateRun(ctx, runID, sourceLabel(opts.ListingPaths)); err != nil {
			p.logger.Warn("failed to create run record, continuing without persistence", zap.Error(err))
			store = nil
		}
	}

	listings, meta, err := p.loader.Load(opts.ListingPaths...)
	if err != nil {
		p.fail(ctx, store, runID, started)
		return nil, fmt.Errorf("listing ingestion failed: %w", err)
	}
	if err := t.done(steps.LoadListings, fmt.Sprintf("Loaded %d listings", len(listings)), meta); err != nil {
		return nil, err
	}

	result, err := p.analyze(listings, runID, t)
	if err != nil {
		p.fail(ctx, store, runID, started)
		return nil, err
	}
	result.Corpus = meta

	if opts.Verbose && opts.Out != nil {
		printer := observability.NewPrinter(opts.Out)
		printer.PrintCorpus(result.Snapshot.TotalListings, result.Snapshot.SkippedListings, result.Extracted)
		if result.UserMatrix != nil {
			printer.PrintMatrix(result.UserMatrix)
		} else {
			printer.PrintMatrix(result.Snapshot.Matrix)
		}
		printer.PrintAnalysis(result.Snapshot.Analysis)
		printer.PrintInvariantViolation(result.Violation)
	}

	if opts.OutputDir != "" {
		if err := WriteArtifacts(opts.OutputDir, result); err != nil {
			p.fail(ctx, store, runID, started)
			return nil, err
		}
	}
	p.persist(ctx, store, runID, result.Snapshot)

	p.metrics.ObservePipeline(metrics.StatusCompleted, p.now().Sub(started),
		result.Snapshot.TotalListings, result.Snapshot.SkippedListings, countMentions(result.Extracted))
	p.logger.Info("market run completed",
		zap.String("run_id", runID.String()),
		zap.Int("listings", result.Snapshot.TotalListings),
		zap.Int("skills", len(result.Snapshot.Frequencies)))

	return result, nil
}

// Analyze runs the pure part of the pipeline over an in-memory corpus
func (p *Pipeline) Analyze(listings []types.Listing) (*Result, error) {
	t := &tracker{completed: map[string]bool{steps.LoadListings: true}, opts: &RunOptions{}}
	return p.analyze(listings, uuid.New(), t)
}

func (p *Pipeline) analyze(listings []types.Listing, runID uuid.UUID, t *tracker) (*Result, error) {
	extracted, skipped := p.extractor.ExtractAll(listings)
	if err := t.done(steps.ExtractSkills, fmt.Sprintf("Extracted skills from %d listings", len(extracted)), nil); err != nil {
		return nil, err
	}

	freqs := market.Aggregate(extracted)
	if err := t.done(steps.Aggregate, fmt.Sprintf("%d distinct skills", len(freqs)), freqs); err != nil {
		return nil, err
	}

	violation := market.CheckInvariants(freqs)
	if violation != nil {
		p.logger.Error("frequency table invariant violated", zap.Error(violation))
	}
	matrix := market.BuildMatrix(freqs, nil)
	if err := t.done(steps.BuildMatrix, "Built competency matrix", matrix); err != nil {
		return nil, err
	}

	bySeniority := market.SkillsBySeniority(extracted)
	if err := t.done(steps.SkillsBySeniority, "Grouped skills by seniority", bySeniority); err != nil {
		return nil, err
	}

	marketAnalysis := p.analyzer.Analyze(freqs, extracted)
	if err := t.done(steps.Analyze, "Classified clusters and trends", marketAnalysis); err != nil {
		return nil, err
	}

	snapshot := &types.MarketSnapshot{
		RunID:             runID.String(),
		GeneratedAt:       p.now().UTC(),
		TotalListings:     len(extracted),
		SkippedListings:   skipped,
		Frequencies:       freqs,
		Matrix:            matrix,
		Analysis:          marketAnalysis,
		SkillsBySeniority: bySeniority,
	}
	if err := t.done(steps.Snapshot, "Market snapshot ready", nil); err != nil {
		return nil, err
	}

	result := &Result{Snapshot: snapshot, Extracted: extracted, Violation: violation}
	if len(t.opts.UserSkills) > 0 {
		result.UserMatrix = market.BuildMatrix(freqs, p.canon.CanonicalizeAll(t.opts.UserSkills))
	}
	return result, nil
}

// persist writes the snapshot to the run store and cache; failures are logged, not returned
func (p *Pipeline) persist(ctx context.Context, store RunStore, runID uuid.UUID, snapshot *types.MarketSnapshot) {
	if store != nil {
		artifacts := []struct {
			step, category string
			content        any
		}{
			{db.StepFrequencies, db.CategoryMarket, snapshot.Frequencies},
			{db.StepMatrix, db.CategoryMarket, snapshot.Matrix},
			{db.StepSkillsBySeniority, db.CategoryMarket, snapshot.SkillsBySeniority},
			{db.StepAnalysis, db.CategoryAnalysis, snapshot.Analysis},
			{db.StepSnapshot, db.CategoryMarket, snapshot},
		}
		for _, a := range artifacts {
			if err := store.SaveArtifact(ctx, runID, a.step, a.category, a.content); err != nil {
				p.logger.Warn("failed to save artifact", zap.String("step", a.step), zap.Error(err))
			}
		}
		if err := store.CompleteRun(ctx, runID, db.RunStatusCompleted, snapshot.TotalListings, snapshot.SkippedListings); err != nil {
			p.logger.Warn("failed to complete run", zap.Error(err))
		}
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, snapshot); err != nil {
			p.logger.Warn("failed to cache snapshot", zap.Error(err))
		}
	}
}

func (p *Pipeline) fail(ctx context.Context, store RunStore, runID uuid.UUID, started time.Time) {
	if store != nil {
		if err := store.CompleteRun(ctx, runID, db.RunStatusFailed, 0, 0); err != nil {
			p.logger.Warn("failed to mark run as failed", zap.Error(err))
		}
	}
	p.metrics.ObservePipeline(metrics.StatusFailed, p.now().Sub(started), 0, 0, 0)
}

func countMentions(extracted []types.ExtractedListing) int {
	n := 0
	for _, e := range extracted {
		n += len(e.TechnicalSkills) + len(e.ManagementSkills)
	}
	return n
}

func sourceLabel(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return paths[0]
	default:
		return fmt.Sprintf("%s (+%d more)", paths[0], len(paths)-1)
	}
}
