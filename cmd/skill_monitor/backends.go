package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/cache"
	"github.com/jonathan/skill-monitor/internal/db"
	"github.com/jonathan/skill-monitor/internal/dictionary"
	"github.com/jonathan/skill-monitor/internal/events"
	"github.com/jonathan/skill-monitor/internal/metrics"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/recommend"
)

// backends holds the optional external services named in the configuration
type backends struct {
	db        *db.DB
	cache     cache.SnapshotCache
	publisher events.Publisher
	metrics   *metrics.Metrics
	closers   []func()
}

// openBackends connects every configured backend. An unreachable cache or broker is logged and
// skipped; an unreachable database is an error because it holds profiles and runs.
func openBackends(ctx context.Context) (*backends, error) {
	b := &backends{publisher: events.NopPublisher{}, metrics: metrics.New()}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		b.db = database
		b.closers = append(b.closers, database.Close)
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, snapshot cache disabled", zap.Error(err))
		} else {
			b.cache = cache.NewRedisCache(client, cfg.CacheTTL)
			b.closers = append(b.closers, func() { _ = client.Close() })
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka unavailable, recommendation events disabled", zap.Error(err))
		} else {
			b.publisher = publisher
			b.closers = append(b.closers, func() { _ = publisher.Close() })
		}
	}

	return b, nil
}

// Close releases backends in reverse order of opening
func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// runStore returns the database as a pipeline.RunStore, or nil when none is configured
func (b *backends) runStore() pipeline.RunStore {
	if b.db == nil {
		return nil
	}
	return b.db
}

// snapshots locates the latest market snapshot: cache, then database, then path
func (b *backends) snapshots(path string) pipeline.SnapshotSource {
	src := pipeline.SnapshotSource{Cache: b.cache, Path: path}
	if b.db != nil {
		src.Store = b.db
	}
	return src
}

// profileStore prefers the database and falls back to one JSON file per user
func (b *backends) profileStore() profile.Store {
	if b.db != nil {
		return db.NewProfileStore(b.db)
	}
	return profile.NewFileStore(cfg.UsersDir)
}

// loadDictionary returns the configured dictionary set
func loadDictionary() (*dictionary.Set, error) {
	set, err := dictionary.Load(cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	return set, nil
}

// newRecommender wires profiles, catalog and publisher together
func newRecommender(b *backends, set *dictionary.Set, catalogPath string) (*pipeline.Recommender, error) {
	catalog, err := recommend.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	canon := parsing.NewCanonicalizer(set)
	return &pipeline.Recommender{
		Profiles:  profile.NewService(b.profileStore(), canon, logger),
		Generator: recommend.NewGenerator(catalog, set.ObjectivePaths, &recommend.Config{MaxCritical: cfg.MaxCritical}),
		Canon:     canon,
		Publisher: b.publisher,
		Metrics:   b.metrics,
		Logger:    logger,
		TopN:      cfg.TopN,
	}, nil
}
