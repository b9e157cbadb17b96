package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"talent-match/internal/config"
	"talent-match/internal/database"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
	vecpostgres "talent-match/internal/vector/postgres"
)

// Container wires the engine: config, stores and the matching usecase.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	MatchUC *usecase.Matching
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	matchUC := usecase.NewMatchingUsecase(
		repository.NewPostgresOpportunityRepository(db),
		repository.NewPostgresCandidateRepository(db),
		repository.NewPostgresNotificationRepository(db),
		vecpostgres.NewStore(db, cfg.Matching.EmbeddingDim),
		usecase.NewCachedMatches(redisCache, cfg.Matching.CacheTTL, logger),
		cfg.Matching,
		logger,
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   redisCache,
		MatchUC: matchUC,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
