package app

import (
	"context"
	"time"

	"hirelane/internal/ai"
	"hirelane/internal/config"
	"hirelane/internal/database"
	dbpostgres "hirelane/internal/database/postgres"
	"hirelane/internal/delivery/http/middleware"
	"hirelane/internal/infrastructure/cache"
	"hirelane/internal/logger"
	"hirelane/internal/metrics"
	"hirelane/internal/pkg/jwt"
	"hirelane/internal/repository"
	"hirelane/internal/usecase"
	"hirelane/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	JWT     jwt.Service
	Hub     *ws.Hub

	AuthMiddleware *middleware.AuthMiddleware

	Auth            usecase.AuthUsecase
	Account         usecase.AccountUsecase
	Matching        usecase.MatchingUsecase
	Recommendations usecase.RecommendationUsecase
	Applications    usecase.ApplicationUsecase
	Resume          usecase.ResumeUsecase
	Status          usecase.StatusUsecase
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, log),
		Metrics: metrics.New(),
		JWT: jwt.NewHMACService(
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
		Hub: ws.NewHub(log),
	}
	c.AuthMiddleware = middleware.NewAuthMiddleware(c.JWT)

	accounts := repository.NewPostgresAccountRepository(db)
	opportunities := repository.NewPostgresOpportunityRepository(db)
	applications := repository.NewPostgresApplicationRepository(db)

	var (
		augmenter usecase.Augmenter
		content   usecase.ContentGenerator
	)
	if cfg.AI.Enabled {
		gen, err := ai.NewGeminiGenerator(ctx, cfg.AI, c.Metrics, log)
		if err != nil {
			log.Warn("ai disabled, using deterministic matching only", zap.Error(err))
		} else {
			augmenter = ai.NewAugmenter(gen, cfg.AI.Timeout, log)
			content = ai.NewContentService(gen, 0, log)
		}
	}

	pipeline := usecase.NewMatchPipeline(usecase.MatchPipelineOptions{
		Augmenter: augmenter,
		Cache:     c.Cache,
		CacheTTL:  cfg.Redis.TTL,
		Timeout:   cfg.AI.Timeout,
		Metrics:   c.Metrics,
		Logger:    log,
	})

	c.Auth = usecase.NewAuthUsecase(accounts, c.JWT)
	c.Account = usecase.NewAccountUsecase(accounts)
	c.Matching = usecase.NewMatchingUsecase(accounts, opportunities, pipeline)
	c.Recommendations = usecase.NewRecommendationUsecase(accounts, opportunities)
	c.Applications = usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Applications:  applications,
		Opportunities: opportunities,
		Accounts:      accounts,
		Pipeline:      pipeline,
		Cache:         c.Cache,
		Notifier:      ws.NewNotifier(c.Hub),
		Metrics:       c.Metrics,
		Logger:        log,
	})
	c.Resume = usecase.NewResumeUsecase(content)
	c.Status = usecase.NewStatusUsecase(repository.NewPostgresStatusRepository(db), db, c.Cache, pipeline.AIEnabled())

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
