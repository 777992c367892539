package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/edurate/edurate-api/internal/handler"
	"github.com/edurate/edurate-api/internal/middleware"
	"github.com/edurate/edurate-api/internal/repository"
	"github.com/edurate/edurate-api/internal/scraper"
	"github.com/edurate/edurate-api/internal/service"
	"github.com/edurate/edurate-api/pkg/cache"
	"github.com/edurate/edurate-api/pkg/config"
	"github.com/edurate/edurate-api/pkg/database"
	"github.com/edurate/edurate-api/pkg/jobs"
	"github.com/edurate/edurate-api/pkg/logger"
	corsmiddleware "github.com/edurate/edurate-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edurate/edurate-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	teacherRepo := repository.NewTeacherRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	metricsSvc := service.NewMetricsService()

	classifier := scraper.NewClassifier(scraper.ClassifierConfig{
		MinLength: cfg.Scrape.NameMinLength,
		MaxLength: cfg.Scrape.NameMaxLength,
		Denylist:  cfg.Scrape.Denylist,
	})

	var extractor scraper.Extractor = scraper.SelectorExtractor{Selectors: cfg.Scrape.Selectors}
	if cfg.Scrape.Strategy == config.StrategyText {
		extractor = scraper.TextExtractor{Classifier: classifier}
	}

	directoryScraper := scraper.New(scraper.Config{
		SourceURL:       cfg.Scrape.SourceURL,
		UserAgent:       cfg.Scrape.UserAgent,
		Timeout:         cfg.Scrape.HTTPTimeout,
		FollowPages:     cfg.Scrape.FollowPages,
		MaxPages:        cfg.Scrape.MaxPages,
		ResultsPathHint: cfg.Scrape.ResultsPathHint,
	}, extractor, logr)

	rosterSvc := service.NewRosterService(teacherRepo, cacheRepo, classifier, logr)
	scrapeSvc := service.NewScrapeService(directoryScraper, rosterSvc, cfg.Scrape.School, metricsSvc, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, reviewRepo, cacheRepo, cfg.Redis.TeacherListTTL, cfg.Public, metricsSvc, logr)
	reviewSvc := service.NewReviewService(reviewRepo, teacherRepo, logr)
	moderationSvc := service.NewModerationService(reviewRepo, scrapeSvc, cfg.Admin, cfg.Public, validator.New(), logr)

	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc, cfg.Public.ReviewListLimit)
	adminHandler := handler.NewAdminHandler(moderationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	r.GET("/teachers", teacherHandler.Search)
	r.GET("/teacher", teacherHandler.Get)
	r.GET("/reviews", reviewHandler.List)
	r.POST("/reviews", reviewHandler.Submit)
	r.GET("/top", teacherHandler.Top)
	r.POST("/top", teacherHandler.Top)

	admin := r.Group("/admin")
	{
		admin.POST("/pending", adminHandler.Pending)
		admin.POST("/approve", adminHandler.Approve)
		admin.POST("/reject", adminHandler.Reject)
		admin.POST("/scrape", adminHandler.Scrape)
		admin.POST("/export", adminHandler.Export)
	}

	if cfg.Scrape.Enabled {
		scheduler := jobs.NewScheduler("directory-scrape", cfg.Scrape.Interval, func(ctx context.Context) error {
			_, err := scrapeSvc.Run(ctx)
			return err
		}, logr)
		scheduler.Start(context.Background())
		defer scheduler.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
