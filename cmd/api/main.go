package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aaryasekhar/rchxtype/internal/config"
	"github.com/aaryasekhar/rchxtype/internal/db"
	apihttp "github.com/aaryasekhar/rchxtype/internal/http"
	"github.com/aaryasekhar/rchxtype/internal/llm"
	"github.com/aaryasekhar/rchxtype/internal/observability"
	"github.com/aaryasekhar/rchxtype/internal/repository"
	"github.com/aaryasekhar/rchxtype/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.LogDebug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	userRepo := repository.NewPgUserRepository(pool)
	responseRepo := repository.NewPgResponseRepository(pool)
	signalRepo := repository.NewPgSignalRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	preferencesRepo := repository.NewPgPreferencesRepository(pool)

	engine, err := llm.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("reasoning engine", zap.Error(err))
	}
	engine = observability.NewInstrumentedEngine(engine, llm.ProviderName(engine), metrics)

	var locker service.SynthesisLocker = service.NewMemorySynthesisLocker()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-process synthesis lock", zap.Error(err))
		} else {
			locker = service.NewRedisSynthesisLocker(redisClient, cfg.SynthesisLockTTL, logger)
		}
		cancel()
	}

	aggregator := service.NewEvidenceAggregator(userRepo, responseRepo, signalRepo, logger,
		service.WithSampleSizes(cfg.SignalSampleSize, cfg.TagSampleSize))
	adapter := service.NewReasoningAdapter(engine, metrics, logger)
	synthesisSvc := service.NewSynthesisService(aggregator, adapter, userRepo, responseRepo, profileRepo, locker, metrics, logger, cfg.ReasoningTimeout)
	profileSvc := service.NewProfileService(userRepo, responseRepo, signalRepo, profileRepo, logger)
	matchingSvc := service.NewMatchingService(profileRepo, userRepo, preferencesRepo, metrics, logger, cfg.MatchConcurrency)
	integrationSvc := service.NewIntegrationService(signalRepo, logger)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)

	router := apihttp.NewRouter(logger, metrics, jwtSvc,
		apihttp.NewPersonalityHandler(logger, synthesisSvc, profileSvc),
		apihttp.NewMatchingHandler(logger, matchingSvc),
		apihttp.NewIntegrationHandler(logger, integrationSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("reasoning_provider", cfg.LLMProvider),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
