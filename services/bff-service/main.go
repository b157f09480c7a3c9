package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	awspkg "github.com/Tiyani-source/MindMattersProject-sub002/pkg/aws"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/config"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/controllers"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/events"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/idempotency"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/routes"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/bff-service/sessions"
	apperrors "github.com/Tiyani-source/MindMattersProject-sub002/services/common/errors"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/common/logger"
	commonmw "github.com/Tiyani-source/MindMattersProject-sub002/services/common/middleware"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/appcontext"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/models"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/notify"
	"github.com/Tiyani-source/MindMattersProject-sub002/services/storefront/session"
)

func main() {
	cfg := config.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── CloudWatch Logs + Metrics ──
	var metricsClient *awspkg.MetricsClient
	if awspkg.CloudWatchEnabled() {
		if cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, "bff-service"); err == nil {
			logger.InitializeWithWriter(cfg.Env, cwLogs)
		} else {
			logger.Initialize(cfg.Env)
			logger.Log.Warn("CloudWatch Logs init failed", zap.Error(err))
		}
		if mc, err := awspkg.NewMetricsClient(ctx); err == nil {
			metricsClient = mc
		} else {
			logger.Log.Warn("CloudWatch Metrics init failed", zap.Error(err))
		}
	} else {
		logger.Initialize(cfg.Env)
	}
	defer logger.Log.Sync()
	log := logger.Log

	// Redis is optional: without it sessions live in memory and checkout
	// is not idempotent.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("connected to Redis")
	}

	var publisher *events.Publisher
	if cfg.OrderTopicArn != "" {
		if awsCfg, err := awspkg.LoadAWSConfig(ctx); err == nil {
			publisher = events.NewPublisher(awspkg.NewSNSClient(awsCfg), cfg.OrderTopicArn, log)
		} else {
			log.Warn("order events disabled", zap.Error(err))
		}
	}

	factory := func(ctx context.Context, id string) (*appcontext.AppContext, error) {
		var storage session.Storage = session.NewMemoryStorage()
		if redisClient != nil {
			storage = session.NewRedisStorage(redisClient, id, cfg.SessionTTL)
		}
		opts := appcontext.Options{
			BackendURL: cfg.BackendURL,
			Timeout:    cfg.RequestTimeout,
			Role:       models.Role(cfg.Role),
			Storage:    storage,
			Notifier:   notify.Multi(notify.ContextNotifier{}, notify.NewLogNotifier(log)),
			Logger:     log.With(zap.String("session_id", id)),
		}
		if metricsClient != nil {
			opts.Metrics = metricsClient
		}
		return appcontext.New(ctx, opts)
	}

	var regOpts []sessions.Option
	if metricsClient != nil {
		regOpts = append(regOpts, sessions.WithMetrics(metricsClient))
	}
	registry := sessions.NewRegistry(factory, cfg.SessionTTL, log, regOpts...)
	go registry.Run(ctx, time.Minute)

	ctrlOpts := controllers.Options{
		Events:       publisher,
		CookieSecure: cfg.CookieSecure,
		CookieTTL:    cfg.SessionTTL,
		Logger:       log,
	}
	if redisClient != nil {
		ctrlOpts.Idempotency = idempotency.NewStore(redisClient, cfg.IdemTTL)
	}
	if metricsClient != nil {
		ctrlOpts.Metrics = metricsClient
	}
	controller := controllers.NewBFFController(registry, ctrlOpts)

	limiter := commonmw.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst, 10*time.Minute)
	go limiter.Run(ctx)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		commonmw.RequestID(),
		commonmw.RequestLogger(log),
		commonmw.MetricsMiddleware(metricsClient, "bff-service"),
		commonmw.SecurityHeaders(),
		commonmw.CORSMiddleware(cfg.AllowedOrigins),
		commonmw.RateLimitMiddleware(limiter),
		apperrors.ErrorMiddleware(),
	)
	routes.RegisterRoutes(r, controller, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("BFF listening", zap.String("port", cfg.Port), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
