package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/shivanmeymo/swed-event-finder-sub000/api/swagger"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/handler"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/middleware"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/repository"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/service"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/cache"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/config"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/database"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/logger"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/mailer"
	corsmiddleware "github.com/shivanmeymo/swed-event-finder-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/shivanmeymo/swed-event-finder-sub000/pkg/middleware/requestid"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/token"
)

// @title Swed Event Finder API
// @version 1.0.0
// @description Event submission, moderation and subscriber notification service
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var snapshots *repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		snapshots = repository.NewCacheRepository(redisClient)
	}

	mail, err := mailer.NewSMTP(cfg.Mail)
	if err != nil {
		logr.Sugar().Fatalw("failed to init mailer", "error", err)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	signer := token.NewSigner(cfg.Moderation.TokenSecret, cfg.Moderation.TokenTTL)

	eventRepo := repository.NewEventRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	identity := repository.NewIdentityClient(cfg.Retention.IdentityURL)

	notifyCfg := service.NotificationServiceConfig{
		SendTimeout: cfg.Notify.SendTimeout,
		CacheTTL:    cfg.Notify.SubscriptionsCacheTTL,
	}
	var notifications *service.NotificationService
	if snapshots != nil {
		notifications = service.NewNotificationService(subscriptionRepo, snapshots, mail, metrics, logr, notifyCfg)
	} else {
		notifications = service.NewNotificationService(subscriptionRepo, nil, mail, metrics, logr, notifyCfg)
	}

	moderation := service.NewModerationService(eventRepo, notifications, signer, metrics, logr, cfg.PublicURL)
	events := service.NewEventService(eventRepo, moderation, mail, validate, logr, cfg.Moderation.ModeratorEmail, cfg.Notify.SendTimeout)
	subscriptions := service.NewSubscriptionService(subscriptionRepo, notifications, validate, logr)
	retention := service.NewRetentionService(profileRepo, eventRepo, subscriptionRepo, identity, mail, metrics, logr, cfg.PublicURL, service.RetentionServiceConfig{
		WarnAfter:   cfg.Retention.WarnAfter,
		DeleteAfter: cfg.Retention.DeleteAfter,
		SendTimeout: cfg.Notify.SendTimeout,
	})

	confirmURL := cfg.PublicURL + cfg.Moderation.ConfirmPath
	eventHandler := handler.NewEventHandler(events)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptions)
	moderationHandler := handler.NewModerationHandler(moderation, confirmURL)
	notificationHandler := handler.NewNotificationHandler(events, notifications)
	retentionHandler := handler.NewRetentionHandler(retention)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	r.POST("/events", eventHandler.Submit)
	r.GET("/events", eventHandler.List)
	r.GET("/events/:id", eventHandler.Get)
	r.DELETE("/events/:id", eventHandler.Delete)

	r.GET("/moderate", moderationHandler.Moderate)
	r.POST("/notify", notificationHandler.Notify)
	r.POST("/subscriptions", subscriptionHandler.Create)

	r.GET("/extend", retentionHandler.Extend)
	r.POST("/tasks/retention", retentionHandler.RunBatch)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Retention.Interval > 0 {
		go runRetentionLoop(retention, cfg.Retention.Interval, logr.Sugar())
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func runRetentionLoop(retention *service.RetentionService, interval time.Duration, logr *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		summary := retention.Run(context.Background())
		logr.Infow("scheduled retention batch finished",
			"warned", summary.Warned,
			"deleted", summary.Deleted,
			"errors", summary.Errors,
		)
	}
}
