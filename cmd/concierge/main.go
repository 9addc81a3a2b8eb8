package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ljniox/ai-concierge-sub002/api/swagger"
	"github.com/ljniox/ai-concierge-sub002/internal/ai"
	"github.com/ljniox/ai-concierge-sub002/internal/chat"
	"github.com/ljniox/ai-concierge-sub002/internal/handler"
	"github.com/ljniox/ai-concierge-sub002/internal/repository"
	"github.com/ljniox/ai-concierge-sub002/internal/service"
	"github.com/ljniox/ai-concierge-sub002/pkg/cache"
	"github.com/ljniox/ai-concierge-sub002/pkg/config"
	"github.com/ljniox/ai-concierge-sub002/pkg/database"
	"github.com/ljniox/ai-concierge-sub002/pkg/jobs"
	"github.com/ljniox/ai-concierge-sub002/pkg/logger"
	corsmiddleware "github.com/ljniox/ai-concierge-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/ljniox/ai-concierge-sub002/pkg/middleware/requestid"
	"github.com/ljniox/ai-concierge-sub002/pkg/storage"
)

// @title AI Concierge API
// @version 0.1.0
// @description WhatsApp/Telegram concierge for the catechism service
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, cache and followups disabled", "error", err)
		redisClient = nil
	}

	fileStore, err := storage.NewLocalStorage(cfg.Files.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Files.SignedURLSecret, cfg.Files.SignedURLTTL)

	// Repositories.
	profileRepo := repository.NewProfileRepository(db)
	actionRepo := repository.NewActionRepository(db)
	actionLogRepo := repository.NewActionLogRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	renseignementRepo := repository.NewRenseignementRepository(db)
	catechumeneRepo := repository.NewCatechumeneRepository(db)
	classeRepo := repository.NewClasseRepository(db)
	inscriptionRepo := repository.NewInscriptionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	adminPhoneRepo := repository.NewAdminPhoneRepository(db)
	pageRepo := repository.NewPageRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	followupRepo := repository.NewFollowupRepository(redisClient)

	// Services.
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	aiRegistry := ai.NewRegistryFromConfig(cfg.AI, logr)

	renseignementService := service.NewRenseignementService(renseignementRepo, cacheService, nil, logr)
	catechumeneService := service.NewCatechumeneService(catechumeneRepo, nil, logr)
	classeService := service.NewClasseService(classeRepo, logr)
	inscriptionService := service.NewInscriptionService(inscriptionRepo, catechumeneRepo, classeRepo, nil, logr)

	adminService := service.NewAdminService(renseignementRepo, adminPhoneRepo, followupRepo, cfg.Admin.SuperAdminPhones, logr)
	actionService := service.NewActionService(actionRepo, operationRepo, actionLogRepo, cacheService, logr)
	intentService := service.NewIntentService(aiRegistry, followupRepo, renseignementRepo, cfg.AI.DefaultProvider, logr)
	routerService := service.NewRouterService(adminService, actionService, profileRepo, intentService, conversationRepo, logr)

	sessionService := service.NewSessionService(adminPhoneRepo, service.SessionConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	}, nil, logr)
	pageService := service.NewPageService(pageRepo, 24*time.Hour, nil, logr)
	statsService := service.NewStatsService(service.StatsServiceDeps{
		Catechumenes:   catechumeneRepo,
		Classes:        classeRepo,
		Inscriptions:   inscriptionRepo,
		Renseignements: renseignementRepo,
		ActionLogs:     actionLogRepo,
		Followups:      followupRepo,
		Metrics:        metricsService,
		Storage:        fileStore,
		Signer:         signer,
		Logger:         logr,
	})

	// Outbound channels.
	senders := []chat.Sender{chat.NewWahaClient(cfg.WhatsApp, logr)}
	if cfg.Telegram.BotToken != "" {
		tg, err := chat.NewTelegramClient(cfg.Telegram.BotToken, logr)
		if err != nil {
			logr.Sugar().Warnw("telegram client init failed", "error", err)
		} else {
			senders = append(senders, tg)
		}
	}
	dispatcher := chat.NewDispatcher(senders...)

	// Inbound messages are processed off the webhook request path.
	queue := jobs.NewQueue("webhooks", handler.ProcessorFunc(routerService.Route, dispatcher.Send, logr), jobs.QueueConfig{
		Workers:    cfg.Webhook.QueueWorkers,
		BufferSize: cfg.Webhook.QueueBufferSize,
		MaxRetries: cfg.Webhook.QueueMaxRetries,
		RetryDelay: cfg.Webhook.QueueRetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	go maintenanceLoop(ctx, cfg.Files.CleanupInterval, cfg.Files.SignedURLTTL, fileStore, pageService, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handlers := handler.Handlers{
		Webhook:       handler.NewWebhookHandler(queue, cfg.WhatsApp.VerifyToken, logr),
		Telegram:      handler.NewTelegramHandler(queue, cfg.Telegram.WebhookSecret, logr),
		Renseignement: handler.NewRenseignementHandler(renseignementService),
		Catechumene:   handler.NewCatechumeneHandler(catechumeneService),
		Classe:        handler.NewClasseHandler(classeService),
		Inscription:   handler.NewInscriptionHandler(inscriptionService),
		Session:       handler.NewSessionHandler(sessionService),
		Stats:         handler.NewStatsHandler(statsService),
		Page:          handler.NewPageHandler(pageService),
		File:          handler.NewFileHandler(statsService),
		Metrics:       handler.NewMetricsHandler(metricsService, db),
	}
	handler.Register(r, cfg.APIPrefix, handlers, sessionService, metricsService)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

// maintenanceLoop periodically drops expired export files and pages.
func maintenanceLoop(ctx context.Context, interval, fileTTL time.Duration, store *storage.LocalStorage, pages *service.PageService, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed, err := store.CleanupOlderThan(fileTTL); err != nil {
				logr.Sugar().Warnw("file cleanup failed", "error", err)
			} else if len(removed) > 0 {
				logr.Sugar().Infow("expired files removed", "count", len(removed))
			}
			if err := pages.PurgeExpired(ctx); err != nil {
				logr.Sugar().Warnw("page purge failed", "error", err)
			}
		}
	}
}
