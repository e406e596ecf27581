package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/fme-backend/internal/config"
	"github.com/ignatzorin/fme-backend/internal/db"
	httpHandlers "github.com/ignatzorin/fme-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/fme-backend/internal/http/router"
	"github.com/ignatzorin/fme-backend/internal/infrastructure/kyc"
	"github.com/ignatzorin/fme-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/fme-backend/internal/infrastructure/sms"
	apiHandler "github.com/ignatzorin/fme-backend/internal/interface/http/handler"
	"github.com/ignatzorin/fme-backend/internal/logger"
	"github.com/ignatzorin/fme-backend/internal/metrics"
	"github.com/ignatzorin/fme-backend/internal/ratelimit"
	"github.com/ignatzorin/fme-backend/internal/repository"
	"github.com/ignatzorin/fme-backend/internal/service"
	"github.com/ignatzorin/fme-backend/internal/storage"
	"github.com/ignatzorin/fme-backend/internal/usecase/learner"
	"github.com/ignatzorin/fme-backend/internal/usecase/verification"
	"github.com/ignatzorin/fme-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Redis необязателен: без REDIS_URL счётчики лимитов живут в памяти.
	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	if redisClient != nil {
		defer closeRedis(redisClient)
	}

	requestStore, err := ratelimit.NewStore(redisClient, "ratelimit")
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	attemptStore, err := ratelimit.NewStore(redisClient, "finalize")
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	appMetrics := metrics.New()

	fileStorage, err := storage.NewFileStorage(cfg.MediaStoragePath, cfg.PublicBaseURL, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	kycClient := kyc.NewClient(cfg.DojahAppID, cfg.DojahSecretKey, cfg.DojahNINValidationURL, cfg.RequestTimeout)
	smsClient := sms.NewClient(cfg.TermiiAPIKey, cfg.TermiiSenderID, cfg.TermiiChannel, cfg.TermiiSMSBaseURL, cfg.RequestTimeout)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	verificationRepo := persistence.NewVerificationRepositoryAdapter(dbConn)
	unitOfWork := persistence.NewUnitOfWork(dbConn)

	// Лента онбординга для дашборда.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Сервисы и use cases.
	authService := service.NewAuthService(userRepo, tokenManager)
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("main: не удалось создать администратора: %v", err)
	}

	initiateUC := verification.NewInitiateVerificationUseCase(verificationRepo, kycClient, smsClient, nil)
	initiateUC.SetEvents(hub)
	initiateUC.SetMetrics(appMetrics)

	attempts := ratelimit.NewAttemptLimiter(attemptStore, cfg.FinalizeMaxAttempts, cfg.FinalizeAttemptWindow)
	finalizeUC := verification.NewFinalizeVerificationUseCase(verificationRepo, attempts)
	finalizeUC.SetEvents(hub)
	finalizeUC.SetMetrics(appMetrics)

	resendUC := verification.NewResendTokenUseCase(verificationRepo, smsClient)
	resendUC.SetMetrics(appMetrics)

	linkUC := verification.NewLinkAccountUseCase(verificationRepo)
	linkUC.SetMetrics(appMetrics)

	createLearnerUC := learner.NewCreateLearnerUseCase(unitOfWork, linkUC, fileStorage, tokenManager)
	createLearnerUC.SetEvents(hub)
	createLearnerUC.SetMetrics(appMetrics)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, redisClient)
	verificationHandler := apiHandler.NewVerificationHandler(initiateUC, finalizeUC, resendUC)
	learnerHandler := apiHandler.NewLearnerHandler(createLearnerUC)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, requestStore, tokenManager, authService,
		authHandler, wsHandler, healthHandler, verificationHandler, learnerHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Printf("main: ошибка закрытия redis: %v", err)
	}
}
