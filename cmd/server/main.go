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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio/adapters/http"
	"github.com/khoahotran/portfolio/adapters/media_storage"
	"github.com/khoahotran/portfolio/adapters/persistence"
	authUC "github.com/khoahotran/portfolio/internal/application/usecase/auth"
	backupUC "github.com/khoahotran/portfolio/internal/application/usecase/backup"
	contentUC "github.com/khoahotran/portfolio/internal/application/usecase/content"
	seedUC "github.com/khoahotran/portfolio/internal/application/usecase/seed"
	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
	"github.com/khoahotran/portfolio/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Start Portfolio API Server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "portfolio-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize dependencies
	store, closeStore, err := persistence.NewStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open record store", err)
	}
	defer closeStore()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewDocumentUserRepo(store)
	jobRepo := persistence.NewRedisJobStore(redisClient, cfg.Redis.JobTTL)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	var backupUseCase *backupUC.BackupUseCase
	archive, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Backups disabled", zap.Error(err))
	} else {
		backupUseCase = backupUC.NewBackupUseCase(store, archive, appLogger)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	contentUseCase := contentUC.NewContentUseCase(store, appLogger)
	jobUseCase := seedUC.NewJobUseCase(jobRepo, kafkaClient, cfg.IsProduction(), appLogger)

	// HTTP Handlers
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		AuthHandler:    httpAdapter.NewAuthHandler(loginUseCase, appLogger),
		ContentHandler: httpAdapter.NewContentHandler(contentUseCase, appLogger),
		SeedHandler:    httpAdapter.NewSeedHandler(jobUseCase, backupUseCase, appLogger),
		JWTService:     jwtSvc,
		Logger:         appLogger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           httpAdapter.WithCORS(router, cfg.App.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
