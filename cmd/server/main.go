package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bpi.backend/internal/config"
	"bpi.backend/internal/infrastructure/datasources/postgres"
	"bpi.backend/internal/infrastructure/gateway/flutterwave"
	"bpi.backend/internal/infrastructure/jobs"
	"bpi.backend/internal/infrastructure/mailer"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/internal/infrastructure/repositories"
	"bpi.backend/internal/interfaces/http/handlers"
	"bpi.backend/internal/interfaces/http/middleware"
	"bpi.backend/internal/usecases"
	"bpi.backend/pkg/jwt"
	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = postgres.NewConnection
	migrateDB  = func(db *gorm.DB) error { return db.AutoMigrate(models.All()...) }
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyStop = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs idempotency keys and webhook locks. Both degrade gracefully,
	// so a Redis outage is logged rather than fatal.
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Warn(ctx, "Redis unavailable, idempotency and webhook locks disabled", zap.Error(err))
	} else {
		defer redis.Close()
		logger.Info(ctx, "Redis initialized")
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := migrateDB(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "Connected to PostgreSQL")

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	revenueRepo := repositories.NewRevenueRepository(db)
	poolRepo := repositories.NewPoolRepository(db)
	packageRepo := repositories.NewMembershipPackageRepository(db)
	bankAccountRepo := repositories.NewBankAccountRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	settingRepo := repositories.NewAdminSettingRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Infrastructure
	gateway := flutterwave.NewClient(cfg.Flutterwave)
	smtpMailer := mailer.NewSMTPMailer(settingRepo, cfg.SMTP)

	// Usecases
	auditUsecase := usecases.NewAuditUsecase(auditRepo)
	notificationUsecase := usecases.NewNotificationUsecase(notificationRepo, userRepo, smtpMailer)
	revenueUsecase := usecases.NewRevenueUsecase(revenueRepo, poolRepo, auditUsecase, uow)
	paymentUsecase := usecases.NewPaymentUsecase(userRepo, transactionRepo, auditUsecase, uow, cfg.Flutterwave)
	membershipUsecase := usecases.NewMembershipUsecase(packageRepo, userRepo, paymentUsecase, revenueUsecase, notificationUsecase, uow)
	walletUsecase := usecases.NewWalletUsecase(
		userRepo, transactionRepo, bankAccountRepo,
		revenueUsecase, auditUsecase, notificationUsecase,
		gateway, uow, cfg.Wallet, cfg.App.URL,
	)
	webhookUsecase := usecases.NewWebhookUsecase(transactionRepo, userRepo, auditUsecase, notificationUsecase, gateway, uow, cfg.App.URL)
	dashboardUsecase := usecases.NewDashboardUsecase(transactionRepo)

	// Background jobs
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	expiryJob := jobs.NewPendingDepositExpiryJob(transactionRepo, cfg.Wallet.PendingDepositTTL, cfg.Wallet.ExpirySweepInterval)
	go expiryJob.Start(jobCtx)

	r := newRouter(routeDeps{
		walletHandler:     handlers.NewWalletHandler(walletUsecase),
		paymentHandler:    handlers.NewPaymentHandler(paymentUsecase),
		dashboardHandler:  handlers.NewDashboardHandler(dashboardUsecase),
		membershipHandler: handlers.NewMembershipHandler(membershipUsecase),
		webhookHandler:    handlers.NewWebhookHandler(webhookUsecase),
		adminHandler:      handlers.NewAdminHandler(revenueUsecase, walletUsecase, paymentUsecase, auditUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withCORS(r, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-notifyStop()
		logger.Info(ctx, "Shutting down server")
		expiryJob.Stop()
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "BPI backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "/api/v1"),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	// let queued notification emails finish before exiting
	notificationUsecase.Wait()
	return nil
}
