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

	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/jobs"
	"payportal.backend/internal/infrastructure/storage"
	"payportal.backend/internal/interfaces/http/handlers"
	"payportal.backend/internal/usecases"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/metrics"
	"payportal.backend/pkg/redis"
	"payportal.backend/pkg/validator"
)

const shutdownTimeout = 15 * time.Second

var (
	loadDotenv   = godotenv.Load
	loadCfg      = config.Load
	initLog      = logger.Init
	initRedis    = redis.Init
	openStore    = storage.Open
	runServer    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownWait = func() <-chan os.Signal {
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
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(ctx, "Redis initialized")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close(context.Background())
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "Store connected", zap.String("driver", store.Driver))

	reg := metrics.New()
	deps, outbox := buildDependencies(cfg, store, reg)

	jobCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go outbox.Start(jobCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-shutdownWait()
		logger.Info(context.Background(), "Shutting down server")
		outbox.Stop()
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "Payment portal starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildDependencies wires usecases and handlers over store
func buildDependencies(cfg *config.Config, store *storage.Backend, reg *metrics.Registry) (routeDeps, *jobs.NotificationOutboxJob) {
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.CustomerExpiry, cfg.JWT.EmployeeExpiry)
	hasher := crypto.NewPasswordHasher(cfg.Password.BcryptCost)
	validate := validator.New(validator.PasswordPolicy{
		MinLength:      cfg.Password.MinLength,
		RequireSpecial: cfg.Password.RequireSpecial,
	})

	authUsecase := usecases.NewAuthUsecase(store.Users, jwtService, hasher, validate)
	employeeUsecase := usecases.NewEmployeeAuthUsecase(store.Employees, jwtService, hasher, validate)
	paymentUsecase := usecases.NewPaymentUsecase(
		store.Payments,
		store.Notifications,
		store.History,
		store.UnitOfWork,
		validate,
		reg,
		usecases.PaymentOptions{
			AllowRetransition: cfg.Payment.AllowRetransition,
			RetryAttempts:     cfg.Payment.RetryAttempts,
			RetryBackoff:      cfg.Payment.RetryBackoff,
		},
	)
	notificationUsecase := usecases.NewNotificationUsecase(store.Notifications, validate)
	historyUsecase := usecases.NewHistoryUsecase(store.History, validate)

	checks := map[string]handlers.Pinger{"database": store.Ping}
	if client := redis.GetClient(); client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	deps := routeDeps{
		authHandler:         handlers.NewAuthHandler(authUsecase),
		employeeHandler:     handlers.NewEmployeeHandler(employeeUsecase),
		paymentHandler:      handlers.NewPaymentHandler(paymentUsecase),
		notificationHandler: handlers.NewNotificationHandler(notificationUsecase, historyUsecase),
		healthHandler:       handlers.NewHealthHandler(checks),
		jwtService:          jwtService,
		metrics:             reg,
		server:              cfg.Server,
		rateLimit:           cfg.RateLimit,
		bruteForce:          cfg.BruteForce,
	}
	outbox := jobs.NewNotificationOutboxJob(paymentUsecase, cfg.Outbox.Interval, cfg.Outbox.BatchSize)
	return deps, outbox
}
