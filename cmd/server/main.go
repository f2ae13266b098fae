// Package main provides the API server entry point for the academy backend.
package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/academy-backend/internal/api"
	"github.com/academy-backend/internal/config"
	"github.com/academy-backend/internal/email"
	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/service"
	"github.com/academy-backend/internal/storage"
	"github.com/academy-backend/internal/types"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Provider clients
	stripeClient := provider.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	mercadoPagoClient := provider.NewMercadoPagoClient(cfg.MercadoPago.AccessToken)
	resendClient := provider.NewResendClient(cfg.Resend.APIKey, cfg.Resend.From)
	bluelyticsClient := provider.NewBluelyticsClient()

	templates := email.NewTemplates(cfg.Site.URL)

	var (
		authBackend      service.AuthBackend
		dashboardService api.DashboardServiceInterface
		reconcileService api.ReconcileServiceInterface
		waitlistService  api.WaitlistServiceInterface
		rateCache        *storage.RedisCache
		closers          []func() error
	)

	if cfg.Auth.DemoMode {
		// Demo deployments run without Postgres, Redis or ClickHouse: two
		// hard-coded accounts, fixture dashboard data, webhooks acknowledged
		// but never reconciled.
		logger.Warn("DEMO_MODE enabled: running without databases")

		authBackend = service.NewDemoBackend()
		dashboardService = service.NewDemoDashboardService(logger)
		reconcileService = demoReconcile{}
		waitlistService = demoWaitlist{}
	} else {
		// Connect to Postgres
		postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Postgres")
		}
		closers = append(closers, func() error { postgres.Close(); return nil })

		// Connect to Redis
		redis, err := storage.NewRedisCache(&cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		closers = append(closers, redis.Close)
		rateCache = redis

		// ClickHouse audit log is optional
		var eventLog *storage.EventLogRepository
		if cfg.AuditLogEnabled() {
			clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
			if err != nil {
				logger.WithError(err).Fatal("Failed to connect to ClickHouse")
			}
			closers = append(closers, clickhouse.Close)

			eventLog = storage.NewEventLogRepository(clickhouse)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := eventLog.EnsureSchema(ctx); err != nil {
				logger.WithError(err).Fatal("Failed to prepare webhook audit log schema")
			}
			cancel()
		} else {
			logger.Info("Webhook audit log disabled: CLICKHOUSE_HOST not set")
			eventLog = storage.NewEventLogRepository(nil)
		}

		logger.Info("Database connections established")

		// Repositories
		profileRepo := storage.NewProfileRepository(postgres)
		paymentRepo := storage.NewPaymentRepository(postgres)
		progressRepo := storage.NewProgressRepository(postgres)
		notificationRepo := storage.NewNotificationRepository(postgres)
		waitlistRepo := storage.NewWaitlistRepository(postgres)
		sessionCache := storage.NewSessionCache(redis, cfg.Cache.SessionTTL)

		authBackend = service.NewStoreBackend(profileRepo, sessionCache, logger)
		dashboardService = service.NewDashboardService(progressRepo, paymentRepo, notificationRepo, profileRepo, logger)
		reconcileService = service.NewReconcileService(
			stripeClient,
			mercadoPagoClient,
			paymentRepo,
			profileRepo,
			progressRepo,
			notificationRepo,
			templates,
			resendClient,
			eventLog,
			logger,
		)
		waitlistService = service.NewWaitlistService(waitlistRepo, templates, resendClient, logger)
	}

	if cfg.Auth.JWTSecret == "" && !cfg.Auth.DemoMode {
		logger.Fatal("JWT_SECRET is required outside demo mode")
	}

	authService := service.NewAuthService(authBackend, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)
	checkoutService := service.NewCheckoutService(stripeClient, mercadoPagoClient, cfg.Site.URL, logger)
	rateService := service.NewRateService(bluelyticsClient, rateCache, cfg.Cache.ExchangeRateTTL, logger)

	serverConfig := &api.ServerConfig{
		Host:                    cfg.Server.Host,
		Port:                    cfg.Server.Port,
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            15 * time.Second,
		IdleTimeout:             60 * time.Second,
		ShutdownTimeout:         10 * time.Second,
		RequestsPerSecond:       cfg.RateLimit.RequestsPerSecond,
		Burst:                   cfg.RateLimit.Burst,
		StripeWebhookConfigured: cfg.Stripe.WebhookSecret != "",
	}

	server := api.NewServer(
		serverConfig,
		authService,
		checkoutService,
		reconcileService,
		dashboardService,
		waitlistService,
		rateService,
		api.PaymentKeys{
			StripePublishableKey: cfg.Stripe.PublishableKey,
			MercadoPagoPublicKey: cfg.MercadoPago.PublicKey,
		},
		logger,
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
		"demo": cfg.Auth.DemoMode,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.WithError(err).Warn("Error closing connection")
		}
	}

	logger.Info("Server exited")
}

// demoReconcile acknowledges webhook deliveries without touching any state.
type demoReconcile struct{}

func (demoReconcile) HandleStripeEvent(ctx context.Context, payload []byte, signatureHeader string) (types.WebhookOutcome, error) {
	return types.OutcomeIgnored, nil
}

func (demoReconcile) HandleMercadoPagoEvent(ctx context.Context, query url.Values, body []byte) types.WebhookOutcome {
	return types.OutcomeIgnored
}

// demoWaitlist accepts signups without persisting them.
type demoWaitlist struct{}

func (demoWaitlist) Signup(ctx context.Context, nombre, email string) error {
	return nil
}
