package main

// @title LeadDesk API
// @version 1.0
// @description Loan application intake and staff dashboard API.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lendhub/leaddesk/config"
	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/api"
	"github.com/lendhub/leaddesk/pkg/api/handlers"
	custommiddleware "github.com/lendhub/leaddesk/pkg/api/middleware"
	"github.com/lendhub/leaddesk/pkg/appointments"
	"github.com/lendhub/leaddesk/pkg/auth"
	"github.com/lendhub/leaddesk/pkg/cache"
	"github.com/lendhub/leaddesk/pkg/crm"
	"github.com/lendhub/leaddesk/pkg/database"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/email"
	"github.com/lendhub/leaddesk/pkg/export"
	"github.com/lendhub/leaddesk/pkg/jobs"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/secrets"
	"github.com/lendhub/leaddesk/pkg/slack"
	"github.com/lendhub/leaddesk/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	// Credentials may live in AWS Secrets Manager instead of the environment
	secretsManager, err := secrets.NewManager(secrets.Config{
		Backend:       cfg.SecretsBackend,
		AWSRegion:     cfg.AWSRegion,
		SecretID:      cfg.SecretsID,
		CacheDuration: cfg.SecretsCacheTTL,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize secrets manager: %v", err)
	}
	secretsCtx, cancelSecrets := context.WithTimeout(context.Background(), 10*time.Second)
	if err := secrets.Apply(secretsCtx, secretsManager, cfg); err != nil {
		cancelSecrets()
		log.Fatalf("❌ Failed to load secrets: %v", err)
	}
	cancelSecrets()
	log.Printf("✅ Secrets loaded (backend: %s)", cfg.SecretsBackend)

	appLog := logger.New(cfg.LogLevel)
	loc := cfg.Location()

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	// Initialize database with SSL configuration
	sslCfg := &database.SSLConfig{
		Mode:         cfg.DBSSLMode,
		CertPath:     cfg.DBSSLCertPath,
		KeyPath:      cfg.DBSSLKeyPath,
		RootCertPath: cfg.DBSSLRootCertPath,
	}
	db, err := database.Open(startCtx, cfg.DatabaseDriver, cfg.DatabaseURL, database.DefaultPoolConfig(), sslCfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis backs the analytics cache and token revocation; both degrade
	// gracefully without it
	var (
		redisClient    *cache.Client
		redisPinger    handlers.Pinger
		analyticsCache analytics.Cache
		blacklist      *auth.TokenBlacklist
	)
	redisClient, err = cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, analytics cache and logout disabled: %v", err)
	} else {
		defer redisClient.Close()
		redisPinger = redisClient
		blacklist = auth.NewTokenBlacklist(redisClient)
		if cfg.AnalyticsCacheEnabled {
			analyticsCache = redisClient
			log.Printf("✅ Analytics cache enabled (ttl: %s)", cfg.AnalyticsCacheTTL)
		}
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New(prometheus.DefaultRegisterer)
	log.Printf("✅ Prometheus metrics initialized")

	// Stores
	leadStore := store.NewLeadStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	crmSyncLogStore := store.NewCRMSyncLogStore(db)

	// Notifications
	emailService := email.NewService(cfg.EmailFrom, cfg.EmailFromName, cfg.SupportPhone, cfg.SendGridAPIKey)

	var staffAlerter domain.StaffAlerter
	if cfg.SlackWebhookURL != "" {
		staffAlerter = slack.NewService(slack.NewWebhookClient(cfg.SlackWebhookURL), loc)
		log.Printf("✅ Slack notifications enabled")
	} else {
		log.Printf("ℹ️  Slack notifications disabled (no webhook URL configured)")
	}

	// Services
	analyticsService := analytics.NewService(leadStore, analyticsCache, cfg.AnalyticsCacheTTL, loc, appLog)
	leadService := leads.NewService(leadStore, emailService, appLog,
		leads.WithStatusPolicy(leads.NewStatusPolicy(cfg.LeadStatusPolicy)),
		leads.WithStaffAlerter(staffAlerter),
		leads.WithWriteHook(analyticsService.Invalidate),
	)
	appointmentService := appointments.NewService(leadStore, appointmentStore, staffAlerter, cfg.MeetingBaseURL, appLog)
	crmService := crm.NewService(cfg.CRMSystem, leadStore, crmSyncLogStore, crm.NewHTTPClient(cfg.CRMEndpoint, cfg.CRMAPIKey), appLog)
	log.Printf("✅ Lead status policy: %s", leadService.Policy().Name())

	archive, err := export.NewArchiveStore(startCtx, export.ArchiveConfig{
		Type:               cfg.StorageType,
		LocalPath:          cfg.StorageLocalPath,
		AWSRegion:          cfg.AWSRegion,
		AWSAccessKeyID:     cfg.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.AWSSecretAccessKey,
		S3Bucket:           cfg.S3Bucket,
		S3Prefix:           cfg.S3Prefix,
	})
	if err != nil {
		log.Printf("⚠️  Export archiving disabled: %v", err)
		archive = nil
	} else if archive != nil {
		log.Printf("✅ Export archiving enabled (storage: %s)", cfg.StorageType)
	}

	// Initialize cron manager for reminders and pipeline stats
	monitor := jobs.NewPipelineMonitor(leadStore, prometheusMetrics, func() int {
		return db.Stats().InUse
	}, cfg.ReminderAfterDays, log.Default())
	cronManager := jobs.NewCronManager(leadService, monitor, cfg.ReminderSchedule, cfg.ReminderAfterDays, loc, log.Default())
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatalf("❌ Failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	log.Printf("✅ Cron jobs started successfully")

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	intakeRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	defer intakeRateLimiter.Stop()

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				appLog.Error("request", append(args, "error", v.Error)...)
				return nil
			}
			appLog.Info("request", args...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(prometheusMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))

	api.RegisterRoutes(e, api.Handlers{
		Health:      handlers.NewHealthHandler(db, redisPinger),
		Auth:        handlers.NewAuthHandler(blacklist),
		Application: handlers.NewApplicationHandler(leadService, prometheusMetrics),
		Lead:        handlers.NewLeadHandler(leadService, prometheusMetrics),
		Appointment: handlers.NewAppointmentHandler(appointmentService, prometheusMetrics),
		CRM:         handlers.NewCRMHandler(crmService, prometheusMetrics),
		Export:      handlers.NewExportHandler(leadService, analyticsService, archive, loc, prometheusMetrics, appLog),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService),
		Metrics:     echo.WrapHandler(promhttp.Handler()),
	}, api.Guards{
		Authenticate: custommiddleware.JWTMiddlewareWithBlacklist(cfg.JWTSecret, blacklist),
		RequireAdmin: custommiddleware.RequireAdmin(),
		IntakeLimit:  intakeRateLimiter.RateLimitMiddleware(),
	})

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 LeadDesk API starting on %s", address)
	log.Printf("📝 Log level: %s, timezone: %s", cfg.LogLevel, loc)
	log.Printf("🌍 CORS: %v", cfg.CORSAllowedOrigins)
	log.Printf("🛡️  Intake rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	log.Printf("⏰ Cron jobs: reminders %q (after %d days), pipeline stats every 15 minutes", cfg.ReminderSchedule, cfg.ReminderAfterDays)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Stop cron jobs, letting a running reminder batch finish
	<-cronManager.Stop().Done()
	log.Println("✅ Cron jobs stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
