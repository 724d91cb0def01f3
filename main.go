package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/toneforge/toneforge-api/internal/api"
	"github.com/toneforge/toneforge-api/internal/config"
	"github.com/toneforge/toneforge-api/internal/host"
	"github.com/toneforge/toneforge-api/internal/llm"
	"github.com/toneforge/toneforge-api/internal/metrics"
	"github.com/toneforge/toneforge-api/internal/observability"
	"github.com/toneforge/toneforge-api/internal/services"
	"github.com/toneforge/toneforge-api/internal/storage"
	"github.com/toneforge/toneforge-api/internal/undoredo"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "toneforge-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("Sentry not configured (SENTRY_DSN not set)")
	}

	if cfg.LangfuseEnabled && cfg.LangfuseSecretKey != "" {
		os.Setenv("LANGFUSE_PUBLIC_KEY", cfg.LangfusePublicKey)
		os.Setenv("LANGFUSE_SECRET_KEY", cfg.LangfuseSecretKey)
		if cfg.LangfuseHost != "" {
			os.Setenv("LANGFUSE_HOST", cfg.LangfuseHost)
		}
	}
	observability.InitializeLangfuse(context.Background(), cfg)

	log.Printf("Auth mode: %s", cfg.AuthMode)

	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsClient, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		log.Printf("CloudWatch metrics client unavailable: %v", err)
	}

	deps := &api.Dependencies{
		Config:      cfg,
		HostClient:  host.NewClient(cfg.HostBaseURL),
		UndoManager: undoredo.NewManager(),
		Providers:   llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey),
		Metrics:     metricsClient,
	}

	if cfg.RequiresDatabase() {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		deps.DB = db

		repository := storage.NewRepository(db)
		if err := repository.Migrate(); err != nil {
			log.Fatalf("Failed to migrate database tables: %v", err)
		}
		deps.Repository = repository

		emailService, err := services.NewEmailService(db, cfg)
		if err != nil {
			log.Printf("Email service unavailable (invitations/verification will fail): %v", err)
		}
		deps.EmailService = emailService
	}

	router := api.SetupRouter(deps, GetVersion())

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting toneforge-api on port %s", port)
	if err := router.Run(":" + port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
