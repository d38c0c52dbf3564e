package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/adapters/external/imgbb"
	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/external/mapbox"
	"homyhive/internal/adapters/external/razorpay"
	"homyhive/internal/adapters/external/sms"
	"homyhive/internal/adapters/external/supabase"
	"homyhive/internal/adapters/http/middleware"
	"homyhive/internal/adapters/http/routes"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/adapters/session"
	"homyhive/internal/config"
	"homyhive/internal/core/services"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"

	_ "homyhive/docs" // Swagger docs
)

// @title HomyHive API
// @version 1.0
// @description Vacation rental marketplace: listings, host onboarding, bookings and reviews
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@homyhive.com

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if cfg.IsDev() {
		if err := config.NewSeeder(db, cfg).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed database: %v", err)
		}
	}

	// Review store
	reviewDB, err := config.ConnectReviewStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to review store: %v", err)
	}
	defer config.CloseReviewStore()

	reviews := reviewstore.NewStore(reviewDB)
	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := reviews.EnsureSchema(schemaCtx); err != nil {
		cancel()
		log.Fatalf("❌ Failed to prepare review store: %v", err)
	}
	cancel()

	// Sessions and rate limiter counters
	var sessionStorage, limiterStorage fiber.Storage
	redisClient, err := config.ConnectRedis(cfg)
	switch {
	case err == nil:
		defer config.CloseRedis()
		sessionStorage = session.NewStorage(redisClient, session.SessionPrefix, session.SessionTTL)
		limiterStorage = session.NewStorage(redisClient, session.LimiterPrefix, time.Minute)
	case cfg.IsDev():
		log.Printf("⚠️ Redis unavailable, keeping sessions in memory: %v", err)
	default:
		log.Fatalf("❌ Failed to connect to redis: %v", err)
	}
	sessions := middleware.NewSessionStore(cfg, sessionStorage)

	deps := routes.Deps{
		Config:         cfg,
		Log:            appLog,
		DB:             db,
		Reviews:        reviews,
		Sessions:       sessions,
		LimiterStorage: limiterStorage,
		Validator:      validator.MustNew(),
		Payments:       razorpay.NewClient(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.Timeout),
		Images:         imgbb.NewClient(cfg.ImageHost.BaseURL, cfg.ImageHost.APIKey),
		Geocoder:       mapbox.NewGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.Token, cfg.Geocoder.RPS),
		Mail:           newMailer(cfg, appLog),
		SMS:            newSMS(cfg, appLog),
		Identity:       supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey),
	}
	if cfg.Chat.BaseURL != "" {
		deps.Chat = chat.NewClient(cfg.Chat.BaseURL, cfg.Chat.QueryRoute, cfg.Chat.Timeout)
	} else {
		log.Println("⚠️ RAG_BACKEND_URL not set, chat assistant disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HomyHive API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    int(services.MaxDocumentSize) * 4,
	})

	// Setup middlewares
	middleware.Setup(app, cfg, limiterStorage)

	// Setup routes
	cronService := routes.Setup(app, deps)

	// Start scheduled maintenance
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newMailer uses SES when enabled and a logging mailer otherwise
func newMailer(cfg *config.Config, appLog logger.Logger) *mailer.Mailer {
	if !cfg.Mail.SESEnabled {
		return mailer.New(nil, cfg.Mail.From, appLog)
	}
	m, err := mailer.NewSES(context.Background(), cfg.Mail.Region, cfg.Mail.From, appLog)
	if err != nil {
		appLog.Warn("ses unavailable, email will only be logged", map[string]interface{}{"error": err.Error()})
		return mailer.New(nil, cfg.Mail.From, appLog)
	}
	return m
}

// newSMS uses SNS when enabled and a logging sender otherwise
func newSMS(cfg *config.Config, appLog logger.Logger) *sms.Sender {
	if !cfg.Mail.SNSEnabled {
		return sms.New(nil, appLog)
	}
	s, err := sms.NewSNS(context.Background(), cfg.Mail.Region, appLog)
	if err != nil {
		appLog.Warn("sns unavailable, sms will only be logged", map[string]interface{}{"error": err.Error()})
		return sms.New(nil, appLog)
	}
	return s
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
