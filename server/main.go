package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dently/api/routes"
	"dently/internal/notifications"
	"dently/internal/pending"
	"dently/internal/reminders"
	"dently/internal/shared/config"
	"dently/internal/shared/database"
	"dently/pkg/logger"
	"dently/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// InitDB runs the schema migrations as part of startup.
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Pending-booking store: Redis when enabled so pending entries survive
	// an API restart mid-payment, in-memory otherwise. Either way the store
	// holds only unpaid bookings; losing it loses nothing that was paid for.
	var pendingStore pending.Store
	if db.Redis != nil {
		redisStore := pending.NewRedisStore(db.GetRedisClient(), cfg.Booking.PendingTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := redisStore.PreloadScripts(ctx); err != nil {
			appLogger.Error("failed to preload Redis Lua scripts", slog.Any("error", err))
			// Continue without failing - scripts will be loaded on first use
		}
		cancel()
		pendingStore = redisStore
		appLogger.Info("Pending-booking store: redis", slog.Duration("ttl", cfg.Booking.PendingTTL))
	} else {
		pendingStore = pending.NewMemoryStore(cfg.Booking.PendingTTL, nil)
		appLogger.Info("Pending-booking store: in-memory", slog.Duration("ttl", cfg.Booking.PendingTTL))
	}

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			WebhookRequests: cfg.RateLimit.WebhookRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Notification pipeline
	var emailService notifications.EmailService
	if cfg.Email.SMTPHost != "" {
		smtpService, err := notifications.NewSMTPEmailService(notifications.NewSMTPConfig(cfg.Email))
		if err != nil {
			appLogger.Error("failed to initialize SMTP email service", slog.Any("error", err))
			os.Exit(1)
		}
		emailService = smtpService
	} else {
		emailService = notifications.NewMockEmailService()
		appLogger.Info("SMTP not configured, emails will be logged only")
	}

	notificationService, err := notifications.NewService(cfg, emailService, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize notification service", slog.Any("error", err))
		os.Exit(1)
	}

	notificationCtx, notificationCancel := context.WithCancel(context.Background())
	defer notificationCancel()
	if err := notificationService.Start(notificationCtx, 3); err != nil {
		appLogger.Error("failed to start notification consumers", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := notificationService.Stop(); err != nil {
			appLogger.Error("error stopping notification service", slog.Any("error", err))
		}
	}()

	router, engine := setupRouter(cfg, db, pendingStore, notificationService, rateLimiter, appLogger)

	// In-process reminder scheduling, alongside the external cron endpoint.
	if cfg.Reminders.Enabled {
		scheduler, err := reminders.NewScheduler(router.ReminderService(), cfg.Reminders.CronSpec, appLogger)
		if err != nil {
			appLogger.Error("failed to create reminder scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.Bool("redis", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, pendingStore pending.Store, notifier notifications.Sender, rateLimiter *ratelimit.RateLimiter, appLogger *logger.Logger) (*routes.Router, *gin.Engine) {
	engine := gin.New()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter := routes.NewRouter(cfg, db, pendingStore, notifier, appLogger)
	appRouter.SetupRoutes(engine)

	return appRouter, engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
