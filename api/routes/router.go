package routes

import (
	"net/http"
	"time"

	"dently/internal/auth"
	"dently/internal/availability"
	"dently/internal/bookings"
	"dently/internal/calendar"
	"dently/internal/cancellation"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/internal/payments"
	"dently/internal/pending"
	"dently/internal/reminders"
	"dently/internal/shared/config"
	"dently/internal/shared/database"
	"dently/internal/shared/middleware"
	"dently/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	pendingStore pending.Store
	notifier     notifications.Sender
	log          *logger.Logger

	reminderService reminders.Service // exposed for the in-process scheduler
}

// NewRouter creates a new router instance. The pending store and notifier
// are owned by main because their lifecycles outlive request handling.
func NewRouter(cfg *config.Config, db *database.DB, pendingStore pending.Store, notifier notifications.Sender, log *logger.Logger) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		pendingStore: pendingStore,
		notifier:     notifier,
		log:          log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Shared collaborators
	calendarProvider := calendar.NewGormProvider(r.db.GetPostgreSQL(), r.config.Calendar)
	catalogLookup := catalog.NewLookup(catalog.NewRepository(r.db.GetPostgreSQL()))

	adminAuth := middleware.JWTAuth(r.config.JWT, r.log)
	cronAuth := middleware.CronAuth(r.config.CronSecret, r.log)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Service catalog
		catalog.SetupCatalogRoutes(api, catalog.NewController(catalogLookup))

		// Availability
		availabilityService := availability.NewService(calendarProvider, r.config.Clinic)
		availability.SetupAvailabilityRoutes(api, availability.NewController(availabilityService))

		// Payments + booking pipeline. The materializer is shared between
		// the webhook path and the bookings service.
		materializer := bookings.NewMaterializer(calendarProvider, catalogLookup, r.notifier, r.config.Calendar, r.log)
		paymentProvider := payments.NewComgateProvider(r.config.Payment)
		paymentService := payments.NewService(paymentProvider, r.pendingStore, catalogLookup, materializer, r.config.Booking, r.log)
		payments.SetupPaymentRoutes(api, payments.NewController(paymentService))

		bookingService := bookings.NewService(catalogLookup, r.pendingStore, calendarProvider, r.notifier, paymentService, r.log)
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), adminAuth)

		// Cancellation
		cancellationService := cancellation.NewService(calendarProvider, catalogLookup, r.notifier, r.config.Booking.CancellationCutoff, nil, r.log)
		cancellation.SetupCancellationRoutes(api, cancellation.NewController(cancellationService))

		// Reminders (external cron trigger)
		r.reminderService = reminders.NewService(calendarProvider, catalogLookup, r.notifier, nil, r.log)
		reminders.SetupReminderRoutes(api, reminders.NewController(r.reminderService), cronAuth)

		// Admin auth
		authService := auth.NewService(r.config.Admin, r.config.JWT, r.log)
		auth.SetupAuthRoutes(api, auth.NewController(authService, r.log))
	}
}

// ReminderService returns the reminder service built during SetupRoutes so
// main can schedule it in-process as well.
func (r *Router) ReminderService() reminders.Service {
	return r.reminderService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "dently-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "dently-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
