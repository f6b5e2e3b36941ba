package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// Booking pipeline
	Booking BookingConfig

	// Clinic opening hours / slot grid
	Clinic ClinicConfig

	// Payment gateway (Comgate)
	Payment PaymentConfig

	// Calendar collaborator
	Calendar CalendarConfig

	// Notifications
	Email EmailConfig
	Kafka KafkaConfig

	// Admin auth
	JWT   JWTConfig
	Admin AdminConfig

	// Cron endpoint
	CronSecret string

	// Reminder scheduling
	Reminders RemindersConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	// When disabled the API falls back to the in-memory pending store
	// and rate limiting is unavailable.
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// BookingConfig holds pending-booking lifecycle configuration
type BookingConfig struct {
	// How long an unpaid booking is held before the slot is released.
	PendingTTL time.Duration

	// Cancellations at least this long before the appointment refund the deposit.
	CancellationCutoff time.Duration

	Currency string
}

// ClinicConfig defines the bookable slot grid
type ClinicConfig struct {
	OpeningHour  int // first slot starts at this hour
	ClosingHour  int // last slot ends at this hour
	SlotMinutes  int
	LunchFromMin int // minutes from midnight, inclusive
	LunchToMin   int // minutes from midnight, exclusive
}

// PaymentConfig holds Comgate gateway configuration
type PaymentConfig struct {
	Merchant    string
	Secret      string
	BaseURL     string
	TestMode    bool
	ReturnURL   string
	CancelURL   string
	HTTPTimeout time.Duration
}

// CalendarConfig holds calendar collaborator configuration
type CalendarConfig struct {
	Enabled    bool
	CalendarID string
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// KafkaConfig holds the optional notification queue configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	JWTExpiresIn time.Duration
}

// AdminConfig holds the single administrative account
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

// RemindersConfig holds reminder job configuration
type RemindersConfig struct {
	Enabled  bool
	CronSpec string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	BookingRequests int           `json:"booking_requests"`
	WebhookRequests int           `json:"webhook_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "dently_db"),
			User:     getEnv("DB_USER", "dently_user"),
			Password: getEnv("DB_PASSWORD", "dently_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		// Redis configuration
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		Booking: BookingConfig{
			PendingTTL:         getDurationEnv("BOOKING_PENDING_TTL", 30*time.Minute),
			CancellationCutoff: getDurationEnv("BOOKING_CANCELLATION_CUTOFF", 24*time.Hour),
			Currency:           getEnv("BOOKING_CURRENCY", "CZK"),
		},

		Clinic: ClinicConfig{
			OpeningHour:  getIntEnv("CLINIC_OPENING_HOUR", 8),
			ClosingHour:  getIntEnv("CLINIC_CLOSING_HOUR", 18),
			SlotMinutes:  getIntEnv("CLINIC_SLOT_MINUTES", 30),
			LunchFromMin: getIntEnv("CLINIC_LUNCH_FROM_MIN", 12*60),
			LunchToMin:   getIntEnv("CLINIC_LUNCH_TO_MIN", 13*60),
		},

		Payment: PaymentConfig{
			Merchant:    getEnv("COMGATE_MERCHANT", ""),
			Secret:      getEnv("COMGATE_SECRET", ""),
			BaseURL:     getEnv("COMGATE_BASE_URL", "https://payments.comgate.cz/v1.0"),
			TestMode:    getBoolEnv("COMGATE_TEST_MODE", true),
			ReturnURL:   getEnv("PAYMENT_RETURN_URL", "http://localhost:3000/rezervace/potvrzeni"),
			CancelURL:   getEnv("PAYMENT_CANCEL_URL", "http://localhost:3000/rezervace/zruseno"),
			HTTPTimeout: getDurationEnv("PAYMENT_HTTP_TIMEOUT", 10*time.Second),
		},

		Calendar: CalendarConfig{
			Enabled:    getBoolEnv("CALENDAR_ENABLED", true),
			CalendarID: getEnv("CALENDAR_ID", "primary"),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "recepce@dently.cz"),
			FromName:     getEnv("FROM_NAME", "Dentální hygiena Dently"),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_NOTIFICATION_TOPIC", "notifications"),
			GroupID: getEnv("KAFKA_CONSUMER_GROUP", "dently-notifications"),
		},

		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn: getDurationEnv("JWT_EXPIRES_IN", 12*time.Hour),
		},

		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},

		CronSecret: getEnv("CRON_SECRET", ""),

		Reminders: RemindersConfig{
			Enabled:  getBoolEnv("REMINDERS_ENABLED", true),
			CronSpec: getEnv("REMINDERS_CRON", "0 8 * * *"),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			WebhookRequests: getIntEnv("RATE_LIMIT_WEBHOOK_REQUESTS", 120),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix
}
