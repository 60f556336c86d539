package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	DBMaxConns     int32
	Port           string
	IsProduction   bool
	RunMigrations  bool // Apply migrations at startup
	MigrationsPath string
	LogLevel       string
	LogFile        string // Rotated JSON log file in addition to stdout; empty disables

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration

	// Login throttling, in ulule/limiter format (e.g. "5-M")
	LoginRateLimit string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Official rate source
	RateSourceBaseURL     string
	RateSourceTimeout     time.Duration
	RateCacheTTL          time.Duration
	RateCacheSize         int
	RateSyncSchedule      string // Cron spec; empty disables the scheduled sync
	RateSyncMarkupPercent decimal.Decimal

	PosthogAPIKey   string
	PosthogEndpoint string

	// Created at startup when the users table is empty
	BootstrapAdminUsername string
	BootstrapAdminPassword string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "currency-exchange-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("RATE_SOURCE_BASE_URL", "https://api.nbrb.by")
	viper.SetDefault("RATE_SOURCE_TIMEOUT", "10s")
	viper.SetDefault("RATE_CACHE_TTL", "15m")
	viper.SetDefault("RATE_CACHE_SIZE", 256)
	viper.SetDefault("RATE_SYNC_SCHEDULE", "")
	viper.SetDefault("RATE_SYNC_MARKUP_PERCENT", "0")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")

	// Values from .env (loaded above) and the real environment override the defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.LogFile = viper.GetString("LOG_FILE")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RefreshTokenExpiryDuration = durationOrDefault("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		log.Println("Warning: Google OAuth settings incomplete. Google sign-in will not function.")
	}

	cfg.RateSourceBaseURL = viper.GetString("RATE_SOURCE_BASE_URL")
	cfg.RateSourceTimeout = durationOrDefault("RATE_SOURCE_TIMEOUT", 10*time.Second)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", 15*time.Minute)
	cfg.RateCacheSize = viper.GetInt("RATE_CACHE_SIZE")
	cfg.RateSyncSchedule = viper.GetString("RATE_SYNC_SCHEDULE")

	markupStr := viper.GetString("RATE_SYNC_MARKUP_PERCENT")
	markup, err := decimal.NewFromString(markupStr)
	if err != nil || markup.IsNegative() {
		log.Printf("Warning: Invalid value for RATE_SYNC_MARKUP_PERCENT ('%s'). Defaulting to 0.\n", markupStr)
		markup = decimal.Zero
	}
	cfg.RateSyncMarkupPercent = markup

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.BootstrapAdminUsername = viper.GetString("BOOTSTRAP_ADMIN_USERNAME")
	cfg.BootstrapAdminPassword = viper.GetString("BOOTSTRAP_ADMIN_PASSWORD")

	return cfg, nil
}

// durationOrDefault parses key as a duration (e.g. "60m", "1h"), falling back to def.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
