package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	EmployeeIDStrategyRandom     = "random"
	EmployeeIDStrategySequential = "sequential"

	DefaultLoginRateLimit = "10-M"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StoreDriver    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RedisURL        string
	SessionCacheTTL time.Duration

	RabbitMQURL       string
	StatusEventsQueue string

	PosthogAPIKey string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// LoginRateLimit uses the ulule/limiter format, e.g. "10-M".
	LoginRateLimit         string
	BulkUpdateConcurrency  int
	CodeGenerationAttempts int
	EmployeeIDStrategy     string
	DashboardCacheSize     int

	AdminBootstrapName     string
	AdminBootstrapEmail    string
	AdminBootstrapPassword string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "loan-desk")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SESSION_CACHE_TTL", "30m")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("STATUS_EVENTS_QUEUE", "loan_desk.status_changed")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("LOGIN_RATE_LIMIT", DefaultLoginRateLimit)
	viper.SetDefault("BULK_UPDATE_CONCURRENCY", 8)
	viper.SetDefault("CODE_GENERATION_ATTEMPTS", 5)
	viper.SetDefault("EMPLOYEE_ID_STRATEGY", EmployeeIDStrategyRandom)
	viper.SetDefault("DASHBOARD_CACHE_SIZE", 256)
	viper.SetDefault("ADMIN_BOOTSTRAP_NAME", "Platform Admin")
	viper.SetDefault("ADMIN_BOOTSTRAP_EMAIL", "")
	viper.SetDefault("ADMIN_BOOTSTRAP_PASSWORD", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StoreDriver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		log.Printf("Warning: Unknown STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StoreDriverPostgres)
		cfg.StoreDriver = StoreDriverPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.SessionCacheTTL = durationOr("SESSION_CACHE_TTL", 30*time.Minute)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "loan-desk"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.RabbitMQURL = viper.GetString("RABBITMQ_URL")
	cfg.StatusEventsQueue = viper.GetString("STATUS_EVENTS_QUEUE")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Admin Google sign-in will not function.")
	}

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.BulkUpdateConcurrency = positiveOr("BULK_UPDATE_CONCURRENCY", 8)
	cfg.CodeGenerationAttempts = positiveOr("CODE_GENERATION_ATTEMPTS", 5)
	cfg.DashboardCacheSize = positiveOr("DASHBOARD_CACHE_SIZE", 256)

	cfg.EmployeeIDStrategy = strings.ToLower(viper.GetString("EMPLOYEE_ID_STRATEGY"))
	if cfg.EmployeeIDStrategy != EmployeeIDStrategySequential {
		cfg.EmployeeIDStrategy = EmployeeIDStrategyRandom
	}

	cfg.AdminBootstrapName = viper.GetString("ADMIN_BOOTSTRAP_NAME")
	cfg.AdminBootstrapEmail = viper.GetString("ADMIN_BOOTSTRAP_EMAIL")
	cfg.AdminBootstrapPassword = viper.GetString("ADMIN_BOOTSTRAP_PASSWORD")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func positiveOr(key string, fallback int) int {
	n := viper.GetInt(key)
	if n <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %d.\n", key, viper.GetString(key), fallback)
		return fallback
	}
	return n
}
