package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// This package is the only place that reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Storage
	Storage StorageConfig

	// Database (used when Storage.Backend is "postgres")
	Database DatabaseConfig

	// Redis price cache
	Redis RedisConfig

	// Market data
	Market MarketConfig

	// Gemini text generation
	Gemini GeminiConfig

	// Advisor defaults
	Advisor AdvisorConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// StorageConfig selects and configures the holdings/watchlist store.
type StorageConfig struct {
	Backend       string // "json" or "postgres"
	DataDir       string
	HoldingsFile  string
	WatchlistFile string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds market data collaborator configuration.
type MarketConfig struct {
	ChartBaseURL      string
	QuoteBaseURL      string
	RequestsPerSecond float64
	CacheTTL          time.Duration
}

// GeminiConfig holds the text-generation collaborator configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// AdvisorConfig holds advisor behavior defaults.
type AdvisorConfig struct {
	GuardrailMode   string // strict, balanced, off
	InvestorProfile string
	CapitalLevel    string
}

// Load reads configuration from environment variables, with .env discovery.
func Load() (*Config, error) {
	loadEnvFile()

	dataDir := getEnv("DATA_DIR", "data")

	cfg := &Config{
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "json"),
			DataDir:       dataDir,
			HoldingsFile:  getEnv("HOLDINGS_FILE", filepath.Join(dataDir, "holdings.json")),
			WatchlistFile: getEnv("WATCHLIST_FILE", filepath.Join(dataDir, "watchlist.json")),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			ChartBaseURL:      getEnv("MARKET_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			QuoteBaseURL:      getEnv("MARKET_QUOTE_BASE_URL", "https://finance.yahoo.com/quote"),
			RequestsPerSecond: getEnvAsFloat("MARKET_REQUESTS_PER_SECOND", 2.0),
			CacheTTL:          getEnvAsDuration("MARKET_CACHE_TTL", "15m"),
		},

		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},

		Advisor: AdvisorConfig{
			GuardrailMode:   getEnv("GUARDRAIL_MODE", "strict"),
			InvestorProfile: getEnv("INVESTOR_PROFILE", "Small capital, conservative to moderate risk, 1-5 year horizon"),
			CapitalLevel:    getEnv("CAPITAL_LEVEL", "small"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks required configuration values.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Storage.Backend {
	case "json":
		// Nothing required; files are created on first save.
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: json, postgres")
	}

	return nil
}

// loadEnvFile tries to load .env from the usual locations.
// Existing environment variables are never overridden.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
