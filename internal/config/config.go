package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// Database
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:""`
	DBName     string `env:"DB_NAME" envDefault:"goalsignal"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// External services
	FootballAPIKey  string `env:"FOOTBALL_API_KEY" envDefault:"-"`
	FootballAPIBase string `env:"FOOTBALL_API_BASE" envDefault:""`
	TelegramToken   string `env:"TELEGRAM_TOKEN" envDefault:"-"`
	TelegramChatID  int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`

	// Rule engine
	RulesPath        string  `env:"RULES_PATH" envDefault:"rules.yaml"`
	PrimaryMarketKey string  `env:"PRIMARY_MARKET_KEY" envDefault:"4-5"`
	RuleTolerance    float64 `env:"RULE_TOLERANCE" envDefault:"0.03"`
	MinConfidence    int     `env:"MIN_CONFIDENCE" envDefault:"85"`
	MinPrice         float64 `env:"MIN_PRICE" envDefault:"1.01"`
	MaxPrice         float64 `env:"MAX_PRICE" envDefault:"50"`
	AliasesPath      string  `env:"ALIASES_PATH" envDefault:""`

	// Tracker cadence
	PollIntervalSeconds int `env:"POLL_INTERVAL_SECONDS" envDefault:"120"`
	FeedThrottleSeconds int `env:"FEED_THROTTLE_SECONDS" envDefault:"60"`
	WriteTimeoutSeconds int `env:"WRITE_TIMEOUT_SECONDS" envDefault:"20"`
	RequestTimeout      int `env:"REQUEST_TIMEOUT" envDefault:"20"` // seconds
	DaysAhead           int `env:"DAYS_AHEAD" envDefault:"1"`

	// Operational
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9180"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "goalsignal")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.FootballAPIKey = os.Getenv("FOOTBALL_API_KEY")
	cfg.FootballAPIBase = os.Getenv("FOOTBALL_API_BASE")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	cfg.RulesPath = getEnvWithDefault("RULES_PATH", "rules.yaml")
	cfg.PrimaryMarketKey = getEnvWithDefault("PRIMARY_MARKET_KEY", "4-5")
	cfg.RuleTolerance = getEnvFloatWithDefault("RULE_TOLERANCE", 0.03)
	cfg.MinConfidence = getEnvIntWithDefault("MIN_CONFIDENCE", 85)
	cfg.MinPrice = getEnvFloatWithDefault("MIN_PRICE", 1.01)
	cfg.MaxPrice = getEnvFloatWithDefault("MAX_PRICE", 50)
	cfg.AliasesPath = os.Getenv("ALIASES_PATH")

	cfg.PollIntervalSeconds = getEnvIntWithDefault("POLL_INTERVAL_SECONDS", 120)
	cfg.FeedThrottleSeconds = getEnvIntWithDefault("FEED_THROTTLE_SECONDS", 60)
	cfg.WriteTimeoutSeconds = getEnvIntWithDefault("WRITE_TIMEOUT_SECONDS", 20)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 20)
	cfg.DaysAhead = getEnvIntWithDefault("DAYS_AHEAD", 1)

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.MetricsAddr = getEnvWithDefault("METRICS_ADDR", ":9180")

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
