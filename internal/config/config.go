package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Environment string
	LogLevel    string
	Port        string

	// DBConfig is the JSON store-provider configuration. Empty selects the
	// in-memory store.
	DBConfig string

	// ProxycurlAPIKey authenticates against the enrichment API.
	ProxycurlAPIKey string
	// LookupTimeout bounds each enrichment API call.
	LookupTimeout time.Duration
	// LookupConcurrency bounds parallel enrichment lookups within a batch.
	LookupConcurrency int

	// ExportPath is where the Excel workbook is written.
	ExportPath string
	// ExportDir is the base directory for per-table CSV exports.
	ExportDir string

	RPSLimit float64
	RPSBurst int
}

// Load reads configuration from the environment. A .env file is honored
// when present.
func Load(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnv("PORT", "8080"),
		DBConfig:          getEnv("DB_CONFIG", ""),
		ProxycurlAPIKey:   getEnv("PROXYCURL_API_KEY", ""),
		LookupTimeout:     getEnvDuration("LOOKUP_TIMEOUT", 30*time.Second),
		LookupConcurrency: getEnvInt("LOOKUP_CONCURRENCY", 5),
		ExportPath:        getEnv("EXPORT_PATH", "SampleData.xlsx"),
		ExportDir:         getEnv("EXPORT_DIR", "exports"),
		RPSLimit:          getEnvFloat("RPS_LIMIT", 10),
		RPSBurst:          getEnvInt("RPS_BURST", 20),
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.Bool("db_configured", cfg.DBConfig != ""),
		zap.Bool("api_key_set", cfg.ProxycurlAPIKey != ""),
		zap.Int("lookup_concurrency", cfg.LookupConcurrency),
		zap.String("export_path", cfg.ExportPath),
	)
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
