package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                    string
	DatabaseURL             string
	JWTSecret               string
	Environment             string
	RunMigrations           bool
	SeedMockData            bool
	CORSOrigins             []string
	MaxBodyBytes            int64
	RateLimitPerMinute      int
	MetricsEnabled          bool
	SalaryMin               float64
	SalaryMax               float64
	CalculatedSalaryPercent float64
	LogLevel                string
}

// ClientConfig drives the vera CLI.
type ClientConfig struct {
	APIURL         string
	APIToken       string
	PageSize       int
	Debounce       time.Duration
	RetryCount     int
	RetryInterval  time.Duration
	DedupeInterval time.Duration
	HTTPTimeout    time.Duration
	LogLevel       string
}

func Load() Config {
	loadDotEnv()
	return Config{
		Addr:                    getEnv("APP_ADDR", ":3000"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		Environment:             getEnv("APP_ENV", "development"),
		RunMigrations:           getEnvBool("RUN_MIGRATIONS", true),
		SeedMockData:            getEnvBool("SEED_MOCK_DATA", true),
		CORSOrigins:             getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		MaxBodyBytes:            int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:      getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
		SalaryMin:               getEnvFloat("SALARY_MIN", 1),
		SalaryMax:               getEnvFloat("SALARY_MAX", 100000),
		CalculatedSalaryPercent: getEnvFloat("CALCULATED_SALARY_PERCENT", 35),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func LoadClient() ClientConfig {
	loadDotEnv()
	return ClientConfig{
		APIURL:         getEnv("VERA_API_URL", "http://localhost:3000"),
		APIToken:       getEnv("VERA_API_TOKEN", ""),
		PageSize:       getEnvInt("VERA_PAGE_SIZE", 8),
		Debounce:       getEnvDuration("VERA_DEBOUNCE", 500*time.Millisecond),
		RetryCount:     getEnvInt("VERA_RETRY_COUNT", 3),
		RetryInterval:  getEnvDuration("VERA_RETRY_INTERVAL", time.Second),
		DedupeInterval: getEnvDuration("VERA_DEDUPE_INTERVAL", 2*time.Second),
		HTTPTimeout:    getEnvDuration("VERA_HTTP_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
	}
}

// loadDotEnv reads .env when present. Variables already set in the
// environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env failed", "err", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c Config) Validate() error {
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.SalaryMin <= 0 {
		return fmt.Errorf("SALARY_MIN must be positive")
	}
	if c.SalaryMax < c.SalaryMin {
		return fmt.Errorf("SALARY_MAX must not be below SALARY_MIN")
	}
	if c.CalculatedSalaryPercent < 0 {
		return fmt.Errorf("CALCULATED_SALARY_PERCENT must not be negative")
	}
	return nil
}

func (c ClientConfig) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("VERA_API_URL is required")
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("VERA_PAGE_SIZE must be between 1 and 100")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("VERA_RETRY_COUNT must not be negative")
	}
	if c.Debounce < 0 || c.RetryInterval < 0 || c.DedupeInterval < 0 {
		return fmt.Errorf("VERA_DEBOUNCE, VERA_RETRY_INTERVAL and VERA_DEDUPE_INTERVAL must not be negative")
	}
	return nil
}
