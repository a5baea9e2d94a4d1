package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Quota    QuotaConfig
	Provider ProviderConfig
}

// QuotaConfig holds the daily generation limits. Limits are read per request
// so operators can adjust them without a restart.
type QuotaConfig struct {
	AnonymousDailyLimit int64
	APIKeyDailyLimit    int64
}

// ProviderConfig holds the server-side defaults used when a caller does not
// bring their own upstream credentials.
type ProviderConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float64
	MaxTokens       int
	DispatchTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:      getenv("APP_SERVICE", "mocksmith"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "mocksmith"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:       getenvInt("REDIS_DB", 0),

		Quota: QuotaConfig{
			AnonymousDailyLimit: getenvInt64("QUOTA_ANONYMOUS_DAILY_LIMIT", 20),
			APIKeyDailyLimit:    getenvInt64("QUOTA_API_KEY_DAILY_LIMIT", 200),
		},
		Provider: ProviderConfig{
			APIKey:          strings.TrimSpace(getenv("PROVIDER_API_KEY", "")),
			Model:           getenv("PROVIDER_MODEL", "gpt-4o-mini"),
			BaseURL:         strings.TrimSpace(getenv("PROVIDER_BASE_URL", "")),
			Temperature:     getenvFloat("PROVIDER_TEMPERATURE", 0.7),
			MaxTokens:       getenvInt("PROVIDER_MAX_TOKENS", 4096),
			DispatchTimeout: time.Duration(getenvInt("PROVIDER_DISPATCH_TIMEOUT", 90)) * time.Second,
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
