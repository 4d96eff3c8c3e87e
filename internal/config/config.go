package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
	Backend  BackendConfig
	Geocoder GeocoderConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values for the credential store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines session lifecycle parameters. CheckIntervalSeconds is
// the single shared re-validation interval for every guarded screen.
type SessionConfig struct {
	CookieName           string
	CheckIntervalSeconds int
	FallbackTTLHours     int
}

// BackendConfig points at the external HistoriSense analysis/auth API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// GeocoderConfig points at the Nominatim geocoding service.
type GeocoderConfig struct {
	BaseURL        string
	TimeoutSeconds int
	UserAgent      string
}

// AuditConfig holds the optional session-audit webhook endpoint.
type AuditConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "historisense-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			CookieName:           getEnv("SESSION_COOKIE_NAME", "historisense_session"),
			CheckIntervalSeconds: getEnvAsInt("SESSION_CHECK_INTERVAL_SECONDS", 30),
			FallbackTTLHours:     getEnvAsInt("SESSION_FALLBACK_TTL_HOURS", 24),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://127.0.0.1:5000"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 120),
		},
		Geocoder: GeocoderConfig{
			BaseURL:        getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			TimeoutSeconds: getEnvAsInt("GEOCODER_TIMEOUT_SECONDS", 10),
			UserAgent:      getEnv("GEOCODER_USER_AGENT", "historisense-portal/dev"),
		},
		Audit: AuditConfig{
			WebhookURL: getEnv("AUDIT_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CheckInterval returns the shared session re-validation interval.
func (s SessionConfig) CheckInterval() time.Duration {
	if s.CheckIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.CheckIntervalSeconds) * time.Second
}

// FallbackTTL returns the credential TTL used when the token carries no
// decodable expiry.
func (s SessionConfig) FallbackTTL() time.Duration {
	if s.FallbackTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.FallbackTTLHours) * time.Hour
}

// Timeout returns the backend request timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Timeout returns the geocoder request timeout.
func (g GeocoderConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
