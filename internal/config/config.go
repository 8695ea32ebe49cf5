package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPPort string

	DatabaseURL string

	JWTSecret       string
	JWTBearerPrefix string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration

	BaseURL                  string
	EmailVerificationEnabled bool
	DefaultRole              string
	ConfirmationTokenTTL     time.Duration

	BcryptCost int

	TimeZone string
	Location *time.Location

	AllowedPathPrefixes []string

	LoginRateLimitPerMin int
	RedisAddr            string

	SMTPAddr string
	SMTPFrom string

	LogLevel  string
	LogFormat string

	OTELTracingEnabled       bool
	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELServiceName          string
	OTELTraceSamplingRatio   float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		JWTSecret:                os.Getenv("JWT_SECRET"),
		JWTBearerPrefix:          getEnv("JWT_BEARER_PREFIX", "Bearer "),
		BaseURL:                  getEnv("BASE_URL", "http://localhost:8080"),
		EmailVerificationEnabled: getEnvBool("EMAIL_VERIFICATION_ENABLED", true),
		DefaultRole:              getEnv("DEFAULT_ROLE", "ROLE_USER"),
		BcryptCost:               getEnvInt("BCRYPT_COST", 10),
		TimeZone:                 getEnv("TIME_ZONE", "Asia/Jakarta"),
		AllowedPathPrefixes: splitCSV(getEnv("ALLOWED_PATH_PREFIXES",
			"/api/v1/login,/api/v1/registration,/api/v1/session,/swagger,/health,/favicon.ico")),
		LoginRateLimitPerMin:     getEnvInt("LOGIN_RATE_LIMIT_PER_MIN", 30),
		RedisAddr:                os.Getenv("REDIS_ADDR"),
		SMTPAddr:                 os.Getenv("SMTP_ADDR"),
		SMTPFrom:                 os.Getenv("SMTP_FROM"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFormat:                getEnv("LOG_FORMAT", "json"),
		OTELTracingEnabled:       getEnvBool("OTEL_TRACING_ENABLED", false),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "go-user-auth-service"),
		OTELTraceSamplingRatio:   getEnvFloat("OTEL_TRACE_SAMPLING_RATIO", 1.0),
	}

	accessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_ACCESS_TTL: %w", err)
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := time.ParseDuration(getEnv("JWT_REFRESH_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_REFRESH_TTL: %w", err)
	}
	cfg.JWTRefreshTTL = refreshTTL

	confirmationTTL, err := time.ParseDuration(getEnv("CONFIRMATION_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("parse CONFIRMATION_TOKEN_TTL: %w", err)
	}
	cfg.ConfirmationTokenTTL = confirmationTTL

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.JWTBearerPrefix == "" {
		errs = append(errs, "JWT_BEARER_PREFIX must not be empty")
	}
	if c.JWTAccessTTL <= 0 || c.JWTAccessTTL > 24*time.Hour {
		errs = append(errs, "JWT_ACCESS_TTL must be between 1s and 24h")
	}
	if c.JWTRefreshTTL <= 0 || c.JWTRefreshTTL > (60*24*time.Hour) {
		errs = append(errs, "JWT_REFRESH_TTL must be between 1s and 60d")
	}
	if c.JWTRefreshTTL > 0 && c.JWTAccessTTL > 0 && c.JWTRefreshTTL <= c.JWTAccessTTL {
		errs = append(errs, "JWT_REFRESH_TTL must exceed JWT_ACCESS_TTL")
	}
	if c.ConfirmationTokenTTL <= 0 {
		errs = append(errs, "CONFIRMATION_TOKEN_TTL must be > 0")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, "BCRYPT_COST must be between 4 and 31")
	}
	if c.LoginRateLimitPerMin <= 0 {
		errs = append(errs, "LOGIN_RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.SMTPAddr != "" && c.SMTPFrom == "" {
		errs = append(errs, "SMTP_FROM is required when SMTP_ADDR is set")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
