package di

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"

	"github.com/yogigan/go-user-auth-service/internal/app"
	"github.com/yogigan/go-user-auth-service/internal/config"
	"github.com/yogigan/go-user-auth-service/internal/database"
	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/http/handler"
	"github.com/yogigan/go-user-auth-service/internal/http/middleware"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
	"github.com/yogigan/go-user-auth-service/internal/http/router"
	"github.com/yogigan/go-user-auth-service/internal/observability"
	"github.com/yogigan/go-user-auth-service/internal/repository"
	"github.com/yogigan/go-user-auth-service/internal/security"
	"github.com/yogigan/go-user-auth-service/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(observability.NewLogger, provideTracerProvider)

var InfraSet = wire.NewSet(provideDB, provideRedisClient, provideLimiter)

var SecuritySet = wire.NewSet(provideTokenManager, providePasswordHasher)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRoleRepository,
	repository.NewConfirmationTokenRepository,
)

var ServiceSet = wire.NewSet(
	provideMailer,
	provideRegistrationService,
	service.NewAuthService,
	service.NewRoleService,
	service.NewUserService,
)

var HTTPSet = wire.NewSet(
	wire.Bind(new(http.Handler), new(*chi.Mux)),
	provideResponseWriter,
	provideAuthenticator,
	handler.NewAuthHandler,
	handler.NewSessionHandler,
	handler.NewRegistrationHandler,
	handler.NewRoleHandler,
	handler.NewUserHandler,
	handler.NewHealthHandler,
	provideRouterDependencies,
	router.New,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideTracerProvider(cfg *config.Config, log *slog.Logger) (*sdktrace.TracerProvider, error) {
	return observability.InitTracing(context.Background(), cfg, log)
}

func provideDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	level := slog.LevelInfo
	if strings.EqualFold(cfg.LogLevel, "debug") {
		level = slog.LevelDebug
	}
	db, err := database.Open(cfg.DatabaseURL, level)
	if err != nil {
		return nil, err
	}
	log.Info("database connected")
	return db, nil
}

// provideRedisClient returns nil when no address is configured; the limiter
// provider falls back to the in-process limiter in that case.
func provideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func provideLimiter(cfg *config.Config, client *redis.Client) middleware.Limiter {
	if client == nil {
		return middleware.NewLocalLimiter(cfg.LoginRateLimitPerMin, time.Minute)
	}
	return middleware.NewRedisLimiter(client, cfg.LoginRateLimitPerMin, time.Minute)
}

func provideTokenManager(cfg *config.Config) *security.TokenManager {
	return security.NewTokenManager(cfg.JWTSecret, cfg.JWTBearerPrefix, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
}

func providePasswordHasher(cfg *config.Config) *security.PasswordHasher {
	return security.NewPasswordHasher(cfg.BcryptCost)
}

func provideMailer(cfg *config.Config, log *slog.Logger) service.ConfirmationMailer {
	if cfg.SMTPAddr == "" {
		return &service.LogMailer{Log: log}
	}
	return &service.SMTPMailer{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
}

func provideRegistrationService(
	db *gorm.DB,
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens repository.ConfirmationTokenRepository,
	hasher *security.PasswordHasher,
	mailer service.ConfirmationMailer,
	log *slog.Logger,
	cfg *config.Config,
) *service.RegistrationService {
	return service.NewRegistrationService(db, users, roles, tokens, hasher, mailer, log,
		service.RegistrationServiceOptions{
			BaseURL:             cfg.BaseURL,
			DefaultRole:         domain.RoleName(cfg.DefaultRole),
			ConfirmationTTL:     cfg.ConfirmationTokenTTL,
			VerificationEnabled: cfg.EmailVerificationEnabled,
		})
}

func provideResponseWriter(cfg *config.Config, log *slog.Logger) *response.Writer {
	return response.NewWriter(cfg.Location, log)
}

func provideAuthenticator(tokens *security.TokenManager, writer *response.Writer, cfg *config.Config) *middleware.Authenticator {
	return middleware.NewAuthenticator(tokens, writer, cfg.AllowedPathPrefixes)
}

func provideRouterDependencies(
	auth *handler.AuthHandler,
	session *handler.SessionHandler,
	registration *handler.RegistrationHandler,
	role *handler.RoleHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	authenticator *middleware.Authenticator,
	limiter middleware.Limiter,
	writer *response.Writer,
	log *slog.Logger,
) router.Dependencies {
	return router.Dependencies{
		Auth:          auth,
		Session:       session,
		Registration:  registration,
		Role:          role,
		User:          user,
		Health:        health,
		Authenticator: authenticator,
		Limiter:       limiter,
		Writer:        writer,
		Log:           log,
	}
}

func provideHTTPServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
