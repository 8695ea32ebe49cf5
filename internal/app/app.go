package app

import (
	"context"
	"log/slog"
	"net/http"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yogigan/go-user-auth-service/internal/config"
)

// App bundles the running pieces the entrypoint needs to start and stop.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
	Tracer *sdktrace.TracerProvider
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, tracer *sdktrace.TracerProvider) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Tracer: tracer}
}

// Shutdown stops the server first so in-flight spans are still exported when
// the tracer flushes.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("server shutdown", "error", err)
	}
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(ctx); err != nil {
			a.Logger.Error("tracer shutdown", "error", err)
		}
	}
}
