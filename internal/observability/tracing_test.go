package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/yogigan/go-user-auth-service/internal/config"
)

func TestInitTracingDisabled(t *testing.T) {
	cfg := &config.Config{OTELTracingEnabled: false}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tp, err := InitTracing(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("init tracing disabled: %v", err)
	}
	if tp == nil {
		t.Fatal("expected a tracer provider even when disabled")
	}
	_ = tp.Shutdown(context.Background())
}

func TestInitTracingRejectsBadEndpoint(t *testing.T) {
	cfg := &config.Config{
		OTELTracingEnabled:       true,
		OTELExporterOTLPEndpoint: "%",
		OTELExporterOTLPInsecure: true,
		OTELServiceName:          "go-user-auth-service",
		Env:                      "test",
		OTELTraceSamplingRatio:   1.0,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := InitTracing(context.Background(), cfg, log); err == nil {
		t.Fatal("expected error for invalid OTLP endpoint")
	}
}
