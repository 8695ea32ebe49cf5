//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/yogigan/go-user-auth-service/internal/app"
	"github.com/yogigan/go-user-auth-service/internal/observability"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		InfraSet,
		SecuritySet,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}

func InitializeMigrationRunner() (*MigrationRunner, error) {
	panic(wire.Build(
		ConfigSet,
		observability.NewLogger,
		provideDB,
		NewMigrationRunner,
	))
}
