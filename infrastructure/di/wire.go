//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"skillmap-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideSkillRepository,
	ProvideCourseRepository,
	ProvideEventPublisher,
	ProvideLimitsProvider,
	ProvideSkillService,
	ProvideSkillMapService,
	wire.Struct(new(Container), "Config", "Logger", "SkillRepo", "CourseRepo", "Publisher", "Limits", "SkillService", "SkillMapService"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
