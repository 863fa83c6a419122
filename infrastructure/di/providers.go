package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skillmap-backend/application/ports"
	"skillmap-backend/application/services"
	"skillmap-backend/infrastructure/config"
	"skillmap-backend/infrastructure/messaging/eventbridge"
	"skillmap-backend/infrastructure/persistence"
	"skillmap-backend/infrastructure/persistence/dynamodb"
	"skillmap-backend/infrastructure/persistence/memory"
)

// ProvideLogger creates the process logger
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideSkillRepository creates the skill repository. Development runs on
// the in-memory store; everything else runs on DynamoDB behind a circuit
// breaker.
func ProvideSkillRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SkillRepository {
	var repo ports.SkillRepository
	if cfg.IsDevelopment() {
		repo = memory.NewInMemorySkillRepository()
	} else {
		repo = persistence.NewResilientSkillRepository(
			dynamodb.NewSkillRepository(client, cfg.DynamoDBTable, logger),
			persistence.DefaultBreakerConfig("skill-storage"),
			logger,
		)
	}
	if cfg.EnableTracing {
		repo = persistence.TraceSkillRepository(repo, otel.Tracer("skillmap-backend"))
	}
	return repo
}

// ProvideCourseRepository creates the course repository
func ProvideCourseRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.CourseRepository {
	if cfg.IsDevelopment() {
		return memory.NewInMemoryCourseRepository()
	}
	return dynamodb.NewCourseRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher creates the skill event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.IsDevelopment() {
		return eventbridge.NewNoopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideLimitsProvider creates the graph limits source. With a config file
// in use, limits are hot-reloaded by a file watcher.
func ProvideLimitsProvider(cfg *config.Config, logger *zap.Logger) (ports.LimitsProvider, func(), error) {
	if cfg.ConfigFile == "" {
		return config.StaticLimits(cfg.Limits), func() {}, nil
	}

	watcher, err := config.NewWatcher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	watcher.Start()
	return watcher, watcher.Stop, nil
}

// ProvideSkillService creates the skill application service
func ProvideSkillService(
	repo ports.SkillRepository,
	publisher ports.EventPublisher,
	limits ports.LimitsProvider,
	logger *zap.Logger,
) *services.SkillService {
	return services.NewSkillService(repo, publisher, limits, logger)
}

// ProvideSkillMapService creates the skill map application service
func ProvideSkillMapService(
	skills ports.SkillRepository,
	courses ports.CourseRepository,
	logger *zap.Logger,
) *services.SkillMapService {
	return services.NewSkillMapService(skills, courses, logger)
}
