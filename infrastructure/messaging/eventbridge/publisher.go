package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"skillmap-backend/application/ports"
)

const eventSource = "skillmap.backend"

// Publisher implements ports.EventPublisher using AWS EventBridge. Rules and
// targets for the published detail types are managed outside this service.
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a single skill mutation event
func (p *Publisher) Publish(ctx context.Context, event ports.SkillEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(p.eventBusName),
		Source:       aws.String(eventSource),
		DetailType:   aws.String(event.Type),
		Detail:       aws.String(string(detail)),
		Time:         aws.Time(time.Now().UTC()),
		Resources: []string{
			fmt.Sprintf("arn:aws:skillmap::%s", event.SkillID.String()),
		},
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to EventBridge: %w", err)
	}
	if result.FailedEntryCount > 0 {
		failed := result.Entries[0]
		p.logger.Error("event publish rejected",
			zap.String("eventType", event.Type),
			zap.String("errorCode", aws.ToString(failed.ErrorCode)),
			zap.String("errorMessage", aws.ToString(failed.ErrorMessage)),
		)
		return fmt.Errorf("event rejected by EventBridge: %s", aws.ToString(failed.ErrorCode))
	}

	p.logger.Debug("event published",
		zap.String("eventType", event.Type),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}

// NoopPublisher discards events. Used in local development and tests where
// no event bus is available.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards all events
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event
func (p *NoopPublisher) Publish(ctx context.Context, event ports.SkillEvent) error {
	return nil
}
