package ports

import (
	"context"
	"time"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	contractsv1 "storyforge/contracts/gen/events/v1"
)

type CampaignFilter struct {
	WorkspaceID string
	Status      entities.CampaignStatus
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
}

// ItemRepository is the per-item keyed store. Every write is a single-record
// update keyed by item id so concurrent updates to different items never
// conflict.
type ItemRepository interface {
	CreateItem(ctx context.Context, item entities.CampaignItem) error
	GetItem(ctx context.Context, itemID string) (entities.CampaignItem, error)
	UpdateItem(ctx context.Context, item entities.CampaignItem) error
	DeleteItem(ctx context.Context, itemID string) error
	ListItemsByCampaign(ctx context.Context, campaignID string) ([]entities.CampaignItem, error)
}

type StageResult struct {
	ResultRef string
}

// StagePipeline is the external generation collaborator. A stage invocation is
// atomic and non-interruptible; cancellation is only honored between stages.
type StagePipeline interface {
	Run(ctx context.Context, item entities.CampaignItem, stage entities.Stage) (StageResult, error)
}

// BatchDispatcher hands a subset of a campaign's items to the batch runner.
// A nil itemIDs slice targets every pending item.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, campaignID string, itemIDs []string) error
	Pause(campaignID string)
	Cancel(campaignID string)
}

// PublishScheduler triggers slot assignment for a campaign's completed items.
// Implemented by the scheduling service and bridged in the composition root.
type PublishScheduler interface {
	ScheduleCampaign(ctx context.Context, campaign entities.Campaign) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
