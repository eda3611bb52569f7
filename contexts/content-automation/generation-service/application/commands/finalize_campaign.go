package commands

import (
	"context"
	"log/slog"
	"strings"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

// FinalizeCampaignUseCase closes out a reviewed campaign: approved items get
// publish slots and the campaign becomes completed. Every item must be
// decided first: pending and generating items block it, and completed items
// must be approved or rejected before any slot is assigned.
type FinalizeCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Items     ports.ItemRepository
	Scheduler ports.PublishScheduler
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc FinalizeCampaignUseCase) Execute(ctx context.Context, campaignID string) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return err
	}
	if campaign.Status != entities.CampaignStatusReview {
		return domainerrors.ErrInvalidStateTransition
	}

	items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.InFlight() {
			return domainerrors.ErrInvalidStateTransition
		}
		if item.Status == entities.ItemStatusCompleted {
			return domainerrors.ErrItemsAwaitingReview
		}
	}

	if uc.Scheduler != nil {
		if err := uc.Scheduler.ScheduleCampaign(ctx, campaign); err != nil {
			return err
		}
	}

	now := uc.Clock.Now().UTC()
	campaign.Status = entities.CampaignStatusCompleted
	campaign.CompletedAt = &now
	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newCampaignEnvelope(
			eventID,
			"campaign.finalized",
			campaign.CampaignID,
			now,
			map[string]any{"campaign_id": campaign.CampaignID},
		)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
	}

	logger.Info("campaign finalized",
		"event", "campaign_finalized",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
	)
	return nil
}
