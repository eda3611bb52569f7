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

// RegenerateFailedUseCase is the only retry path; retries are user-triggered,
// never automatic, so failed stage invocations are not silently re-billed.
type RegenerateFailedUseCase struct {
	Campaigns  ports.CampaignRepository
	Items      ports.ItemRepository
	Dispatcher ports.BatchDispatcher
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc RegenerateFailedUseCase) Execute(ctx context.Context, campaignID string) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return err
	}
	if campaign.IsTerminal() {
		return domainerrors.ErrInvalidStateTransition
	}

	items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	targetIDs := make([]string, 0)
	for _, item := range items {
		if !item.CanRegenerate() {
			continue
		}
		reset := item.ResetForRetry(now)
		if err := uc.Items.UpdateItem(ctx, reset); err != nil {
			return err
		}
		targetIDs = append(targetIDs, reset.ItemID)
	}
	if len(targetIDs) == 0 {
		return domainerrors.ErrNoFailedItems
	}

	if campaign.Status != entities.CampaignStatusGenerating {
		campaign.Status = entities.CampaignStatusGenerating
		campaign.UpdatedAt = now
		if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
			return err
		}
	}

	if uc.Dispatcher != nil {
		if err := uc.Dispatcher.Dispatch(ctx, campaign.CampaignID, targetIDs); err != nil {
			return err
		}
	}

	logger.Info("failed items queued for regeneration",
		"event", "campaign_regenerate_failed",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"item_count", len(targetIDs),
	)
	return nil
}
