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

// CompleteBatchUseCase is triggered when a batch drains: no targeted item is
// still pending or generating. Manual campaigns move to review and wait for
// bulk actions; auto campaigns go straight through scheduling to completed.
// Scheduling runs once per whole batch, never per early-completed item.
type CompleteBatchUseCase struct {
	Campaigns ports.CampaignRepository
	Items     ports.ItemRepository
	Scheduler ports.PublishScheduler
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc CompleteBatchUseCase) Execute(ctx context.Context, campaignID string) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return err
	}
	if campaign.Status != entities.CampaignStatusGenerating {
		return domainerrors.ErrInvalidStateTransition
	}

	items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.InFlight() {
			// Batch has not drained; leave the campaign generating.
			return nil
		}
	}

	now := uc.Clock.Now().UTC()
	from := campaign.Status

	switch campaign.Automation {
	case entities.AutomationAuto:
		if uc.Scheduler != nil {
			if err := uc.Scheduler.ScheduleCampaign(ctx, campaign); err != nil {
				return err
			}
		}
		campaign.Status = entities.CampaignStatusCompleted
		campaign.CompletedAt = &now
	default:
		campaign.Status = entities.CampaignStatusReview
	}
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
			"campaign.batch_completed",
			campaign.CampaignID,
			now,
			map[string]any{
				"campaign_id": campaign.CampaignID,
				"from_status": string(from),
				"to_status":   string(campaign.Status),
				"automation":  string(campaign.Automation),
			},
		)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
	}

	logger.Info("campaign batch completed",
		"event", "campaign_batch_completed",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"from_status", string(from),
		"to_status", string(campaign.Status),
	)
	return nil
}
