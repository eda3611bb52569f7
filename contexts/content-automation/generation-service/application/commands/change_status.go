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

type ChangeStatusAction string

const (
	StatusActionStart  ChangeStatusAction = "start"
	StatusActionPause  ChangeStatusAction = "pause"
	StatusActionResume ChangeStatusAction = "resume"
	StatusActionCancel ChangeStatusAction = "cancel"
)

type ChangeStatusCommand struct {
	CampaignID string
	Action     ChangeStatusAction
}

// ChangeStatusUseCase owns campaign-level status transitions. Guards run
// before any mutation; an illegal transition is rejected, never a no-op.
type ChangeStatusUseCase struct {
	Campaigns  ports.CampaignRepository
	Items      ports.ItemRepository
	Dispatcher ports.BatchDispatcher
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	from := campaign.Status
	to := from

	switch cmd.Action {
	case StatusActionStart:
		if !campaign.CanStartBatch() {
			return domainerrors.ErrInvalidStateTransition
		}
		items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domainerrors.ErrNoItems
		}
		to = entities.CampaignStatusGenerating
		if campaign.StartedAt == nil {
			campaign.StartedAt = &now
		}
	case StatusActionPause:
		if campaign.Status != entities.CampaignStatusGenerating {
			return domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusPaused
	case StatusActionResume:
		if campaign.Status != entities.CampaignStatusPaused {
			return domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusGenerating
	case StatusActionCancel:
		if campaign.IsTerminal() {
			return domainerrors.ErrInvalidStateTransition
		}
		to = entities.CampaignStatusCancelled
		campaign.CompletedAt = &now
	default:
		return domainerrors.ErrInvalidStateTransition
	}

	campaign.Status = to
	campaign.UpdatedAt = now
	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	// Runner side effects happen after the status write so a crashed process
	// never leaves a running batch on a campaign that still reads as draft.
	if uc.Dispatcher != nil {
		switch cmd.Action {
		case StatusActionStart, StatusActionResume:
			if err := uc.Dispatcher.Dispatch(ctx, campaign.CampaignID, nil); err != nil {
				return err
			}
		case StatusActionPause:
			uc.Dispatcher.Pause(campaign.CampaignID)
		case StatusActionCancel:
			uc.Dispatcher.Cancel(campaign.CampaignID)
		}
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := newCampaignEnvelope(
			eventID,
			"campaign.status_changed",
			campaign.CampaignID,
			now,
			map[string]any{
				"campaign_id": campaign.CampaignID,
				"from_status": string(from),
				"to_status":   string(to),
				"action":      string(cmd.Action),
			},
		)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
	}

	logger.Info("campaign status changed",
		"event", "campaign_status_changed",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"from_status", string(from),
		"to_status", string(to),
	)
	return nil
}
