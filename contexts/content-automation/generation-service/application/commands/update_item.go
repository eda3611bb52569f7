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

type UpdateItemCommand struct {
	CampaignID string
	ItemID     string
	Status     *entities.ItemStatus
	SourceIdea *string
}

type UpdateItemUseCase struct {
	Campaigns  ports.CampaignRepository
	Items      ports.ItemRepository
	Dispatcher ports.BatchDispatcher
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute applies a human review action or a manual edit to one item.
// Status changes are validated against the item status graph; approving an
// item that is still generating is rejected. Rejecting a scheduled item
// releases its publish slot.
func (uc UpdateItemUseCase) Execute(ctx context.Context, cmd UpdateItemCommand) (entities.CampaignItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	item, err := uc.Items.GetItem(ctx, strings.TrimSpace(cmd.ItemID))
	if err != nil {
		return entities.CampaignItem{}, err
	}
	if item.CampaignID != strings.TrimSpace(cmd.CampaignID) {
		return entities.CampaignItem{}, domainerrors.ErrItemNotFound
	}

	now := uc.Clock.Now().UTC()

	if cmd.SourceIdea != nil {
		if !item.CanEditIdea() {
			return entities.CampaignItem{}, domainerrors.ErrItemNotEditable
		}
		idea := strings.TrimSpace(*cmd.SourceIdea)
		if idea == "" {
			return entities.CampaignItem{}, domainerrors.ErrInvalidCampaignInput
		}
		item.SourceIdea = idea
	}

	if cmd.Status != nil {
		to := *cmd.Status
		if !item.CanTransition(to) {
			return entities.CampaignItem{}, domainerrors.ErrInvalidItemTransition
		}
		switch to {
		case entities.ItemStatusPending:
			item = item.ResetForRetry(now)
		case entities.ItemStatusRejected:
			item.Status = to
			item.PublishAt = nil
		default:
			item.Status = to
		}
	}

	item.UpdatedAt = now
	if err := uc.Items.UpdateItem(ctx, item); err != nil {
		return entities.CampaignItem{}, err
	}

	// A failed item sent back to pending restarts generation. A campaign
	// sitting in review re-enters generating first, so the reset item is
	// never stranded behind the review gate.
	if cmd.Status != nil && item.Status == entities.ItemStatusPending {
		campaign, err := uc.Campaigns.GetCampaign(ctx, item.CampaignID)
		if err != nil {
			return entities.CampaignItem{}, err
		}
		if campaign.Status == entities.CampaignStatusReview {
			campaign.Status = entities.CampaignStatusGenerating
			campaign.UpdatedAt = now
			if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
				return entities.CampaignItem{}, err
			}
		}
		if uc.Dispatcher != nil && campaign.Status == entities.CampaignStatusGenerating {
			if err := uc.Dispatcher.Dispatch(ctx, campaign.CampaignID, []string{item.ItemID}); err != nil {
				return entities.CampaignItem{}, err
			}
		}
	}

	logger.Info("campaign item updated",
		"event", "campaign_item_updated",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", item.CampaignID,
		"item_id", item.ItemID,
		"status", string(item.Status),
	)
	return item, nil
}
