package commands

import (
	"context"
	"log/slog"
	"strings"

	application "storyforge/contexts/content-automation/generation-service/application"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type RemoveItemUseCase struct {
	Items  ports.ItemRepository
	Logger *slog.Logger
}

// Execute deletes an item that has not started generating. Items are never
// removed once generation has touched them.
func (uc RemoveItemUseCase) Execute(ctx context.Context, campaignID string, itemID string) error {
	logger := application.ResolveLogger(uc.Logger)
	item, err := uc.Items.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return err
	}
	if item.CampaignID != strings.TrimSpace(campaignID) {
		return domainerrors.ErrItemNotFound
	}
	if !item.CanEditIdea() {
		return domainerrors.ErrItemNotEditable
	}

	if err := uc.Items.DeleteItem(ctx, item.ItemID); err != nil {
		return err
	}

	logger.Info("campaign item removed",
		"event", "campaign_item_removed",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", item.CampaignID,
		"item_id", item.ItemID,
	)
	return nil
}
