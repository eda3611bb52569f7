package commands

import (
	"context"
	"log/slog"
	"strings"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type ApproveAllUseCase struct {
	Campaigns ports.CampaignRepository
	Items     ports.ItemRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute approves every completed item of the campaign and returns the count.
// Items in any other status are left untouched.
func (uc ApproveAllUseCase) Execute(ctx context.Context, campaignID string) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return 0, err
	}

	items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return 0, err
	}

	now := uc.Clock.Now().UTC()
	approved := 0
	for _, item := range items {
		if item.Status != entities.ItemStatusCompleted {
			continue
		}
		item.Status = entities.ItemStatusApproved
		item.UpdatedAt = now
		if err := uc.Items.UpdateItem(ctx, item); err != nil {
			return approved, err
		}
		approved++
	}

	logger.Info("campaign items approved",
		"event", "campaign_items_approved",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"approved_count", approved,
	)
	return approved, nil
}
