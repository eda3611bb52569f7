package queries

import (
	"context"
	"log/slog"
	"strings"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

// GetProgressUseCase derives a BatchProgress snapshot for polling clients.
// It reads one item snapshot in a single pass and is side-effect free, so it
// is safe to call while the batch runner mutates items; consumers poll and
// tolerate staleness, only the snapshot's internal arithmetic must hold.
type GetProgressUseCase struct {
	Campaigns ports.CampaignRepository
	Items     ports.ItemRepository
	Logger    *slog.Logger
}

func (uc GetProgressUseCase) Execute(ctx context.Context, campaignID string) (entities.BatchProgress, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.BatchProgress{}, err
	}
	items, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return entities.BatchProgress{}, err
	}
	return entities.ComputeProgress(campaign.CampaignID, items), nil
}
