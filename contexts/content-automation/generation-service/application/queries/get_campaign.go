package queries

import (
	"context"
	"log/slog"
	"strings"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	return campaign, nil
}

type ListItemsUseCase struct {
	Items  ports.ItemRepository
	Logger *slog.Logger
}

func (uc ListItemsUseCase) Execute(ctx context.Context, campaignID string) ([]entities.CampaignItem, error) {
	return uc.Items.ListItemsByCampaign(ctx, strings.TrimSpace(campaignID))
}
