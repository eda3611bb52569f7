package queries

import (
	"context"
	"log/slog"
	"strings"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type ListCampaignsQuery struct {
	WorkspaceID string
	Status      string
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	filter := ports.CampaignFilter{
		WorkspaceID: strings.TrimSpace(query.WorkspaceID),
	}
	if strings.TrimSpace(query.Status) != "" {
		filter.Status = entities.CampaignStatus(strings.TrimSpace(query.Status))
	}
	items, err := uc.Campaigns.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Debug("campaigns listed",
		"event", "campaigns_listed",
		"module", "content-automation/generation-service",
		"layer", "application",
		"count", len(items),
	)
	return items, nil
}
