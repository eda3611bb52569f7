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

type AddIdeasCommand struct {
	CampaignID string
	Ideas      []string
}

type AddIdeasUseCase struct {
	Campaigns  ports.CampaignRepository
	Items      ports.ItemRepository
	Dispatcher ports.BatchDispatcher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// Execute appends new pending items after the existing order indexes.
func (uc AddIdeasUseCase) Execute(ctx context.Context, cmd AddIdeasCommand) ([]entities.CampaignItem, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return nil, err
	}
	if !campaign.CanEditItems() {
		return nil, domainerrors.ErrInvalidStateTransition
	}

	ideas := make([]string, 0, len(cmd.Ideas))
	for _, idea := range cmd.Ideas {
		if trimmed := strings.TrimSpace(idea); trimmed != "" {
			ideas = append(ideas, trimmed)
		}
	}
	if len(ideas) == 0 {
		return nil, domainerrors.ErrInvalidCampaignInput
	}

	existing, err := uc.Items.ListItemsByCampaign(ctx, campaign.CampaignID)
	if err != nil {
		return nil, err
	}
	nextIndex := 0
	for _, item := range existing {
		if item.OrderIndex >= nextIndex {
			nextIndex = item.OrderIndex + 1
		}
	}

	now := uc.Clock.Now().UTC()
	created := make([]entities.CampaignItem, 0, len(ideas))
	for offset, idea := range ideas {
		itemID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return created, err
		}
		item := entities.CampaignItem{
			ItemID:     itemID,
			CampaignID: campaign.CampaignID,
			OrderIndex: nextIndex + offset,
			SourceIdea: idea,
			Status:     entities.ItemStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.Items.CreateItem(ctx, item); err != nil {
			return created, err
		}
		created = append(created, item)
	}

	// Ideas added during review restart generation for the new items;
	// without the dispatch they would sit pending behind the review gate.
	if campaign.Status == entities.CampaignStatusReview {
		campaign.Status = entities.CampaignStatusGenerating
		campaign.UpdatedAt = now
		if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
			return created, err
		}
		if uc.Dispatcher != nil {
			ids := make([]string, 0, len(created))
			for _, item := range created {
				ids = append(ids, item.ItemID)
			}
			if err := uc.Dispatcher.Dispatch(ctx, campaign.CampaignID, ids); err != nil {
				return created, err
			}
		}
	}

	logger.Info("campaign ideas added",
		"event", "campaign_ideas_added",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"item_count", len(created),
	)
	return created, nil
}
