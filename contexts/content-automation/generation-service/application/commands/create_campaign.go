package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type CreateCampaignCommand struct {
	WorkspaceID    string
	Title          string
	Kind           string
	Video          *entities.VideoSettings
	Story          *entities.StorySettings
	Automation     string
	StartDate      time.Time
	EndDate        time.Time
	MaxItemsPerDay int
	PreferredHours []int
	SuggestHours   bool
	Ideas          []string
}

type CreateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Items     ports.ItemRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

type CreateCampaignResult struct {
	Campaign entities.Campaign
	Items    []entities.CampaignItem
}

// Execute creates a draft campaign with one pending item per source idea.
func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	ideas := make([]string, 0, len(cmd.Ideas))
	for _, idea := range cmd.Ideas {
		if trimmed := strings.TrimSpace(idea); trimmed != "" {
			ideas = append(ideas, trimmed)
		}
	}
	if len(ideas) == 0 {
		return CreateCampaignResult{}, domainerrors.ErrNoItems
	}

	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateCampaignResult{}, err
	}

	campaign := entities.Campaign{
		CampaignID:  campaignID,
		WorkspaceID: strings.TrimSpace(cmd.WorkspaceID),
		Title:       strings.TrimSpace(cmd.Title),
		Kind:        entities.CampaignKind(strings.TrimSpace(cmd.Kind)),
		Video:       cmd.Video,
		Story:       cmd.Story,
		Automation:  entities.AutomationMode(strings.TrimSpace(cmd.Automation)),
		Window: entities.ScheduleWindow{
			StartDate:      cmd.StartDate,
			EndDate:        cmd.EndDate,
			MaxItemsPerDay: cmd.MaxItemsPerDay,
			PreferredHours: append([]int(nil), cmd.PreferredHours...),
			SuggestHours:   cmd.SuggestHours,
		},
		Status:    entities.CampaignStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if campaign.Automation == "" {
		campaign.Automation = entities.AutomationManual
	}
	if !campaign.ValidateBasics() || !campaign.Window.Validate() {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return CreateCampaignResult{}, err
	}

	items := make([]entities.CampaignItem, 0, len(ideas))
	for index, idea := range ideas {
		itemID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		item := entities.CampaignItem{
			ItemID:     itemID,
			CampaignID: campaign.CampaignID,
			OrderIndex: index,
			SourceIdea: idea,
			Status:     entities.ItemStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.Items.CreateItem(ctx, item); err != nil {
			return CreateCampaignResult{}, err
		}
		items = append(items, item)
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		envelope, err := newCampaignEnvelope(
			eventID,
			"campaign.created",
			campaign.CampaignID,
			now,
			map[string]any{
				"campaign_id":  campaign.CampaignID,
				"workspace_id": campaign.WorkspaceID,
				"kind":         string(campaign.Kind),
				"item_count":   len(items),
			},
		)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return CreateCampaignResult{}, err
		}
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "content-automation/generation-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"workspace_id", campaign.WorkspaceID,
		"kind", string(campaign.Kind),
		"item_count", len(items),
	)
	return CreateCampaignResult{Campaign: campaign, Items: items}, nil
}
