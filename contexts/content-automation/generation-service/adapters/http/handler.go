package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storyforge/contexts/content-automation/generation-service/application/commands"
	"storyforge/contexts/content-automation/generation-service/application/queries"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	httptransport "storyforge/contexts/content-automation/generation-service/transport/http"
)

type Handler struct {
	CreateCampaign   commands.CreateCampaignUseCase
	ChangeStatus     commands.ChangeStatusUseCase
	Finalize         commands.FinalizeCampaignUseCase
	UpdateItem       commands.UpdateItemUseCase
	ApproveAll       commands.ApproveAllUseCase
	RegenerateFailed commands.RegenerateFailedUseCase
	AddIdeas         commands.AddIdeasUseCase
	RemoveItem       commands.RemoveItemUseCase
	GetCampaign      queries.GetCampaignUseCase
	ListCampaigns    queries.ListCampaignsUseCase
	ListItems        queries.ListItemsUseCase
	GetProgress      queries.GetProgressUseCase
	Logger           *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	workspaceID string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}

	cmd := commands.CreateCampaignCommand{
		WorkspaceID:    workspaceID,
		Title:          req.Title,
		Kind:           req.Kind,
		Automation:     req.Automation,
		StartDate:      startDate,
		EndDate:        endDate,
		MaxItemsPerDay: req.MaxItemsPerDay,
		PreferredHours: append([]int(nil), req.PreferredHours...),
		SuggestHours:   req.SuggestHours,
		Ideas:          append([]string(nil), req.Ideas...),
	}
	if req.Video != nil {
		cmd.Video = &entities.VideoSettings{
			AspectRatio: req.Video.AspectRatio,
			VoiceID:     req.Video.VoiceID,
		}
	}
	if req.Story != nil {
		cmd.Story = &entities.StorySettings{
			Tone:         req.Story.Tone,
			ChapterCount: req.Story.ChapterCount,
		}
	}

	result, err := h.CreateCampaign.Execute(ctx, cmd)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	items := make([]httptransport.ItemDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapItem(item))
	}
	return httptransport.CreateCampaignResponse{
		Campaign: mapCampaign(result.Campaign),
		Items:    items,
	}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	campaign, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(campaign)}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, workspaceID string, status string) (httptransport.ListCampaignsResponse, error) {
	campaigns, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		WorkspaceID: workspaceID,
		Status:      status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	items := make([]httptransport.CampaignDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, mapCampaign(campaign))
	}
	return httptransport.ListCampaignsResponse{Items: items}, nil
}

func (h Handler) ListItemsHandler(ctx context.Context, campaignID string) (httptransport.ListItemsResponse, error) {
	items, err := h.ListItems.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.ListItemsResponse{}, err
	}
	result := make([]httptransport.ItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapItem(item))
	}
	return httptransport.ListItemsResponse{Items: result}, nil
}

func (h Handler) GetProgressHandler(ctx context.Context, campaignID string) (httptransport.BatchProgressResponse, error) {
	progress, err := h.GetProgress.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.BatchProgressResponse{}, err
	}
	resp := httptransport.BatchProgressResponse{
		CampaignID:      progress.CampaignID,
		Total:           progress.Total,
		Completed:       progress.Completed,
		Failed:          progress.Failed,
		InProgress:      progress.InProgress,
		Pending:         progress.Pending,
		CurrentProgress: progress.CurrentProgress,
	}
	if progress.HasCurrent {
		index := progress.CurrentIndex
		resp.CurrentIndex = &index
		resp.CurrentTopic = progress.CurrentTopic
		resp.CurrentStage = string(progress.CurrentStage)
	}
	return resp, nil
}

func (h Handler) StartBatchHandler(ctx context.Context, campaignID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Action:     commands.StatusActionStart,
	})
}

func (h Handler) PauseBatchHandler(ctx context.Context, campaignID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Action:     commands.StatusActionPause,
	})
}

func (h Handler) ResumeBatchHandler(ctx context.Context, campaignID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Action:     commands.StatusActionResume,
	})
}

func (h Handler) CancelBatchHandler(ctx context.Context, campaignID string) error {
	return h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Action:     commands.StatusActionCancel,
	})
}

func (h Handler) FinalizeCampaignHandler(ctx context.Context, campaignID string) error {
	return h.Finalize.Execute(ctx, campaignID)
}

func (h Handler) UpdateItemHandler(
	ctx context.Context,
	campaignID string,
	itemID string,
	req httptransport.UpdateItemRequest,
) (httptransport.UpdateItemResponse, error) {
	cmd := commands.UpdateItemCommand{
		CampaignID: campaignID,
		ItemID:     itemID,
		SourceIdea: req.SourceIdea,
	}
	if req.Status != nil {
		status := entities.ItemStatus(strings.TrimSpace(*req.Status))
		cmd.Status = &status
	}
	item, err := h.UpdateItem.Execute(ctx, cmd)
	if err != nil {
		return httptransport.UpdateItemResponse{}, err
	}
	return httptransport.UpdateItemResponse{Item: mapItem(item)}, nil
}

func (h Handler) ApproveAllHandler(ctx context.Context, campaignID string) (httptransport.ApproveAllResponse, error) {
	count, err := h.ApproveAll.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.ApproveAllResponse{}, err
	}
	return httptransport.ApproveAllResponse{Count: count}, nil
}

func (h Handler) RegenerateFailedHandler(ctx context.Context, campaignID string) error {
	return h.RegenerateFailed.Execute(ctx, campaignID)
}

func (h Handler) AddIdeasHandler(
	ctx context.Context,
	campaignID string,
	req httptransport.AddIdeasRequest,
) (httptransport.AddIdeasResponse, error) {
	items, err := h.AddIdeas.Execute(ctx, commands.AddIdeasCommand{
		CampaignID: campaignID,
		Ideas:      append([]string(nil), req.Ideas...),
	})
	if err != nil {
		return httptransport.AddIdeasResponse{}, err
	}
	result := make([]httptransport.ItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapItem(item))
	}
	return httptransport.AddIdeasResponse{Items: result}, nil
}

func (h Handler) RemoveItemHandler(ctx context.Context, campaignID string, itemID string) error {
	return h.RemoveItem.Execute(ctx, campaignID, itemID)
}

func mapCampaign(campaign entities.Campaign) httptransport.CampaignDTO {
	dto := httptransport.CampaignDTO{
		CampaignID:     campaign.CampaignID,
		WorkspaceID:    campaign.WorkspaceID,
		Title:          campaign.Title,
		Kind:           string(campaign.Kind),
		Automation:     string(campaign.Automation),
		StartDate:      campaign.Window.StartDate.UTC().Format(time.DateOnly),
		EndDate:        campaign.Window.EndDate.UTC().Format(time.DateOnly),
		MaxItemsPerDay: campaign.Window.MaxItemsPerDay,
		PreferredHours: append([]int(nil), campaign.Window.PreferredHours...),
		SuggestHours:   campaign.Window.SuggestHours,
		Status:         string(campaign.Status),
		CreatedAt:      campaign.CreatedAt.UTC().Format(time.RFC3339),
	}
	if campaign.Video != nil {
		dto.Video = &httptransport.VideoSettingsDTO{
			AspectRatio: campaign.Video.AspectRatio,
			VoiceID:     campaign.Video.VoiceID,
		}
	}
	if campaign.Story != nil {
		dto.Story = &httptransport.StorySettingsDTO{
			Tone:         campaign.Story.Tone,
			ChapterCount: campaign.Story.ChapterCount,
		}
	}
	if campaign.StartedAt != nil {
		dto.StartedAt = campaign.StartedAt.UTC().Format(time.RFC3339)
	}
	if campaign.CompletedAt != nil {
		dto.CompletedAt = campaign.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapItem(item entities.CampaignItem) httptransport.ItemDTO {
	dto := httptransport.ItemDTO{
		ItemID:        item.ItemID,
		CampaignID:    item.CampaignID,
		OrderIndex:    item.OrderIndex,
		SourceIdea:    item.SourceIdea,
		Status:        string(item.Status),
		Stage:         string(item.Stage),
		StageProgress: item.StageProgress,
		ResultRef:     item.ResultRef,
		ErrorMessage:  item.ErrorMessage,
	}
	if item.PublishAt != nil {
		dto.PublishAt = item.PublishAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
}
