package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/application/commands"
	"storyforge/contexts/content-automation/scheduling-service/application/queries"
	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
	httptransport "storyforge/contexts/content-automation/scheduling-service/transport/http"
)

type Handler struct {
	ScheduleCampaign commands.ScheduleCampaignUseCase
	ReleaseSlot      commands.ReleaseSlotUseCase
	GetSchedule      queries.GetScheduleUseCase
	Logger           *slog.Logger
}

func (h Handler) ScheduleCampaignHandler(
	ctx context.Context,
	campaignID string,
	req httptransport.ScheduleCampaignRequest,
) (httptransport.ScheduleResponse, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return httptransport.ScheduleResponse{}, domainerrors.ErrInvalidScheduleWindow
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return httptransport.ScheduleResponse{}, domainerrors.ErrInvalidScheduleWindow
	}

	slots, err := h.ScheduleCampaign.Execute(ctx, commands.ScheduleCampaignCommand{
		CampaignID:     campaignID,
		StartDate:      startDate,
		EndDate:        endDate,
		MaxItemsPerDay: req.MaxItemsPerDay,
		PreferredHours: append([]int(nil), req.PreferredHours...),
		SuggestHours:   req.SuggestHours,
	})
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return mapSchedule(campaignID, slots), nil
}

func (h Handler) GetScheduleHandler(ctx context.Context, campaignID string) (httptransport.ScheduleResponse, error) {
	slots, err := h.GetSchedule.Execute(ctx, queries.GetScheduleQuery{CampaignID: campaignID})
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return mapSchedule(campaignID, slots), nil
}

func (h Handler) ReleaseSlotHandler(ctx context.Context, campaignID string, itemID string) error {
	return h.ReleaseSlot.Execute(ctx, commands.ReleaseSlotCommand{
		CampaignID: campaignID,
		ItemID:     itemID,
	})
}

func mapSchedule(campaignID string, slots []entities.PublishSlot) httptransport.ScheduleResponse {
	out := make([]httptransport.PublishSlotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, httptransport.PublishSlotDTO{
			ItemID:     slot.ItemID,
			OrderIndex: slot.OrderIndex,
			Day:        slot.Day.UTC().Format(time.DateOnly),
			Hour:       slot.Hour,
			PublishAt:  slot.At.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ScheduleResponse{CampaignID: campaignID, Slots: out}
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
}
