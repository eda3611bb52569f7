package commands

import (
	"context"
	"log/slog"
	"time"

	"storyforge/contexts/content-automation/scheduling-service/application"
	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
	"storyforge/contexts/content-automation/scheduling-service/domain/services"
	"storyforge/contexts/content-automation/scheduling-service/ports"
)

type ScheduleCampaignCommand struct {
	CampaignID     string
	StartDate      time.Time
	EndDate        time.Time
	MaxItemsPerDay int
	PreferredHours []int
	SuggestHours   bool

	// EligibleStatuses restricts which item states receive slots. The
	// caller owns review semantics; empty means the adapter default.
	EligibleStatuses []string
}

// ScheduleCampaignUseCase assigns a publish timestamp to every schedulable
// item of a campaign. The run is all-or-nothing: an infeasible window writes
// no slots at all.
type ScheduleCampaignUseCase struct {
	Items     ports.ItemSource
	Slots     ports.SlotWriter
	Suggester ports.HourSuggester
	Logger    *slog.Logger
}

func (uc ScheduleCampaignUseCase) Execute(ctx context.Context, cmd ScheduleCampaignCommand) ([]entities.PublishSlot, error) {
	logger := application.ResolveLogger(uc.Logger)

	window := entities.Window{
		StartDate: cmd.StartDate,
		EndDate:   cmd.EndDate,
		MaxPerDay: cmd.MaxItemsPerDay,
		Hours:     cmd.PreferredHours,
	}

	if cmd.SuggestHours && uc.Suggester != nil {
		suggested, err := uc.Suggester.SuggestHours(ctx, cmd.CampaignID)
		if err != nil {
			return nil, err
		}
		if len(suggested) > 0 {
			window.Hours = suggested
		}
	}

	if !window.Valid() {
		return nil, domainerrors.ErrInvalidScheduleWindow
	}

	items, err := uc.Items.ListSchedulable(ctx, cmd.CampaignID, cmd.EligibleStatuses)
	if err != nil {
		return nil, err
	}

	slots, err := services.PlanSlots(items, window)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if err := uc.Slots.AssignSlot(ctx, slot.ItemID, slot.At); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "campaign scheduled",
		slog.String("event", "schedule.assigned"),
		slog.String("module", "scheduling-service"),
		slog.String("campaign_id", cmd.CampaignID),
		slog.Int("slot_count", len(slots)),
	)

	return slots, nil
}
