package commands

import (
	"context"
	"log/slog"

	"storyforge/contexts/content-automation/scheduling-service/application"
	"storyforge/contexts/content-automation/scheduling-service/ports"
)

type ReleaseSlotCommand struct {
	CampaignID string
	ItemID     string
}

// ReleaseSlotUseCase clears the publish timestamp of a single item, freeing
// its slot for a later re-run of the planner.
type ReleaseSlotUseCase struct {
	Slots  ports.SlotWriter
	Logger *slog.Logger
}

func (uc ReleaseSlotUseCase) Execute(ctx context.Context, cmd ReleaseSlotCommand) error {
	logger := application.ResolveLogger(uc.Logger)

	if err := uc.Slots.ClearSlot(ctx, cmd.ItemID); err != nil {
		return err
	}

	logger.InfoContext(ctx, "publish slot released",
		slog.String("event", "schedule.slot_released"),
		slog.String("module", "scheduling-service"),
		slog.String("campaign_id", cmd.CampaignID),
		slog.String("item_id", cmd.ItemID),
	)
	return nil
}
