package queries

import (
	"context"
	"sort"

	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	"storyforge/contexts/content-automation/scheduling-service/ports"
)

type GetScheduleQuery struct {
	CampaignID string
}

// GetScheduleUseCase reads back the assigned slots of a campaign, ordered by
// publish time.
type GetScheduleUseCase struct {
	Schedule ports.ScheduleReader
}

func (uc GetScheduleUseCase) Execute(ctx context.Context, query GetScheduleQuery) ([]entities.PublishSlot, error) {
	slots, err := uc.Schedule.ListSlots(ctx, query.CampaignID)
	if err != nil {
		return nil, err
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].At.Equal(slots[j].At) {
			return slots[i].OrderIndex < slots[j].OrderIndex
		}
		return slots[i].At.Before(slots[j].At)
	})
	return slots, nil
}
