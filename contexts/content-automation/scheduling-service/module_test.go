package schedulingservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	schedulingservice "storyforge/contexts/content-automation/scheduling-service"
	"storyforge/contexts/content-automation/scheduling-service/application/commands"
	"storyforge/contexts/content-automation/scheduling-service/application/queries"
	"storyforge/contexts/content-automation/scheduling-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
	httptransport "storyforge/contexts/content-automation/scheduling-service/transport/http"
)

func seedModule(t *testing.T, campaignID string, itemCount int) schedulingservice.Module {
	t.Helper()
	module := schedulingservice.NewInMemoryModule(nil)
	items := make([]entities.ScheduleItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, entities.ScheduleItem{
			ItemID:     campaignID + "-item-" + string(rune('a'+i)),
			OrderIndex: i,
		})
	}
	module.Store.SeedItems(campaignID, "approved", items)
	return module
}

func TestScheduleCampaignAssignsSlots(t *testing.T) {
	module := seedModule(t, "camp-1", 5)

	resp, err := module.Handler.ScheduleCampaignHandler(context.Background(), "camp-1", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9, 18},
	})
	if err != nil {
		t.Fatalf("schedule should succeed: %v", err)
	}
	if len(resp.Slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(resp.Slots))
	}
	if resp.Slots[0].PublishAt != "2026-09-01T09:00:00Z" {
		t.Fatalf("first slot at %s", resp.Slots[0].PublishAt)
	}

	readBack, err := module.Handler.GetScheduleHandler(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("get schedule should succeed: %v", err)
	}
	if len(readBack.Slots) != 5 {
		t.Fatalf("expected 5 persisted slots, got %d", len(readBack.Slots))
	}
	for i := 1; i < len(readBack.Slots); i++ {
		if readBack.Slots[i].PublishAt < readBack.Slots[i-1].PublishAt {
			t.Fatalf("slots not ordered by publish time: %v", readBack.Slots)
		}
	}
}

func TestScheduleCampaignInfeasibleWritesNothing(t *testing.T) {
	module := seedModule(t, "camp-2", 7)

	_, err := module.Handler.ScheduleCampaignHandler(context.Background(), "camp-2", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 2,
		PreferredHours: []int{12},
	})
	if !errors.Is(err, domainerrors.ErrScheduleInfeasible) {
		t.Fatalf("expected infeasible, got %v", err)
	}

	readBack, err := module.Handler.GetScheduleHandler(context.Background(), "camp-2")
	if err != nil {
		t.Fatalf("get schedule should succeed: %v", err)
	}
	if len(readBack.Slots) != 0 {
		t.Fatalf("infeasible run must write nothing, found %d slots", len(readBack.Slots))
	}
}

func TestScheduleCampaignSuggestedHours(t *testing.T) {
	module := seedModule(t, "camp-3", 2)

	resp, err := module.Handler.ScheduleCampaignHandler(context.Background(), "camp-3", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-01",
		MaxItemsPerDay: 2,
		SuggestHours:   true,
	})
	if err != nil {
		t.Fatalf("schedule with suggested hours should succeed: %v", err)
	}
	// Static suggester proposes 9, 12, 18, 21; two items take 9 and 12.
	if resp.Slots[0].Hour != 9 || resp.Slots[1].Hour != 12 {
		t.Fatalf("expected suggested hours 9 and 12, got %d and %d", resp.Slots[0].Hour, resp.Slots[1].Hour)
	}
}

func TestReleaseSlotClearsAssignment(t *testing.T) {
	module := seedModule(t, "camp-4", 2)

	resp, err := module.Handler.ScheduleCampaignHandler(context.Background(), "camp-4", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-02",
		MaxItemsPerDay: 1,
		PreferredHours: []int{10},
	})
	if err != nil {
		t.Fatalf("schedule should succeed: %v", err)
	}

	released := resp.Slots[0].ItemID
	if err := module.Handler.ReleaseSlotHandler(context.Background(), "camp-4", released); err != nil {
		t.Fatalf("release should succeed: %v", err)
	}

	readBack, err := module.Handler.GetScheduleHandler(context.Background(), "camp-4")
	if err != nil {
		t.Fatalf("get schedule should succeed: %v", err)
	}
	if len(readBack.Slots) != 1 {
		t.Fatalf("expected 1 remaining slot, got %d", len(readBack.Slots))
	}
	if readBack.Slots[0].ItemID == released {
		t.Fatalf("released slot still present")
	}

	if err := module.Handler.ReleaseSlotHandler(context.Background(), "camp-4", "missing-item"); !errors.Is(err, domainerrors.ErrSlotNotFound) {
		t.Fatalf("expected slot not found, got %v", err)
	}
}

func TestScheduleCampaignRejectsBadWindow(t *testing.T) {
	module := seedModule(t, "camp-5", 1)

	_, err := module.Handler.ScheduleCampaignHandler(context.Background(), "camp-5", httptransport.ScheduleCampaignRequest{
		StartDate:      "not-a-date",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9},
	})
	if !errors.Is(err, domainerrors.ErrInvalidScheduleWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}

	_, err = module.Handler.ScheduleCampaignHandler(context.Background(), "camp-5", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 0,
		PreferredHours: []int{9},
	})
	if !errors.Is(err, domainerrors.ErrInvalidScheduleWindow) {
		t.Fatalf("zero cap should be rejected, got %v", err)
	}

	_, err = module.Handler.ScheduleCampaignHandler(context.Background(), "camp-5", httptransport.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 2,
		PreferredHours: []int{25},
	})
	if !errors.Is(err, domainerrors.ErrInvalidScheduleWindow) {
		t.Fatalf("out of range hour should be rejected, got %v", err)
	}
}

func TestScheduleCampaignRestrictsEligibleStatuses(t *testing.T) {
	module := schedulingservice.NewInMemoryModule(nil)
	module.Store.SeedItems("camp-6", "approved", []entities.ScheduleItem{
		{ItemID: "item-a", OrderIndex: 0},
		{ItemID: "item-b", OrderIndex: 1},
	})
	module.Store.SeedItems("camp-6", "completed", []entities.ScheduleItem{
		{ItemID: "item-c", OrderIndex: 2},
	})

	// Capacity is exactly 2; the run only fits because the undecided
	// completed item is excluded from the eligible set.
	slots, err := module.ScheduleCampaign.Execute(context.Background(), commands.ScheduleCampaignCommand{
		CampaignID:       "camp-6",
		StartDate:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		MaxItemsPerDay:   2,
		PreferredHours:   []int{9, 18},
		EligibleStatuses: []string{"approved"},
	})
	if err != nil {
		t.Fatalf("schedule should succeed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.ItemID == "item-c" {
			t.Fatalf("item outside the eligible statuses received a slot")
		}
	}

	readBack, err := module.GetSchedule.Execute(context.Background(), queries.GetScheduleQuery{CampaignID: "camp-6"})
	if err != nil {
		t.Fatalf("get schedule should succeed: %v", err)
	}
	if len(readBack) != 2 {
		t.Fatalf("expected 2 persisted slots, got %d", len(readBack))
	}
}
