package entities_test

import (
	"testing"
	"time"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
)

func day(value string) time.Time {
	parsed, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestScheduleWindowValidation(t *testing.T) {
	valid := entities.ScheduleWindow{
		StartDate:      day("2026-09-01"),
		EndDate:        day("2026-09-03"),
		MaxItemsPerDay: 2,
		PreferredHours: []int{9, 18},
	}
	if !valid.Validate() {
		t.Fatalf("window should be valid")
	}
	if valid.DaysInWindow() != 3 {
		t.Fatalf("expected 3 inclusive days, got %d", valid.DaysInWindow())
	}
	if valid.Capacity() != 6 {
		t.Fatalf("expected capacity 6, got %d", valid.Capacity())
	}

	inverted := valid
	inverted.EndDate = day("2026-08-31")
	if inverted.Validate() {
		t.Fatalf("inverted window must be invalid")
	}

	noHours := valid
	noHours.PreferredHours = nil
	if noHours.Validate() {
		t.Fatalf("window without hours must be invalid")
	}
	noHours.SuggestHours = true
	if !noHours.Validate() {
		t.Fatalf("suggested hours replace an explicit hour set")
	}

	badHour := valid
	badHour.PreferredHours = []int{24}
	if badHour.Validate() {
		t.Fatalf("hour 24 must be invalid")
	}

	singleDay := valid
	singleDay.EndDate = singleDay.StartDate
	if singleDay.DaysInWindow() != 1 {
		t.Fatalf("equal start and end is one day, got %d", singleDay.DaysInWindow())
	}
}

func TestCampaignStatusGuards(t *testing.T) {
	campaign := entities.Campaign{Status: entities.CampaignStatusDraft}
	if !campaign.CanStartBatch() {
		t.Fatalf("draft campaign should be startable")
	}

	campaign.Status = entities.CampaignStatusPaused
	if !campaign.CanStartBatch() {
		t.Fatalf("paused campaign should be resumable into a batch")
	}

	for _, status := range []entities.CampaignStatus{
		entities.CampaignStatusGenerating,
		entities.CampaignStatusReview,
		entities.CampaignStatusCompleted,
		entities.CampaignStatusCancelled,
	} {
		campaign.Status = status
		if campaign.CanStartBatch() {
			t.Fatalf("%s campaign must not start a batch", status)
		}
	}

	campaign.Status = entities.CampaignStatusCompleted
	if !campaign.IsTerminal() {
		t.Fatalf("completed is terminal")
	}
	campaign.Status = entities.CampaignStatusCancelled
	if !campaign.IsTerminal() {
		t.Fatalf("cancelled is terminal")
	}
}

func TestItemTransitionGraph(t *testing.T) {
	cases := []struct {
		from entities.ItemStatus
		to   entities.ItemStatus
		ok   bool
	}{
		{entities.ItemStatusPending, entities.ItemStatusGenerating, true},
		{entities.ItemStatusGenerating, entities.ItemStatusCompleted, true},
		{entities.ItemStatusGenerating, entities.ItemStatusFailed, true},
		{entities.ItemStatusCompleted, entities.ItemStatusApproved, true},
		{entities.ItemStatusCompleted, entities.ItemStatusRejected, true},
		{entities.ItemStatusFailed, entities.ItemStatusRejected, true},
		{entities.ItemStatusFailed, entities.ItemStatusPending, true},

		{entities.ItemStatusPending, entities.ItemStatusApproved, false},
		{entities.ItemStatusPending, entities.ItemStatusCompleted, false},
		{entities.ItemStatusGenerating, entities.ItemStatusApproved, false},
		{entities.ItemStatusFailed, entities.ItemStatusApproved, false},
		{entities.ItemStatusApproved, entities.ItemStatusRejected, false},
		{entities.ItemStatusRejected, entities.ItemStatusPending, false},
		{entities.ItemStatusCompleted, entities.ItemStatusPending, false},
	}

	for _, tc := range cases {
		item := entities.CampaignItem{Status: tc.from}
		if got := item.CanTransition(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestResetForRetryClearsFailureState(t *testing.T) {
	publishAt := day("2026-09-05")
	item := entities.CampaignItem{
		ItemID:        "item-1",
		Status:        entities.ItemStatusFailed,
		Stage:         entities.StageVisuals,
		StageProgress: 40,
		ErrorMessage:  "render backend timeout",
		PublishAt:     &publishAt,
	}

	reset := item.ResetForRetry(day("2026-09-06"))
	if reset.Status != entities.ItemStatusPending {
		t.Fatalf("reset item should be pending, got %s", reset.Status)
	}
	if reset.Stage != "" || reset.StageProgress != 0 || reset.ErrorMessage != "" {
		t.Fatalf("stage fields should be cleared: %+v", reset)
	}
	if reset.PublishAt != nil {
		t.Fatalf("publish slot should be released on retry")
	}
}

func TestComputeProgressBuckets(t *testing.T) {
	items := []entities.CampaignItem{
		{OrderIndex: 0, Status: entities.ItemStatusApproved},
		{OrderIndex: 1, Status: entities.ItemStatusCompleted},
		{OrderIndex: 2, Status: entities.ItemStatusRejected},
		{OrderIndex: 3, Status: entities.ItemStatusFailed},
		{OrderIndex: 4, Status: entities.ItemStatusGenerating, SourceIdea: "city timelapse", Stage: entities.StageAudio, StageProgress: 30},
		{OrderIndex: 5, Status: entities.ItemStatusGenerating, SourceIdea: "ocean drone shot", Stage: entities.StageScript},
		{OrderIndex: 6, Status: entities.ItemStatusPending},
	}

	progress := entities.ComputeProgress("camp-1", items)
	if progress.Total != 7 {
		t.Fatalf("total %d", progress.Total)
	}
	if progress.Completed != 2 || progress.Failed != 2 || progress.InProgress != 2 || progress.Pending != 1 {
		t.Fatalf("unexpected buckets: %+v", progress)
	}
	if progress.Total != progress.Completed+progress.Failed+progress.InProgress+progress.Pending {
		t.Fatalf("buckets do not sum to total: %+v", progress)
	}
	if !progress.HasCurrent || progress.CurrentIndex != 4 {
		t.Fatalf("current item should be the generating item with the lowest index: %+v", progress)
	}
	if progress.CurrentTopic != "city timelapse" || progress.CurrentStage != entities.StageAudio || progress.CurrentProgress != 30 {
		t.Fatalf("current item detail mismatch: %+v", progress)
	}
}

func TestComputeProgressEmpty(t *testing.T) {
	progress := entities.ComputeProgress("camp-2", nil)
	if progress.Total != 0 || progress.HasCurrent {
		t.Fatalf("empty campaign yields empty snapshot: %+v", progress)
	}
}
