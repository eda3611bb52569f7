package generationservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	generationservice "storyforge/contexts/content-automation/generation-service"
	"storyforge/contexts/content-automation/generation-service/adapters/memory"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	httptransport "storyforge/contexts/content-automation/generation-service/transport/http"
)

type recordingScheduler struct {
	mu    sync.Mutex
	calls []string
}

func (s *recordingScheduler) ScheduleCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, campaign.CampaignID)
	return nil
}

func (s *recordingScheduler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func createCampaign(t *testing.T, module generationservice.Module, automation string, ideas []string) httptransport.CreateCampaignResponse {
	t.Helper()
	resp, err := module.Handler.CreateCampaignHandler(context.Background(), "ws-1", httptransport.CreateCampaignRequest{
		Title:          "October shorts",
		Kind:           "video",
		Video:          &httptransport.VideoSettingsDTO{AspectRatio: "9:16", VoiceID: "narrator-2"},
		Automation:     automation,
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-07",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9, 18},
		Ideas:          ideas,
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	return resp
}

func TestManualCampaignLifecycle(t *testing.T) {
	scheduler := &recordingScheduler{}
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, scheduler, nil)

	created := createCampaign(t, module, "manual", []string{"idea one", "idea two", "idea three"})
	campaignID := created.Campaign.CampaignID
	if created.Campaign.Status != "draft" {
		t.Fatalf("new campaign should be draft, got %s", created.Campaign.Status)
	}
	if len(created.Items) != 3 {
		t.Fatalf("one item per idea, got %d", len(created.Items))
	}

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	// The in-memory module runs the batch synchronously, so the campaign has
	// already drained into review.
	campaign, err := module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if campaign.Campaign.Status != "review" {
		t.Fatalf("manual campaign lands in review, got %s", campaign.Campaign.Status)
	}
	if scheduler.callCount() != 0 {
		t.Fatalf("manual flow must not schedule before finalize")
	}

	approved, err := module.Handler.ApproveAllHandler(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if approved.Count != 3 {
		t.Fatalf("expected 3 approvals, got %d", approved.Count)
	}

	if err := module.Handler.FinalizeCampaignHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if scheduler.callCount() != 1 {
		t.Fatalf("finalize schedules exactly once, got %d", scheduler.callCount())
	}

	campaign, _ = module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "completed" {
		t.Fatalf("finalized campaign is completed, got %s", campaign.Campaign.Status)
	}
}

func TestAutoCampaignSchedulesOnDrain(t *testing.T) {
	scheduler := &recordingScheduler{}
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, scheduler, nil)

	created := createCampaign(t, module, "auto", []string{"idea one", "idea two"})
	campaignID := created.Campaign.CampaignID

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	campaign, _ := module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "completed" {
		t.Fatalf("auto campaign completes on drain, got %s", campaign.Campaign.Status)
	}
	if scheduler.callCount() != 1 {
		t.Fatalf("auto flow schedules the whole batch once, got %d", scheduler.callCount())
	}
}

func TestStartBatchGuards(t *testing.T) {
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, &recordingScheduler{}, nil)
	created := createCampaign(t, module, "manual", []string{"idea"})
	campaignID := created.Campaign.CampaignID

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}
	// Campaign is now in review; a second start must be rejected.
	err := module.Handler.StartBatchHandler(context.Background(), campaignID)
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	err = module.Handler.StartBatchHandler(context.Background(), "missing-campaign")
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegenerateFailedRetriesOnlyFailedItems(t *testing.T) {
	scheduler := &recordingScheduler{}
	failing := memory.StubPipeline{FailOn: map[string]entities.Stage{}}
	module := generationservice.NewInMemoryModule(nil, failing, scheduler, nil)

	created := createCampaign(t, module, "manual", []string{"idea one", "idea two", "idea three"})
	campaignID := created.Campaign.CampaignID
	failing.FailOn[created.Items[1].ItemID] = entities.StageAudio

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	progress, err := module.Handler.GetProgressHandler(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if progress.Completed != 2 || progress.Failed != 1 {
		t.Fatalf("expected 2 completed and 1 failed, got %+v", progress)
	}

	// Fix the backend and retry the failed subset.
	delete(failing.FailOn, created.Items[1].ItemID)
	if err := module.Handler.RegenerateFailedHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	progress, _ = module.Handler.GetProgressHandler(context.Background(), campaignID)
	if progress.Completed != 3 || progress.Failed != 0 {
		t.Fatalf("retry should recover the failed item, got %+v", progress)
	}

	// Nothing failed anymore; a second regenerate is rejected.
	err = module.Handler.RegenerateFailedHandler(context.Background(), campaignID)
	if !errors.Is(err, domainerrors.ErrNoFailedItems) {
		t.Fatalf("expected no failed items, got %v", err)
	}
}

func TestUpdateItemReviewGuards(t *testing.T) {
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, &recordingScheduler{}, nil)
	created := createCampaign(t, module, "manual", []string{"idea one", "idea two"})
	campaignID := created.Campaign.CampaignID

	approvedStatus := "approved"
	// Approving a pending item skips the completed state and must fail.
	_, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[0].ItemID, httptransport.UpdateItemRequest{
		Status: &approvedStatus,
	})
	if !errors.Is(err, domainerrors.ErrInvalidItemTransition) {
		t.Fatalf("expected invalid item transition, got %v", err)
	}

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	updated, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[0].ItemID, httptransport.UpdateItemRequest{
		Status: &approvedStatus,
	})
	if err != nil {
		t.Fatalf("approve completed item: %v", err)
	}
	if updated.Item.Status != "approved" {
		t.Fatalf("expected approved, got %s", updated.Item.Status)
	}

	rejectedStatus := "rejected"
	rejected, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[1].ItemID, httptransport.UpdateItemRequest{
		Status: &rejectedStatus,
	})
	if err != nil {
		t.Fatalf("reject completed item: %v", err)
	}
	if rejected.Item.Status != "rejected" || rejected.Item.PublishAt != "" {
		t.Fatalf("rejected item must carry no publish slot: %+v", rejected.Item)
	}

	// Source idea is immutable once generation has run.
	newIdea := "changed my mind"
	_, err = module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[0].ItemID, httptransport.UpdateItemRequest{
		SourceIdea: &newIdea,
	})
	if !errors.Is(err, domainerrors.ErrItemNotEditable) {
		t.Fatalf("expected not editable, got %v", err)
	}

	// Wrong campaign id must not leak another campaign's item.
	_, err = module.Handler.UpdateItemHandler(context.Background(), "other-campaign", created.Items[0].ItemID, httptransport.UpdateItemRequest{
		Status: &approvedStatus,
	})
	if !errors.Is(err, domainerrors.ErrItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestAddAndRemoveIdeasWhileDraft(t *testing.T) {
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, &recordingScheduler{}, nil)
	created := createCampaign(t, module, "manual", []string{"idea one"})
	campaignID := created.Campaign.CampaignID

	added, err := module.Handler.AddIdeasHandler(context.Background(), campaignID, httptransport.AddIdeasRequest{
		Ideas: []string{"idea two", "idea three"},
	})
	if err != nil {
		t.Fatalf("add ideas: %v", err)
	}
	if len(added.Items) != 2 {
		t.Fatalf("expected 2 new items, got %d", len(added.Items))
	}
	if added.Items[0].OrderIndex != 1 || added.Items[1].OrderIndex != 2 {
		t.Fatalf("new items continue the order sequence: %+v", added.Items)
	}

	if err := module.Handler.RemoveItemHandler(context.Background(), campaignID, added.Items[1].ItemID); err != nil {
		t.Fatalf("remove pending item: %v", err)
	}

	items, err := module.Handler.ListItemsHandler(context.Background(), campaignID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items.Items) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(items.Items))
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, &recordingScheduler{}, nil)

	_, err := module.Handler.CreateCampaignHandler(context.Background(), "ws-1", httptransport.CreateCampaignRequest{
		Title:          "No ideas",
		Kind:           "video",
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-07",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9},
	})
	if !errors.Is(err, domainerrors.ErrNoItems) {
		t.Fatalf("expected no items error, got %v", err)
	}

	_, err = module.Handler.CreateCampaignHandler(context.Background(), "ws-1", httptransport.CreateCampaignRequest{
		Title:          "Mismatched settings",
		Kind:           "video",
		Story:          &httptransport.StorySettingsDTO{Tone: "dark", ChapterCount: 3},
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-07",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9},
		Ideas:          []string{"idea"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("story settings on a video campaign must fail, got %v", err)
	}

	_, err = module.Handler.CreateCampaignHandler(context.Background(), "ws-1", httptransport.CreateCampaignRequest{
		Title:          "Inverted window",
		Kind:           "story",
		Story:          &httptransport.StorySettingsDTO{Tone: "light", ChapterCount: 5},
		StartDate:      "2026-10-07",
		EndDate:        "2026-10-01",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9},
		Ideas:          []string{"idea"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("inverted window must fail, got %v", err)
	}
}

func TestFinalizeRequiresEveryItemDecided(t *testing.T) {
	scheduler := &recordingScheduler{}
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, scheduler, nil)
	created := createCampaign(t, module, "manual", []string{"idea one", "idea two", "idea three"})
	campaignID := created.Campaign.CampaignID

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	// Approve two items and leave the third merely completed.
	approvedStatus := "approved"
	for _, item := range created.Items[:2] {
		if _, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, item.ItemID, httptransport.UpdateItemRequest{
			Status: &approvedStatus,
		}); err != nil {
			t.Fatalf("approve item: %v", err)
		}
	}

	err := module.Handler.FinalizeCampaignHandler(context.Background(), campaignID)
	if !errors.Is(err, domainerrors.ErrItemsAwaitingReview) {
		t.Fatalf("undecided item must block finalize, got %v", err)
	}
	if scheduler.callCount() != 0 {
		t.Fatalf("no slot may be assigned while an item awaits review")
	}
	campaign, _ := module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "review" {
		t.Fatalf("blocked finalize leaves the campaign in review, got %s", campaign.Campaign.Status)
	}

	rejectedStatus := "rejected"
	if _, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[2].ItemID, httptransport.UpdateItemRequest{
		Status: &rejectedStatus,
	}); err != nil {
		t.Fatalf("reject item: %v", err)
	}

	if err := module.Handler.FinalizeCampaignHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("finalize with every item decided: %v", err)
	}
	if scheduler.callCount() != 1 {
		t.Fatalf("finalize schedules exactly once, got %d", scheduler.callCount())
	}
}

func TestResetFailedItemInReviewRestartsGeneration(t *testing.T) {
	scheduler := &recordingScheduler{}
	failing := memory.StubPipeline{FailOn: map[string]entities.Stage{}}
	module := generationservice.NewInMemoryModule(nil, failing, scheduler, nil)

	created := createCampaign(t, module, "manual", []string{"idea one", "idea two"})
	campaignID := created.Campaign.CampaignID
	failing.FailOn[created.Items[1].ItemID] = entities.StageVisuals

	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}
	campaign, _ := module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "review" {
		t.Fatalf("campaign drains into review with one failed item, got %s", campaign.Campaign.Status)
	}

	// Fix the backend, then send the failed item back to pending through
	// the item update path instead of the bulk retry.
	delete(failing.FailOn, created.Items[1].ItemID)
	pendingStatus := "pending"
	if _, err := module.Handler.UpdateItemHandler(context.Background(), campaignID, created.Items[1].ItemID, httptransport.UpdateItemRequest{
		Status: &pendingStatus,
	}); err != nil {
		t.Fatalf("reset failed item: %v", err)
	}

	// The synchronous runner regenerated the item and the campaign drained
	// back into review; it is not stranded.
	campaign, _ = module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "review" {
		t.Fatalf("campaign re-enters generating and drains back to review, got %s", campaign.Campaign.Status)
	}
	progress, _ := module.Handler.GetProgressHandler(context.Background(), campaignID)
	if progress.Completed != 2 || progress.Failed != 0 {
		t.Fatalf("reset item should regenerate, got %+v", progress)
	}

	if _, err := module.Handler.ApproveAllHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("approve all: %v", err)
	}
	if err := module.Handler.FinalizeCampaignHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("finalize after reset: %v", err)
	}
	if scheduler.callCount() != 1 {
		t.Fatalf("finalize schedules exactly once, got %d", scheduler.callCount())
	}
}

func TestAddIdeasInReviewRestartsGeneration(t *testing.T) {
	scheduler := &recordingScheduler{}
	module := generationservice.NewInMemoryModule(nil, memory.StubPipeline{}, scheduler, nil)

	created := createCampaign(t, module, "manual", []string{"idea one", "idea two"})
	campaignID := created.Campaign.CampaignID
	if err := module.Handler.StartBatchHandler(context.Background(), campaignID); err != nil {
		t.Fatalf("start batch: %v", err)
	}

	added, err := module.Handler.AddIdeasHandler(context.Background(), campaignID, httptransport.AddIdeasRequest{
		Ideas: []string{"idea three"},
	})
	if err != nil {
		t.Fatalf("add ideas in review: %v", err)
	}
	if len(added.Items) != 1 || added.Items[0].OrderIndex != 2 {
		t.Fatalf("new item continues the order sequence: %+v", added.Items)
	}

	// The new item ran through the synchronous runner; the campaign drained
	// back into review with all three items completed.
	campaign, _ := module.Handler.GetCampaignHandler(context.Background(), campaignID)
	if campaign.Campaign.Status != "review" {
		t.Fatalf("campaign returns to review once the new item drains, got %s", campaign.Campaign.Status)
	}
	progress, _ := module.Handler.GetProgressHandler(context.Background(), campaignID)
	if progress.Total != 3 || progress.Completed != 3 {
		t.Fatalf("added item should generate, got %+v", progress)
	}
	if scheduler.callCount() != 0 {
		t.Fatalf("review round-trip must not schedule")
	}
}
