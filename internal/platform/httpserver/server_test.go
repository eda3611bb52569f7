package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	generation "storyforge/contexts/content-automation/generation-service"
	generationmemory "storyforge/contexts/content-automation/generation-service/adapters/memory"
	generationentities "storyforge/contexts/content-automation/generation-service/domain/entities"
	generationhttp "storyforge/contexts/content-automation/generation-service/transport/http"
	scheduling "storyforge/contexts/content-automation/scheduling-service"
	schedulingentities "storyforge/contexts/content-automation/scheduling-service/domain/entities"
	schedulinghttp "storyforge/contexts/content-automation/scheduling-service/transport/http"
)

type noopScheduler struct{}

func (noopScheduler) ScheduleCampaign(_ context.Context, _ generationentities.Campaign) error {
	return nil
}

func newTestServer() (*Server, scheduling.Module) {
	schedulingModule := scheduling.NewInMemoryModule(nil)
	generationModule := generation.NewInMemoryModule(nil, generationmemory.StubPipeline{}, noopScheduler{}, nil)
	server := New(generationModule, schedulingModule, nil, "")
	return server, schedulingModule
}

func postJSON(t *testing.T, server *Server, path string, headers map[string]string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestCreateCampaignRequiresWorkspaceHeader(t *testing.T) {
	server, _ := newTestServer()

	recorder := postJSON(t, server, "/v1/campaigns", nil, generationhttp.CreateCampaignRequest{})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer()
	headers := map[string]string{"X-Workspace-Id": "ws-1"}

	recorder := postJSON(t, server, "/v1/campaigns", headers, generationhttp.CreateCampaignRequest{
		Title:          "HTTP smoke campaign",
		Kind:           "video",
		Video:          &generationhttp.VideoSettingsDTO{AspectRatio: "9:16", VoiceID: "narrator-1"},
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-05",
		MaxItemsPerDay: 2,
		PreferredHours: []int{9, 18},
		Ideas:          []string{"first idea", "second idea"},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var created generationhttp.CreateCampaignResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	campaignID := created.Campaign.CampaignID

	recorder = postJSON(t, server, "/v1/campaigns/"+campaignID+"/start", headers, struct{}{})
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", recorder.Code, recorder.Body.String())
	}

	// Synchronous in-memory runner: restart from review is a conflict.
	recorder = postJSON(t, server, "/v1/campaigns/"+campaignID+"/start", headers, struct{}{})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/"+campaignID+"/progress", nil)
	progressRecorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(progressRecorder, req)
	if progressRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", progressRecorder.Code)
	}
	var progress generationhttp.BatchProgressResponse
	if err := json.Unmarshal(progressRecorder.Body.Bytes(), &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if progress.Total != 2 || progress.Completed != 2 {
		t.Fatalf("expected both items completed, got %+v", progress)
	}
}

func TestScheduleInfeasibleOverHTTP(t *testing.T) {
	server, schedulingModule := newTestServer()

	items := make([]schedulingentities.ScheduleItem, 0, 7)
	for i := 0; i < 7; i++ {
		items = append(items, schedulingentities.ScheduleItem{
			ItemID:     "item-" + string(rune('1'+i)),
			OrderIndex: i,
		})
	}
	schedulingModule.Store.SeedItems("camp-1", "approved", items)

	recorder := postJSON(t, server, "/v1/campaigns/camp-1/schedule", nil, schedulinghttp.ScheduleCampaignRequest{
		StartDate:      "2026-09-01",
		EndDate:        "2026-09-03",
		MaxItemsPerDay: 2,
		PreferredHours: []int{12},
	})
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var infeasible schedulinghttp.InfeasibleResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &infeasible); err != nil {
		t.Fatalf("decode infeasible response: %v", err)
	}
	if infeasible.Requested != 7 || infeasible.Capacity != 6 || infeasible.Shortfall != 1 {
		t.Fatalf("unexpected infeasible payload: %+v", infeasible)
	}
}
