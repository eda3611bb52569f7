package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	generation "storyforge/contexts/content-automation/generation-service"
	scheduling "storyforge/contexts/content-automation/scheduling-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "storyforge/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	generation generation.Module
	scheduling scheduling.Module
}

func New(
	generationModule generation.Module,
	schedulingModule scheduling.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		generation: generationModule,
		scheduling: schedulingModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/items", s.handleListItems)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/items", s.handleAddIdeas)
	s.mux.HandleFunc("PATCH /v1/campaigns/{campaign_id}/items/{item_id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /v1/campaigns/{campaign_id}/items/{item_id}", s.handleRemoveItem)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/progress", s.handleGetProgress)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/start", s.handleStartBatch)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/pause", s.handlePauseBatch)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/resume", s.handleResumeBatch)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/cancel", s.handleCancelBatch)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/approve-all", s.handleApproveAll)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/regenerate-failed", s.handleRegenerateFailed)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/finalize", s.handleFinalize)

	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/schedule", s.handleScheduleCampaign)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/schedule", s.handleGetSchedule)
	s.mux.HandleFunc("DELETE /v1/campaigns/{campaign_id}/schedule/{item_id}", s.handleReleaseSlot)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
