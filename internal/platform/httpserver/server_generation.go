package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	generationerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	generationhttp "storyforge/contexts/content-automation/generation-service/transport/http"
)

func requireWorkspace(w http.ResponseWriter, r *http.Request) (string, bool) {
	workspaceID := strings.TrimSpace(r.Header.Get("X-Workspace-Id"))
	if workspaceID == "" {
		writeGenerationError(w, http.StatusUnauthorized, "missing_workspace", "X-Workspace-Id header is required")
		return "", false
	}
	return workspaceID, true
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}

	var req generationhttp.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.generation.Handler.CreateCampaignHandler(r.Context(), workspaceID, req)
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	resp, err := s.generation.Handler.ListCampaignsHandler(r.Context(), workspaceID, r.URL.Query().Get("status"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.generation.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	resp, err := s.generation.Handler.ListItemsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := s.generation.Handler.GetProgressHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartBatch(w http.ResponseWriter, r *http.Request) {
	s.handleBatchAction(w, r, s.generation.Handler.StartBatchHandler)
}

func (s *Server) handlePauseBatch(w http.ResponseWriter, r *http.Request) {
	s.handleBatchAction(w, r, s.generation.Handler.PauseBatchHandler)
}

func (s *Server) handleResumeBatch(w http.ResponseWriter, r *http.Request) {
	s.handleBatchAction(w, r, s.generation.Handler.ResumeBatchHandler)
}

func (s *Server) handleCancelBatch(w http.ResponseWriter, r *http.Request) {
	s.handleBatchAction(w, r, s.generation.Handler.CancelBatchHandler)
}

func (s *Server) handleBatchAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, campaignID string) error,
) {
	if err := action(r.Context(), r.PathValue("campaign_id")); err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, generationhttp.AcceptedResponse{Accepted: true})
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	if err := s.generation.Handler.FinalizeCampaignHandler(r.Context(), r.PathValue("campaign_id")); err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generationhttp.AcceptedResponse{Accepted: true})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req generationhttp.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.generation.Handler.UpdateItemHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		r.PathValue("item_id"),
		req,
	)
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	err := s.generation.Handler.RemoveItemHandler(r.Context(), r.PathValue("campaign_id"), r.PathValue("item_id"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddIdeas(w http.ResponseWriter, r *http.Request) {
	var req generationhttp.AddIdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.generation.Handler.AddIdeasHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleApproveAll(w http.ResponseWriter, r *http.Request) {
	resp, err := s.generation.Handler.ApproveAllHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegenerateFailed(w http.ResponseWriter, r *http.Request) {
	if err := s.generation.Handler.RegenerateFailedHandler(r.Context(), r.PathValue("campaign_id")); err != nil {
		writeGenerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, generationhttp.AcceptedResponse{Accepted: true})
}

func writeGenerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generationerrors.ErrCampaignNotFound):
		writeGenerationError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, generationerrors.ErrItemNotFound):
		writeGenerationError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, generationerrors.ErrInvalidCampaignInput):
		writeGenerationError(w, http.StatusBadRequest, "invalid_campaign_input", err.Error())
	case errors.Is(err, generationerrors.ErrInvalidStateTransition):
		writeGenerationError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, generationerrors.ErrInvalidItemTransition):
		writeGenerationError(w, http.StatusConflict, "invalid_item_transition", err.Error())
	case errors.Is(err, generationerrors.ErrItemNotEditable):
		writeGenerationError(w, http.StatusConflict, "item_not_editable", err.Error())
	case errors.Is(err, generationerrors.ErrNoItems):
		writeGenerationError(w, http.StatusUnprocessableEntity, "no_items", err.Error())
	case errors.Is(err, generationerrors.ErrNoFailedItems):
		writeGenerationError(w, http.StatusUnprocessableEntity, "no_failed_items", err.Error())
	case errors.Is(err, generationerrors.ErrItemsAwaitingReview):
		writeGenerationError(w, http.StatusConflict, "items_awaiting_review", err.Error())
	default:
		writeGenerationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGenerationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, generationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
