package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	schedulingerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
	schedulinghttp "storyforge/contexts/content-automation/scheduling-service/transport/http"
)

func (s *Server) handleScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	var req schedulinghttp.ScheduleCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSchedulingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.scheduling.Handler.ScheduleCampaignHandler(r.Context(), r.PathValue("campaign_id"), req)
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.scheduling.Handler.GetScheduleHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReleaseSlot(w http.ResponseWriter, r *http.Request) {
	err := s.scheduling.Handler.ReleaseSlotHandler(r.Context(), r.PathValue("campaign_id"), r.PathValue("item_id"))
	if err != nil {
		writeSchedulingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSchedulingDomainError(w http.ResponseWriter, err error) {
	var infeasible *schedulingerrors.InfeasibleError
	switch {
	case errors.As(err, &infeasible):
		writeJSON(w, http.StatusUnprocessableEntity, schedulinghttp.InfeasibleResponse{
			Error:     "schedule_infeasible",
			Requested: infeasible.Requested,
			Capacity:  infeasible.Capacity,
			Shortfall: infeasible.Shortfall,
		})
	case errors.Is(err, schedulingerrors.ErrInvalidScheduleWindow):
		writeSchedulingError(w, http.StatusBadRequest, "invalid_schedule_window", err.Error())
	case errors.Is(err, schedulingerrors.ErrNoSchedulableItems):
		writeSchedulingError(w, http.StatusUnprocessableEntity, "no_schedulable_items", err.Error())
	case errors.Is(err, schedulingerrors.ErrSlotNotFound):
		writeSchedulingError(w, http.StatusNotFound, "slot_not_found", err.Error())
	default:
		writeSchedulingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSchedulingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, schedulinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
