package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"interviewdesk-backend/internal/domain"
)

type initiateSchedulingRequest struct {
	CandidateID int32   `json:"candidate_id"`
	SlotIDs     []int32 `json:"slot_ids"`
}

type cancelInterviewRequest struct {
	CandidateID int32 `json:"candidate_id"`
}

type offerOutcomeResponse struct {
	Accepted      bool   `json:"accepted"`
	MeetingLink   string `json:"meeting_link,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
}

func (h *Handlers) InitiateScheduling(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req initiateSchedulingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	if req.CandidateID <= 0 {
		h.writeError(w, domain.NewValidationError("candidate_id is required"))
		return
	}
	if len(req.SlotIDs) == 0 {
		h.writeError(w, domain.NewValidationError("at least one slot is required"))
		return
	}

	if err := h.scheduling.InitiateScheduling(r.Context(), orgID, req.CandidateID, req.SlotIDs); err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "offers sent"})
}

func (h *Handlers) RespondToOffer(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	outcome, err := h.scheduling.RespondToOffer(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := offerOutcomeResponse{Accepted: outcome.Accepted}
	if outcome.Accepted {
		resp.MeetingLink = outcome.MeetingLink
		resp.ScheduledTime = outcome.ScheduledTime.Format(time.RFC3339)
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handlers) CancelInterview(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req cancelInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	if req.CandidateID <= 0 {
		h.writeError(w, domain.NewValidationError("candidate_id is required"))
		return
	}

	if err := h.scheduling.CancelInterview(r.Context(), orgID, req.CandidateID); err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "interview cancelled"})
}

func (h *Handlers) GenerateCandidateLink(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	candidateID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	url, err := h.scheduling.GenerateCandidateLink(r.Context(), orgID, candidateID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]string{"scheduling_url": url})
}

// CandidateSearchSlots serves the candidate self-scheduling page. The link
// token stands in for both the actor and the candidate id.
func (h *Handlers) CandidateSearchSlots(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.resolveCandidateToken(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		h.writeError(w, domain.NewValidationError("date must be formatted as 2006-01-02"))
		return
	}

	results, err := h.availability.SearchSlots(r.Context(), candidate.OrganizationID, candidate.ID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toAvailableSlotResponses(results))
}

type candidateScheduleRequest struct {
	SlotIDs []int32 `json:"slot_ids"`
}

func (h *Handlers) CandidateInitiateScheduling(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.resolveCandidateToken(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req candidateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	if len(req.SlotIDs) == 0 {
		h.writeError(w, domain.NewValidationError("at least one slot is required"))
		return
	}

	if err := h.scheduling.InitiateScheduling(r.Context(), candidate.OrganizationID, candidate.ID, req.SlotIDs); err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "offers sent"})
}

func (h *Handlers) resolveCandidateToken(r *http.Request) (*domain.Candidate, error) {
	return h.scheduling.ResolveCandidateLink(r.Context(), mux.Vars(r)["token"])
}

// ListInterviewerSchedule returns the interviewer's interviews. Without a
// from date it returns the full history, feedback-pending rounds included.
func (h *Handlers) ListInterviewerSchedule(w http.ResponseWriter, r *http.Request) {
	interviewerID, err := actorID(r, headerInterviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			h.writeError(w, domain.NewValidationError("from must be formatted as 2006-01-02"))
			return
		}
	}

	interviews, err := h.scheduling.ListInterviewerSchedule(r.Context(), interviewerID, from)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, interviews)
}
