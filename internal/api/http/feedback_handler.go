package http

import (
	"encoding/json"
	"net/http"

	"interviewdesk-backend/internal/domain"
)

type submitFeedbackRequest struct {
	Outcome    string `json:"outcome"`
	TotalScore int32  `json:"total_score"`
}

func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	interviewerID, err := actorID(r, headerInterviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	interviewID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}
	if req.Outcome == "" {
		h.writeError(w, domain.NewValidationError("outcome is required"))
		return
	}

	err = h.feedback.SubmitFeedback(r.Context(), interviewerID, interviewID, domain.InterviewStatus(req.Outcome), req.TotalScore)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"message": "feedback recorded"})
}

func (h *Handlers) ListInterviewerBilling(w http.ResponseWriter, r *http.Request) {
	interviewerID, err := actorID(r, headerInterviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	records, err := h.billing.ListInterviewerRecords(r.Context(), interviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, records)
}

func (h *Handlers) ListClientBilling(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	records, err := h.billing.ListClientRecords(r.Context(), orgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, records)
}
