package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
	"interviewdesk-backend/internal/service"
)

const (
	headerOrgID         = "X-Org-ID"
	headerInterviewerID = "X-Interviewer-ID"
)

type publishAvailabilityRequest struct {
	Date    string `json:"date"` // 2006-01-02
	Windows []struct {
		StartTime string `json:"start_time"` // 15:04
		EndTime   string `json:"end_time"`
	} `json:"windows"`
}

type slotResponse struct {
	ID            int32  `json:"id"`
	InterviewerID int32  `json:"interviewer_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type availableSlotResponse struct {
	slotResponse
	InterviewerName  string `json:"interviewer_name"`
	InterviewerLevel int32  `json:"interviewer_level"`
}

func toSlotResponse(s domain.AvailabilitySlot) slotResponse {
	return slotResponse{
		ID:            s.ID,
		InterviewerID: s.InterviewerID,
		Date:          s.Date.Format("2006-01-02"),
		StartTime:     s.StartTime.Format("15:04"),
		EndTime:       s.EndTime.Format("15:04"),
	}
}

func (h *Handlers) PublishAvailability(w http.ResponseWriter, r *http.Request) {
	interviewerID, err := actorID(r, headerInterviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req publishAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		h.writeError(w, domain.NewValidationError("date must be formatted as 2006-01-02"))
		return
	}

	windows := make([]service.TimeWindow, 0, len(req.Windows))
	for _, win := range req.Windows {
		start, err := parseTimeOfDay(date, win.StartTime)
		if err != nil {
			h.writeError(w, err)
			return
		}
		end, err := parseTimeOfDay(date, win.EndTime)
		if err != nil {
			h.writeError(w, err)
			return
		}
		windows = append(windows, service.TimeWindow{Start: start, End: end})
	}

	slots, err := h.availability.PublishAvailability(r.Context(), interviewerID, date, windows)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	writeSuccess(w, http.StatusCreated, out)
}

func (h *Handlers) ListAvailability(w http.ResponseWriter, r *http.Request) {
	interviewerID, err := actorID(r, headerInterviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	slots, err := h.availability.ListForInterviewer(r.Context(), interviewerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handlers) SearchSlots(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.searchSlots(w, r, orgID)
}

func (h *Handlers) searchSlots(w http.ResponseWriter, r *http.Request, orgID int32) {
	candidateID, err := queryID(r, "candidate_id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		h.writeError(w, domain.NewValidationError("date must be formatted as 2006-01-02"))
		return
	}

	results, err := h.availability.SearchSlots(r.Context(), orgID, candidateID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toAvailableSlotResponses(results))
}

func toAvailableSlotResponses(results []repository.AvailableSlot) []availableSlotResponse {
	out := make([]availableSlotResponse, 0, len(results))
	for _, res := range results {
		out = append(out, availableSlotResponse{
			slotResponse:     toSlotResponse(res.Slot),
			InterviewerName:  res.Interviewer.Name,
			InterviewerLevel: res.Interviewer.Level,
		})
	}
	return out
}

func parseTimeOfDay(date time.Time, value string) (time.Time, error) {
	tod, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("time %q must be formatted as 15:04", value)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), nil
}

func queryID(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.NewValidationError("missing %s query parameter", name)
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s query parameter", name)
	}
	return int32(id), nil
}
