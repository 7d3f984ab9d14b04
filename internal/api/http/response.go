package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type failureEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"` // raw error, debug builds only
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Status: "success", Data: data})
}

func writeFailed(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, failureEnvelope{Status: "failed", Message: message})
}

// writeError maps domain errors onto status codes and user-facing messages.
// The raw error text is only exposed when debug is on.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var verr *domain.ValidationError
	var xerr *domain.ExternalError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		message = verr.Message
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = "resource not found"
	case errors.Is(err, domain.ErrMalformedToken):
		status = http.StatusBadRequest
		message = "the link is malformed"
	case errors.Is(err, domain.ErrExpiredRequest):
		status = http.StatusGone
		message = "the link has expired"
	case errors.Is(err, domain.ErrStaleRequest):
		status = http.StatusConflict
		message = "this request was superseded by a newer scheduling round"
	case errors.Is(err, domain.ErrAlreadyResolved):
		status = http.StatusConflict
		message = "this interview has already been scheduled"
	case errors.Is(err, domain.ErrSlotConflict):
		status = http.StatusConflict
		message = "the slot is no longer available"
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
		message = "the operation is not allowed in the current state"
	case errors.Is(err, domain.ErrInsufficientCredit):
		status = http.StatusPaymentRequired
		message = "insufficient credits"
	case errors.As(err, &xerr):
		// provider detail stays server-side unless debug is on
		message = "an external provider failed, please retry"
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	envelope := failureEnvelope{Status: "failed", Message: message}
	if h.debug {
		envelope.Error = err.Error()
	}
	writeJSON(w, status, envelope)
}
