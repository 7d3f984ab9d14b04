package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/service"
)

// Handlers bundles the HTTP surface. Authentication is handled upstream by
// the gateway; handlers trust the actor headers it injects.
type Handlers struct {
	availability service.AvailabilityService
	scheduling   service.SchedulingService
	credits      service.CreditService
	feedback     service.FeedbackService
	billing      service.BillingService
	debug        bool
}

func NewHandlers(
	availability service.AvailabilityService,
	scheduling service.SchedulingService,
	credits service.CreditService,
	feedback service.FeedbackService,
	billing service.BillingService,
	debug bool,
) *Handlers {
	return &Handlers{
		availability: availability,
		scheduling:   scheduling,
		credits:      credits,
		feedback:     feedback,
		billing:      billing,
		debug:        debug,
	}
}

// RegisterRoutes attaches all endpoints to the router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	// interviewer surface
	router.HandleFunc("/api/availability", h.PublishAvailability).Methods("POST")
	router.HandleFunc("/api/availability", h.ListAvailability).Methods("GET")
	router.HandleFunc("/api/interviewer/interviews", h.ListInterviewerSchedule).Methods("GET")
	router.HandleFunc("/api/interviews/{id}/feedback", h.SubmitFeedback).Methods("POST")
	router.HandleFunc("/api/interviewer/billing", h.ListInterviewerBilling).Methods("GET")

	// offer links (no auth: possession of the token is the credential)
	router.HandleFunc("/confirmation/{token}", h.RespondToOffer).Methods("GET", "POST")

	// client surface
	router.HandleFunc("/api/scheduling/slots", h.SearchSlots).Methods("GET")
	router.HandleFunc("/api/scheduling/request", h.InitiateScheduling).Methods("POST")
	router.HandleFunc("/api/scheduling/cancel", h.CancelInterview).Methods("POST")
	router.HandleFunc("/api/candidates/{id}/scheduling-link", h.GenerateCandidateLink).Methods("POST")
	router.HandleFunc("/api/wallet", h.GetWallet).Methods("GET")
	router.HandleFunc("/api/wallet/credits", h.AddCredits).Methods("POST")
	router.HandleFunc("/api/wallet/transactions", h.ListTransactions).Methods("GET")
	router.HandleFunc("/api/billing/records", h.ListClientBilling).Methods("GET")

	// candidate self-scheduling (token links)
	router.HandleFunc("/schedule/{token}/slots", h.CandidateSearchSlots).Methods("GET")
	router.HandleFunc("/schedule/{token}/request", h.CandidateInitiateScheduling).Methods("POST")

	router.HandleFunc("/health", h.Health).Methods("GET")
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actorID reads a positive int32 actor id from a request header.
func actorID(r *http.Request, header string) (int32, error) {
	raw := r.Header.Get(header)
	if raw == "" {
		return 0, domain.NewValidationError("missing %s header", header)
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s header", header)
	}
	return int32(id), nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s in path", name)
	}
	return int32(id), nil
}
