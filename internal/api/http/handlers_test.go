package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/service"
)

type MockSchedulingService struct {
	mock.Mock
}

func (m *MockSchedulingService) InitiateScheduling(ctx context.Context, orgID, candidateID int32, slotIDs []int32) error {
	args := m.Called(ctx, orgID, candidateID, slotIDs)
	return args.Error(0)
}

func (m *MockSchedulingService) RespondToOffer(ctx context.Context, token string) (*service.OfferOutcome, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OfferOutcome), args.Error(1)
}

func (m *MockSchedulingService) CancelInterview(ctx context.Context, orgID, candidateID int32) error {
	args := m.Called(ctx, orgID, candidateID)
	return args.Error(0)
}

func (m *MockSchedulingService) GenerateCandidateLink(ctx context.Context, orgID, candidateID int32) (string, error) {
	args := m.Called(ctx, orgID, candidateID)
	return args.String(0), args.Error(1)
}

func (m *MockSchedulingService) ResolveCandidateLink(ctx context.Context, token string) (*domain.Candidate, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockSchedulingService) ListInterviewerSchedule(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error) {
	args := m.Called(ctx, interviewerID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Interview), args.Error(1)
}

type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) SubmitFeedback(ctx context.Context, interviewerID, interviewID int32, outcome domain.InterviewStatus, totalScore int32) error {
	args := m.Called(ctx, interviewerID, interviewID, outcome, totalScore)
	return args.Error(0)
}

func newTestRouter(scheduling *MockSchedulingService, feedback *MockFeedbackService, debug bool) *mux.Router {
	h := NewHandlers(nil, scheduling, nil, feedback, nil, debug)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return body
}

func TestRespondToOffer(t *testing.T) {
	t.Run("AcceptedReturnsMeetingLink", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduledTime := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
		scheduling.On("RespondToOffer", mock.Anything, "tok123").Return(&service.OfferOutcome{
			Accepted:      true,
			MeetingLink:   "https://meet.example.com/abc",
			ScheduledTime: scheduledTime,
		}, nil)

		req := httptest.NewRequest("GET", "/confirmation/tok123", nil)
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "success", body["status"])
		data := body["data"].(map[string]any)
		assert.Equal(t, true, data["accepted"])
		assert.Equal(t, "https://meet.example.com/abc", data["meeting_link"])
	})

	t.Run("MalformedTokenIsBadRequest", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("RespondToOffer", mock.Anything, "garbage").Return(nil, domain.ErrMalformedToken)

		req := httptest.NewRequest("GET", "/confirmation/garbage", nil)
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.Equal(t, "failed", body["status"])
		assert.Empty(t, body["error"], "raw error text must stay hidden outside debug mode")
	})

	t.Run("SlotConflictIsConflict", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("RespondToOffer", mock.Anything, "tok123").Return(nil, domain.ErrSlotConflict)

		req := httptest.NewRequest("GET", "/confirmation/tok123", nil)
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("DebugModeExposesErrorText", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("RespondToOffer", mock.Anything, "tok123").Return(nil, domain.ErrExpiredRequest)

		req := httptest.NewRequest("GET", "/confirmation/tok123", nil)
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, true).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGone, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.NotEmpty(t, body["error"])
	})
}

func TestInitiateScheduling(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("InitiateScheduling", mock.Anything, int32(3), int32(7), []int32{41, 42}).Return(nil)

		req := httptest.NewRequest("POST", "/api/scheduling/request",
			strings.NewReader(`{"candidate_id":7,"slot_ids":[41,42]}`))
		req.Header.Set("X-Org-ID", "3")
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		scheduling.AssertExpectations(t)
	})

	t.Run("MissingOrgHeader", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/scheduling/request",
			strings.NewReader(`{"candidate_id":7,"slot_ids":[41]}`))
		rec := httptest.NewRecorder()
		newTestRouter(new(MockSchedulingService), nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InsufficientCreditIsPaymentRequired", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("InitiateScheduling", mock.Anything, int32(3), int32(7), []int32{41}).
			Return(domain.ErrInsufficientCredit)

		req := httptest.NewRequest("POST", "/api/scheduling/request",
			strings.NewReader(`{"candidate_id":7,"slot_ids":[41]}`))
		req.Header.Set("X-Org-ID", "3")
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		feedback := new(MockFeedbackService)
		feedback.On("SubmitFeedback", mock.Anything, int32(12), int32(55), domain.StatusRecommended, int32(85)).Return(nil)

		req := httptest.NewRequest("POST", "/api/interviews/55/feedback",
			strings.NewReader(`{"outcome":"REC","total_score":85}`))
		req.Header.Set("X-Interviewer-ID", "12")
		rec := httptest.NewRecorder()
		newTestRouter(new(MockSchedulingService), feedback, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		feedback.AssertExpectations(t)
	})

	t.Run("AlreadySubmittedIsConflict", func(t *testing.T) {
		feedback := new(MockFeedbackService)
		feedback.On("SubmitFeedback", mock.Anything, int32(12), int32(55), domain.StatusRecommended, int32(85)).
			Return(domain.ErrAlreadyResolved)

		req := httptest.NewRequest("POST", "/api/interviews/55/feedback",
			strings.NewReader(`{"outcome":"REC","total_score":85}`))
		req.Header.Set("X-Interviewer-ID", "12")
		rec := httptest.NewRecorder()
		newTestRouter(new(MockSchedulingService), feedback, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCandidateScheduleFlow(t *testing.T) {
	t.Run("TokenResolvesAndBroadcasts", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("ResolveCandidateLink", mock.Anything, "jwt-token").Return(&domain.Candidate{
			ID:             7,
			OrganizationID: 3,
		}, nil)
		scheduling.On("InitiateScheduling", mock.Anything, int32(3), int32(7), []int32{41}).Return(nil)

		req := httptest.NewRequest("POST", "/schedule/jwt-token/request",
			strings.NewReader(`{"slot_ids":[41]}`))
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		scheduling.AssertExpectations(t)
	})

	t.Run("ExpiredLinkIsGone", func(t *testing.T) {
		scheduling := new(MockSchedulingService)
		scheduling.On("ResolveCandidateLink", mock.Anything, "old-token").Return(nil, domain.ErrExpiredRequest)

		req := httptest.NewRequest("POST", "/schedule/old-token/request",
			strings.NewReader(`{"slot_ids":[41]}`))
		rec := httptest.NewRecorder()
		newTestRouter(scheduling, nil, false).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusGone, rec.Code)
	})
}
