package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"interviewdesk-backend/internal/domain"
)

func newFeedbackFixture() (*feedbackService, *mockStore, *MockEmailService) {
	store := newMockStore()
	emails := new(MockEmailService)
	svc := NewFeedbackService(store, emails, testConfig()).(*feedbackService)
	svc.now = fixedTime
	return svc, store, emails
}

func confirmedInterview() *domain.Interview {
	return &domain.Interview{
		ID:            501,
		CandidateID:   7,
		InterviewerID: 12,
		Status:        domain.StatusConfirmed,
		ScheduledTime: time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC),
	}
}

func TestSubmitFeedbackRecommendationBills(t *testing.T) {
	svc, store, emails := newFeedbackFixture()

	interview := confirmedInterview()
	candidate := testCandidate(domain.StatusConfirmed)

	store.interviews.On("GetByID", mock.Anything, interview.ID).Return(interview, nil)
	store.candidates.On("GetByIDForUpdate", mock.Anything, candidate.ID).Return(candidate, nil)
	store.interviews.On("Update", mock.Anything, interview).Return(nil)
	store.candidates.On("Update", mock.Anything, candidate).Return(nil)
	store.billing.On("GetLog", mock.Anything, interview.ID, domain.BillingReasonFeedbackSubmitted).
		Return(nil, domain.ErrNotFound)
	store.billing.On("CreateLog", mock.Anything, mock.AnythingOfType("*domain.BillingLog")).
		Run(func(args mock.Arguments) {
			log := args.Get(1).(*domain.BillingLog)
			log.ID = 9
			// 5y2m candidate: 4-7 payout band
			assert.Equal(t, int64(3000), log.AmountForClient)
			assert.Equal(t, int64(1800), log.AmountForInterviewer)
		}).Return(nil)
	store.billing.On("UpsertClientRecord", mock.Anything, int32(3), "2026-03", int64(3000), mock.Anything).Return(nil)
	store.billing.On("UpsertInterviewerRecord", mock.Anything, int32(12), "2026-03", int64(1800), mock.Anything).Return(nil)
	store.billing.On("MarkLogCalculated", mock.Anything, int32(9)).Return(nil)
	emails.On("SendFeedbackReceived", mock.Anything, candidate.RecruiterEmail, candidate.Name, "REC").Return(nil)

	err := svc.SubmitFeedback(context.Background(), 12, interview.ID, domain.StatusRecommended, 78)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRecommended, interview.Status)
	assert.True(t, interview.FeedbackSubmitted)
	assert.Equal(t, int32(78), interview.TotalScore)
	assert.Equal(t, domain.StatusRecommended, candidate.Status)
	assert.Nil(t, candidate.ScheduledTime)
	store.billing.AssertExpectations(t)
}

func TestSubmitFeedbackNoShowSkipsBilling(t *testing.T) {
	svc, store, emails := newFeedbackFixture()

	interview := confirmedInterview()
	candidate := testCandidate(domain.StatusConfirmed)

	store.interviews.On("GetByID", mock.Anything, interview.ID).Return(interview, nil)
	store.candidates.On("GetByIDForUpdate", mock.Anything, candidate.ID).Return(candidate, nil)
	store.interviews.On("Update", mock.Anything, interview).Return(nil)
	store.candidates.On("Update", mock.Anything, candidate).Return(nil)
	emails.On("SendFeedbackReceived", mock.Anything, candidate.RecruiterEmail, candidate.Name, "NJ").Return(nil)

	err := svc.SubmitFeedback(context.Background(), 12, interview.ID, domain.StatusNoShow, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoShow, candidate.Status)
	store.billing.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}

func TestSubmitFeedbackWrongInterviewer(t *testing.T) {
	svc, store, _ := newFeedbackFixture()

	interview := confirmedInterview()
	store.interviews.On("GetByID", mock.Anything, interview.ID).Return(interview, nil)

	err := svc.SubmitFeedback(context.Background(), 999, interview.ID, domain.StatusRecommended, 50)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitFeedbackTwiceRejected(t *testing.T) {
	svc, store, _ := newFeedbackFixture()

	interview := confirmedInterview()
	interview.FeedbackSubmitted = true
	store.interviews.On("GetByID", mock.Anything, interview.ID).Return(interview, nil)

	err := svc.SubmitFeedback(context.Background(), 12, interview.ID, domain.StatusRecommended, 50)
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestSubmitFeedbackInvalidOutcome(t *testing.T) {
	svc, _, _ := newFeedbackFixture()

	err := svc.SubmitFeedback(context.Background(), 12, 501, domain.StatusScheduling, 50)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRecordBillingEventIdempotent(t *testing.T) {
	store := newMockStore()
	interview := confirmedInterview()

	store.billing.On("GetLog", mock.Anything, interview.ID, domain.BillingReasonFeedbackSubmitted).
		Return(&domain.BillingLog{ID: 9, IsBillingCalculated: true}, nil)

	err := recordBillingEvent(context.Background(), store, testConfig().Billing, interview, 3,
		domain.BillingReasonFeedbackSubmitted, 3000, 1800, fixedTime())
	require.NoError(t, err)
	store.billing.AssertNotCalled(t, "UpsertClientRecord",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingDueDate(t *testing.T) {
	march := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	due := billingDueDate(march, 10)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), due)

	// February of a non-leap year
	feb := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), billingDueDate(feb, 10))
}
