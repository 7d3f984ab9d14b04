package service

import (
	"context"
	"time"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

// TimeWindow is one contiguous availability range submitted by an
// interviewer.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// OfferOutcome is what an interviewer sees after following an offer link.
type OfferOutcome struct {
	Accepted      bool
	Interview     *domain.Interview
	MeetingLink   string
	ScheduledTime time.Time
}

// WalletSummary combines the wallet counters with the conversion policy
// applied to the owning organization.
type WalletSummary struct {
	Wallet   domain.Wallet
	Currency string
	Rate     int64
}

type AvailabilityService interface {
	PublishAvailability(ctx context.Context, interviewerID int32, date time.Time, windows []TimeWindow) ([]domain.AvailabilitySlot, error)
	SearchSlots(ctx context.Context, orgID, candidateID int32, date time.Time) ([]repository.AvailableSlot, error)
	ListForInterviewer(ctx context.Context, interviewerID int32) ([]domain.AvailabilitySlot, error)
}

type SchedulingService interface {
	// InitiateScheduling starts (or restarts) a scheduling cycle for the
	// candidate, deducting credits when the cycle begins a new round, and
	// broadcasts offer links for the chosen slots.
	InitiateScheduling(ctx context.Context, orgID, candidateID int32, slotIDs []int32) error
	// RespondToOffer redeems an accept/reject link.
	RespondToOffer(ctx context.Context, token string) (*OfferOutcome, error)
	// CancelInterview cancels the candidate's confirmed interview, refunds
	// the round's credits and applies the late penalty when inside the
	// cancellation window.
	CancelInterview(ctx context.Context, orgID, candidateID int32) error
	// GenerateCandidateLink mints a self-scheduling link for the candidate.
	GenerateCandidateLink(ctx context.Context, orgID, candidateID int32) (string, error)
	// ResolveCandidateLink validates a self-scheduling link and returns the
	// candidate it belongs to.
	ResolveCandidateLink(ctx context.Context, token string) (*domain.Candidate, error)
	// ListInterviewerSchedule returns the interviewer's interviews from the
	// given time onward; a zero time returns the full history.
	ListInterviewerSchedule(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error)
}

type CreditService interface {
	// AddCredits purchases credits for the organization at its configured
	// conversion rate.
	AddCredits(ctx context.Context, orgID int32, credits int32, reference string) (*domain.CreditTransaction, error)
	GetWallet(ctx context.Context, orgID int32) (*WalletSummary, error)
	ListTransactions(ctx context.Context, orgID int32, page, pageSize int32) ([]domain.CreditTransaction, int32, error)
	// RequiredCredits returns the cost of scheduling the candidate.
	RequiredCredits(ctx context.Context, candidateID int32) (int32, error)
}

type FeedbackService interface {
	// SubmitFeedback records the interviewer's outcome for a confirmed
	// interview. Recommendation outcomes trigger client billing and the
	// interviewer payout; a no-show does not.
	SubmitFeedback(ctx context.Context, interviewerID, interviewID int32, outcome domain.InterviewStatus, totalScore int32) error
}

type BillingService interface {
	ListClientRecords(ctx context.Context, clientID int32) ([]domain.BillingRecord, error)
	ListInterviewerRecords(ctx context.Context, interviewerID int32) ([]domain.BillingRecord, error)
}

type EmailService interface {
	SendOfferNotification(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, acceptURL, rejectURL string) error
	SendBookingConfirmation(ctx context.Context, candidateEmail, candidateName, interviewerName, meetingLink string, scheduleTime time.Time, ccEmails []string) error
	SendBookingCancellation(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, ccEmails []string) error
	SendCandidateSchedulingLink(ctx context.Context, candidateEmail, candidateName, schedulingURL string) error
	SendFeedbackReceived(ctx context.Context, recruiterEmail, candidateName string, outcome string) error
}
