package repository

import (
	"context"
	"time"

	"interviewdesk-backend/internal/domain"
)

// SlotSearchFilters narrows an availability search for a candidate. Skills
// must ALL be present on the interviewer; company exclusions are matched
// case-insensitively.
type SlotSearchFilters struct {
	Date                  time.Time
	SpecializationID      int32
	MinExperienceMonths   int32
	Levels                []int32
	Skills                []string
	ExcludeInterviewerIDs []int32
	ExcludeCompanies      []string
	StartTime             *time.Time
	EndTime               *time.Time
}

// AvailableSlot pairs a free slot with its interviewer, as returned by a
// search.
type AvailableSlot struct {
	Slot        domain.AvailabilitySlot
	Interviewer domain.Interviewer
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id int32) (*domain.Candidate, error)
	// GetByIDForUpdate takes a row lock; only meaningful inside WithTx.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Candidate, error)
	Update(ctx context.Context, candidate *domain.Candidate) error
	ListByOrg(ctx context.Context, orgID int32) ([]domain.Candidate, error)
}

type InterviewerRepository interface {
	Create(ctx context.Context, interviewer *domain.Interviewer) error
	GetByID(ctx context.Context, id int32) (*domain.Interviewer, error)
	ListByIDs(ctx context.Context, ids []int32) ([]domain.Interviewer, error)
}

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) error
	CreateBatch(ctx context.Context, slots []domain.AvailabilitySlot) error
	GetByID(ctx context.Context, id int32) (*domain.AvailabilitySlot, error)
	// GetByIDForUpdate takes a row lock; only meaningful inside WithTx.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.AvailabilitySlot, error)
	Update(ctx context.Context, slot *domain.AvailabilitySlot) error
	Search(ctx context.Context, filters SlotSearchFilters) ([]AvailableSlot, error)
	ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.AvailabilitySlot, error)
	// DeleteExpired removes unbooked slots dated before the cutoff and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *domain.Interview) error
	GetByID(ctx context.Context, id int32) (*domain.Interview, error)
	Update(ctx context.Context, interview *domain.Interview) error
	GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.Interview, error)
	GetLatestByCandidateForUpdate(ctx context.Context, candidateID int32) (*domain.Interview, error)
	// HasConflictingBooking reports whether the interviewer already has a
	// confirmed interview scheduled within the inclusive window
	// [t - buffer, t + buffer].
	HasConflictingBooking(ctx context.Context, interviewerID int32, t time.Time, buffer time.Duration) (bool, error)
	// ListTerminalInterviewerIDs returns interviewers who already produced a
	// recommendation outcome for the candidate.
	ListTerminalInterviewerIDs(ctx context.Context, candidateID int32) ([]int32, error)
	ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.ScheduleAttempt) error
	GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.ScheduleAttempt, error)
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByOrg(ctx context.Context, orgID int32) (*domain.Wallet, error)
	// GetByOrgForUpdate takes a row lock; only meaningful inside WithTx.
	GetByOrgForUpdate(ctx context.Context, orgID int32) (*domain.Wallet, error)
	UpdateCounters(ctx context.Context, wallet *domain.Wallet) error
	CreateTransaction(ctx context.Context, tx *domain.CreditTransaction) error
	ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.CreditTransaction, int32, error)
	// ListExpired returns wallets whose credits lapsed before the cutoff and
	// still hold a positive balance.
	ListExpired(ctx context.Context, before time.Time) ([]domain.Wallet, error)
}

type BillingRepository interface {
	// GetLog returns the idempotency record for (interview, reason), or
	// domain.ErrNotFound.
	GetLog(ctx context.Context, interviewID int32, reason domain.BillingReason) (*domain.BillingLog, error)
	CreateLog(ctx context.Context, log *domain.BillingLog) error
	MarkLogCalculated(ctx context.Context, logID int32) error
	// UpsertClientRecord adds amount to the client's monthly record,
	// creating it with the given due date when absent.
	UpsertClientRecord(ctx context.Context, clientID int32, month string, amount int64, dueDate time.Time) error
	UpsertInterviewerRecord(ctx context.Context, interviewerID int32, month string, amount int64, dueDate time.Time) error
	ListRecordsByClient(ctx context.Context, clientID int32) ([]domain.BillingRecord, error)
	ListRecordsByInterviewer(ctx context.Context, interviewerID int32) ([]domain.BillingRecord, error)
	// MarkOverdue flips pending records past their due date and returns how
	// many were flipped.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// Store bundles the repositories over one database handle. WithTx runs fn
// against a store bound to a single transaction; every booking and ledger
// decision happens inside one so that row locks serialize racing requests.
type Store interface {
	Organizations() OrganizationRepository
	Candidates() CandidateRepository
	Interviewers() InterviewerRepository
	Availability() AvailabilityRepository
	Interviews() InterviewRepository
	Attempts() AttemptRepository
	Wallets() WalletRepository
	Billing() BillingRepository

	WithTx(ctx context.Context, fn func(Store) error) error
}
