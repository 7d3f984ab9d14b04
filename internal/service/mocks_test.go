package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

// mockStore satisfies repository.Store over per-repo testify mocks. WithTx
// runs the callback against the same store, which matches the production
// contract closely enough for service-level tests.
type mockStore struct {
	organizations *MockOrganizationRepo
	candidates    *MockCandidateRepo
	interviewers  *MockInterviewerRepo
	availability  *MockAvailabilityRepo
	interviews    *MockInterviewRepo
	attempts      *MockAttemptRepo
	wallets       *MockWalletRepo
	billing       *MockBillingRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		organizations: new(MockOrganizationRepo),
		candidates:    new(MockCandidateRepo),
		interviewers:  new(MockInterviewerRepo),
		availability:  new(MockAvailabilityRepo),
		interviews:    new(MockInterviewRepo),
		attempts:      new(MockAttemptRepo),
		wallets:       new(MockWalletRepo),
		billing:       new(MockBillingRepo),
	}
}

func (s *mockStore) Organizations() repository.OrganizationRepository { return s.organizations }
func (s *mockStore) Candidates() repository.CandidateRepository       { return s.candidates }
func (s *mockStore) Interviewers() repository.InterviewerRepository   { return s.interviewers }
func (s *mockStore) Availability() repository.AvailabilityRepository  { return s.availability }
func (s *mockStore) Interviews() repository.InterviewRepository       { return s.interviews }
func (s *mockStore) Attempts() repository.AttemptRepository           { return s.attempts }
func (s *mockStore) Wallets() repository.WalletRepository             { return s.wallets }
func (s *mockStore) Billing() repository.BillingRepository            { return s.billing }

func (s *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// MockCandidateRepo
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}
func (m *MockCandidateRepo) GetByID(ctx context.Context, id int32) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) Update(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}
func (m *MockCandidateRepo) ListByOrg(ctx context.Context, orgID int32) ([]domain.Candidate, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

// MockInterviewerRepo
type MockInterviewerRepo struct {
	mock.Mock
}

func (m *MockInterviewerRepo) Create(ctx context.Context, interviewer *domain.Interviewer) error {
	args := m.Called(ctx, interviewer)
	return args.Error(0)
}
func (m *MockInterviewerRepo) GetByID(ctx context.Context, id int32) (*domain.Interviewer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interviewer), args.Error(1)
}
func (m *MockInterviewerRepo) ListByIDs(ctx context.Context, ids []int32) ([]domain.Interviewer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Interviewer), args.Error(1)
}

// MockAvailabilityRepo
type MockAvailabilityRepo struct {
	mock.Mock
}

func (m *MockAvailabilityRepo) Create(ctx context.Context, slot *domain.AvailabilitySlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) CreateBatch(ctx context.Context, slots []domain.AvailabilitySlot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) GetByID(ctx context.Context, id int32) (*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySlot), args.Error(1)
}
func (m *MockAvailabilityRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySlot), args.Error(1)
}
func (m *MockAvailabilityRepo) Update(ctx context.Context, slot *domain.AvailabilitySlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
func (m *MockAvailabilityRepo) Search(ctx context.Context, filters repository.SlotSearchFilters) ([]repository.AvailableSlot, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]repository.AvailableSlot), args.Error(1)
}
func (m *MockAvailabilityRepo) ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.AvailabilitySlot, error) {
	args := m.Called(ctx, interviewerID, from)
	return args.Get(0).([]domain.AvailabilitySlot), args.Error(1)
}
func (m *MockAvailabilityRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockInterviewRepo
type MockInterviewRepo struct {
	mock.Mock
}

func (m *MockInterviewRepo) Create(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}
func (m *MockInterviewRepo) GetByID(ctx context.Context, id int32) (*domain.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}
func (m *MockInterviewRepo) Update(ctx context.Context, interview *domain.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}
func (m *MockInterviewRepo) GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.Interview, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}
func (m *MockInterviewRepo) GetLatestByCandidateForUpdate(ctx context.Context, candidateID int32) (*domain.Interview, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interview), args.Error(1)
}
func (m *MockInterviewRepo) HasConflictingBooking(ctx context.Context, interviewerID int32, t time.Time, buffer time.Duration) (bool, error) {
	args := m.Called(ctx, interviewerID, t, buffer)
	return args.Bool(0), args.Error(1)
}
func (m *MockInterviewRepo) ListTerminalInterviewerIDs(ctx context.Context, candidateID int32) ([]int32, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockInterviewRepo) ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error) {
	args := m.Called(ctx, interviewerID, from)
	return args.Get(0).([]domain.Interview), args.Error(1)
}

// MockAttemptRepo
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(ctx context.Context, attempt *domain.ScheduleAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}
func (m *MockAttemptRepo) GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.ScheduleAttempt, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleAttempt), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepo) GetByOrg(ctx context.Context, orgID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetByOrgForUpdate(ctx context.Context, orgID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) UpdateCounters(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepo) CreateTransaction(ctx context.Context, tx *domain.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.CreditTransaction, int32, error) {
	args := m.Called(ctx, walletID, page, pageSize)
	return args.Get(0).([]domain.CreditTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockWalletRepo) ListExpired(ctx context.Context, before time.Time) ([]domain.Wallet, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

// MockBillingRepo
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) GetLog(ctx context.Context, interviewID int32, reason domain.BillingReason) (*domain.BillingLog, error) {
	args := m.Called(ctx, interviewID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingLog), args.Error(1)
}
func (m *MockBillingRepo) CreateLog(ctx context.Context, log *domain.BillingLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}
func (m *MockBillingRepo) MarkLogCalculated(ctx context.Context, logID int32) error {
	args := m.Called(ctx, logID)
	return args.Error(0)
}
func (m *MockBillingRepo) UpsertClientRecord(ctx context.Context, clientID int32, month string, amount int64, dueDate time.Time) error {
	args := m.Called(ctx, clientID, month, amount, dueDate)
	return args.Error(0)
}
func (m *MockBillingRepo) UpsertInterviewerRecord(ctx context.Context, interviewerID int32, month string, amount int64, dueDate time.Time) error {
	args := m.Called(ctx, interviewerID, month, amount, dueDate)
	return args.Error(0)
}
func (m *MockBillingRepo) ListRecordsByClient(ctx context.Context, clientID int32) ([]domain.BillingRecord, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}
func (m *MockBillingRepo) ListRecordsByInterviewer(ctx context.Context, interviewerID int32) ([]domain.BillingRecord, error) {
	args := m.Called(ctx, interviewerID)
	return args.Get(0).([]domain.BillingRecord), args.Error(1)
}
func (m *MockBillingRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOfferNotification(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, acceptURL, rejectURL string) error {
	args := m.Called(ctx, interviewerEmail, interviewerName, candidateName, scheduleTime, acceptURL, rejectURL)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, candidateEmail, candidateName, interviewerName, meetingLink string, scheduleTime time.Time, ccEmails []string) error {
	args := m.Called(ctx, candidateEmail, candidateName, interviewerName, meetingLink, scheduleTime, ccEmails)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellation(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, ccEmails []string) error {
	args := m.Called(ctx, interviewerEmail, interviewerName, candidateName, scheduleTime, ccEmails)
	return args.Error(0)
}
func (m *MockEmailService) SendCandidateSchedulingLink(ctx context.Context, candidateEmail, candidateName, schedulingURL string) error {
	args := m.Called(ctx, candidateEmail, candidateName, schedulingURL)
	return args.Error(0)
}
func (m *MockEmailService) SendFeedbackReceived(ctx context.Context, recruiterEmail, candidateName string, outcome string) error {
	args := m.Called(ctx, recruiterEmail, candidateName, outcome)
	return args.Error(0)
}
