package service

import (
	"context"
	"errors"
	"time"

	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/repository"
)

const billingMonthLayout = "2006-01"

type billingService struct {
	store repository.Store
}

func NewBillingService(store repository.Store) BillingService {
	return &billingService{store: store}
}

func (s *billingService) ListClientRecords(ctx context.Context, clientID int32) ([]domain.BillingRecord, error) {
	return s.store.Billing().ListRecordsByClient(ctx, clientID)
}

func (s *billingService) ListInterviewerRecords(ctx context.Context, interviewerID int32) ([]domain.BillingRecord, error) {
	return s.store.Billing().ListRecordsByInterviewer(ctx, interviewerID)
}

// billingDueDate is the last day of the billing month plus the configured
// grace offset.
func billingDueDate(month time.Time, offsetDays int) time.Time {
	firstOfNext := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	lastOfMonth := firstOfNext.AddDate(0, 0, -1)
	return lastOfMonth.AddDate(0, 0, offsetDays)
}

// recordBillingEvent applies a billable event to the monthly records inside
// the caller's transaction. The (interview, reason) log row makes the event
// idempotent: a replay finds the calculated log and leaves the records
// untouched.
func recordBillingEvent(ctx context.Context, txStore repository.Store, billing config.BillingConfig, interview *domain.Interview, clientID int32, reason domain.BillingReason, clientAmount, interviewerAmount int64, now time.Time) error {
	log, err := txStore.Billing().GetLog(ctx, interview.ID, reason)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if log != nil && log.IsBillingCalculated {
		logger.Debug("billing event already calculated", "interview_id", interview.ID, "reason", reason)
		return nil
	}

	month := now.UTC().Format(billingMonthLayout)
	if log == nil {
		log = &domain.BillingLog{
			InterviewID:          interview.ID,
			ClientID:             clientID,
			InterviewerID:        interview.InterviewerID,
			Reason:               reason,
			BillingMonth:         month,
			AmountForClient:      clientAmount,
			AmountForInterviewer: interviewerAmount,
		}
		if err := txStore.Billing().CreateLog(ctx, log); err != nil {
			return err
		}
	}

	dueDate := billingDueDate(now.UTC(), billing.DueDateOffsetDays)
	if log.AmountForClient > 0 {
		if err := txStore.Billing().UpsertClientRecord(ctx, clientID, log.BillingMonth, log.AmountForClient, dueDate); err != nil {
			return err
		}
	}
	if log.AmountForInterviewer > 0 {
		if err := txStore.Billing().UpsertInterviewerRecord(ctx, interview.InterviewerID, log.BillingMonth, log.AmountForInterviewer, dueDate); err != nil {
			return err
		}
	}

	return txStore.Billing().MarkLogCalculated(ctx, log.ID)
}
