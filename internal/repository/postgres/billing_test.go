package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"interviewdesk-backend/internal/domain"
)

func TestBillingRepository_GetLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBillingRepository(db)
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM billing_logs").
			WithArgs(int32(55), domain.BillingReasonLateRescheduled).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetLog(ctx, 55, domain.BillingReasonLateRescheduled)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "interview_id", "client_id", "interviewer_id", "reason", "billing_month",
			"amount_for_client", "amount_for_interviewer", "is_billing_calculated", "status", "created_at",
		}).AddRow(9, 55, 3, 12, domain.BillingReasonFeedbackSubmitted, "2026-03", 3000, 1800, true, domain.BillingStatusPending, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM billing_logs").
			WithArgs(int32(55), domain.BillingReasonFeedbackSubmitted).
			WillReturnRows(rows)

		log, err := repo.GetLog(ctx, 55, domain.BillingReasonFeedbackSubmitted)
		assert.NoError(t, err)
		assert.True(t, log.IsBillingCalculated)
		assert.Equal(t, int64(3000), log.AmountForClient)
	})
}

func TestBillingRepository_CreateLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBillingRepository(db)
	ctx := context.Background()

	t.Run("DefaultsStatusToPending", func(t *testing.T) {
		log := &domain.BillingLog{
			InterviewID:          55,
			ClientID:             3,
			InterviewerID:        12,
			Reason:               domain.BillingReasonLateRescheduled,
			BillingMonth:         "2026-03",
			AmountForClient:      1000,
			AmountForInterviewer: 500,
		}

		mock.ExpectQuery("INSERT INTO billing_logs").
			WithArgs(log.InterviewID, log.ClientID, log.InterviewerID, log.Reason, log.BillingMonth,
				log.AmountForClient, log.AmountForInterviewer, log.IsBillingCalculated, domain.BillingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

		err := repo.CreateLog(ctx, log)
		assert.NoError(t, err)
		assert.Equal(t, int32(9), log.ID)
		assert.Equal(t, domain.BillingStatusPending, log.Status)
	})
}

func TestBillingRepository_UpsertClientRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBillingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		dueDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec("INSERT INTO billing_records").
			WithArgs(sqlmock.AnyArg(), "2026-03", domain.RecordTypeClientBilling,
				domain.BillingStatusPending, int64(1000), dueDate, int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpsertClientRecord(ctx, 3, "2026-03", 1000, dueDate)
		assert.NoError(t, err)
	})
}

func TestBillingRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBillingRepository(db)
	ctx := context.Background()

	t.Run("ReturnsAffectedCount", func(t *testing.T) {
		asOf := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec("UPDATE billing_records SET status").
			WithArgs(domain.BillingStatusOverdue, domain.BillingStatusPending, asOf).
			WillReturnResult(sqlmock.NewResult(0, 3))

		count, err := repo.MarkOverdue(ctx, asOf)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
