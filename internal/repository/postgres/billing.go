package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type billingRepository struct {
	db DBTX
}

func NewBillingRepository(db DBTX) repository.BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) GetLog(ctx context.Context, interviewID int32, reason domain.BillingReason) (*domain.BillingLog, error) {
	query := `SELECT id, interview_id, client_id, interviewer_id, reason, billing_month,
	          amount_for_client, amount_for_interviewer, is_billing_calculated, status, created_at
	          FROM billing_logs WHERE interview_id = $1 AND reason = $2`
	var log domain.BillingLog
	err := r.db.QueryRowContext(ctx, query, interviewID, reason).Scan(
		&log.ID, &log.InterviewID, &log.ClientID, &log.InterviewerID, &log.Reason,
		&log.BillingMonth, &log.AmountForClient, &log.AmountForInterviewer,
		&log.IsBillingCalculated, &log.Status, &log.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *billingRepository) CreateLog(ctx context.Context, log *domain.BillingLog) error {
	query := `INSERT INTO billing_logs (interview_id, client_id, interviewer_id, reason, billing_month,
	          amount_for_client, amount_for_interviewer, is_billing_calculated, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING id, created_at`
	if log.Status == "" {
		log.Status = domain.BillingStatusPending
	}
	return r.db.QueryRowContext(ctx, query,
		log.InterviewID, log.ClientID, log.InterviewerID, log.Reason, log.BillingMonth,
		log.AmountForClient, log.AmountForInterviewer, log.IsBillingCalculated, log.Status,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *billingRepository) MarkLogCalculated(ctx context.Context, logID int32) error {
	query := `UPDATE billing_logs SET is_billing_calculated = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, logID)
	return err
}

func (r *billingRepository) UpsertClientRecord(ctx context.Context, clientID int32, month string, amount int64, dueDate time.Time) error {
	return r.upsertRecord(ctx, domain.RecordTypeClientBilling, "client_id", clientID, month, amount, dueDate)
}

func (r *billingRepository) UpsertInterviewerRecord(ctx context.Context, interviewerID int32, month string, amount int64, dueDate time.Time) error {
	return r.upsertRecord(ctx, domain.RecordTypeInterviewerPayment, "interviewer_id", interviewerID, month, amount, dueDate)
}

func (r *billingRepository) upsertRecord(ctx context.Context, recordType domain.BillingRecordType, column string, partyID int32, month string, amount int64, dueDate time.Time) error {
	// Relies on the partial unique index per (party, billing_month,
	// record_type); ON CONFLICT accumulates the amount.
	query := `INSERT INTO billing_records (public_id, billing_month, record_type, status, amount_due, due_date, ` + column + `, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	          ON CONFLICT (` + column + `, billing_month, record_type)
	          DO UPDATE SET amount_due = billing_records.amount_due + EXCLUDED.amount_due, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), month, recordType, domain.BillingStatusPending, amount, dueDate, partyID)
	return err
}

func (r *billingRepository) ListRecordsByClient(ctx context.Context, clientID int32) ([]domain.BillingRecord, error) {
	query := recordSelect + ` WHERE client_id = $1 ORDER BY billing_month DESC`
	return r.listRecords(ctx, query, clientID)
}

func (r *billingRepository) ListRecordsByInterviewer(ctx context.Context, interviewerID int32) ([]domain.BillingRecord, error) {
	query := recordSelect + ` WHERE interviewer_id = $1 ORDER BY billing_month DESC`
	return r.listRecords(ctx, query, interviewerID)
}

const recordSelect = `SELECT id, public_id, billing_month, record_type, status, amount_due,
	due_date, client_id, interviewer_id, created_at, updated_at FROM billing_records`

func (r *billingRepository) listRecords(ctx context.Context, query string, args ...any) ([]domain.BillingRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.BillingRecord
	for rows.Next() {
		var rec domain.BillingRecord
		var clientID, interviewerID sql.NullInt32
		err := rows.Scan(&rec.ID, &rec.PublicID, &rec.BillingMonth, &rec.RecordType, &rec.Status,
			&rec.AmountDue, &rec.DueDate, &clientID, &interviewerID, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if clientID.Valid {
			rec.ClientID = &clientID.Int32
		}
		if interviewerID.Valid {
			rec.InterviewerID = &interviewerID.Int32
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *billingRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE billing_records SET status = $1, updated_at = NOW()
	          WHERE status = $2 AND due_date < $3`
	res, err := r.db.ExecContext(ctx, query, domain.BillingStatusOverdue, domain.BillingStatusPending, asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
