package domain

import (
	"time"

	"github.com/google/uuid"
)

type BillingReason string

const (
	BillingReasonLateRescheduled   BillingReason = "late_rescheduled"
	BillingReasonFeedbackSubmitted BillingReason = "feedback_submitted"
)

type BillingRecordType string

const (
	RecordTypeClientBilling      BillingRecordType = "CLB"
	RecordTypeInterviewerPayment BillingRecordType = "INP"
)

type BillingStatus string

const (
	BillingStatusPending BillingStatus = "PED"
	BillingStatusPaid    BillingStatus = "PAI"
	BillingStatusOverdue BillingStatus = "OVD"
)

// BillingLog is the per-interview, per-reason idempotency record. Unique on
// (interview, reason): retried requests find the calculated log and skip the
// monthly record update.
type BillingLog struct {
	ID                   int32         `json:"id"`
	InterviewID          int32         `json:"interview_id"`
	ClientID             int32         `json:"client_id"`
	InterviewerID        int32         `json:"interviewer_id"`
	Reason               BillingReason `json:"reason"`
	BillingMonth         string        `json:"billing_month"` // format: '2006-01'
	AmountForClient      int64         `json:"amount_for_client"`
	AmountForInterviewer int64         `json:"amount_for_interviewer"`
	IsBillingCalculated  bool          `json:"is_billing_calculated"`
	Status               BillingStatus `json:"status"`
	CreatedAt            time.Time     `json:"created_at"`
}

// BillingRecord aggregates amounts due per (client, month) or
// (interviewer, month). AmountDue accumulates across events in the month.
type BillingRecord struct {
	ID            int32             `json:"id"`
	PublicID      uuid.UUID         `json:"public_id"`
	BillingMonth  string            `json:"billing_month"` // format: '2006-01'
	RecordType    BillingRecordType `json:"record_type"`
	Status        BillingStatus     `json:"status"`
	AmountDue     int64             `json:"amount_due"`
	DueDate       time.Time         `json:"due_date"`
	ClientID      *int32            `json:"client_id,omitempty"`
	InterviewerID *int32            `json:"interviewer_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
