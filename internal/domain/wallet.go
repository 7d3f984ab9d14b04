package domain

import "time"

type TransactionType string

const (
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeUsage    TransactionType = "usage"
	TransactionTypeRefund   TransactionType = "refund"
	TransactionTypeManual   TransactionType = "manual"
)

type TransactionStatus string

const (
	TransactionStatusSuccess    TransactionStatus = "SUC"
	TransactionStatusFailed     TransactionStatus = "FLD"
	TransactionStatusProcessing TransactionStatus = "PRC"
)

// Wallet holds an organization's prepaid credit balance. The counters are
// monotonic; total_credits must always equal total_added + total_refunded -
// total_spend.
type Wallet struct {
	ID              int32     `json:"id"`
	OrganizationID  int32     `json:"organization_id"`
	TotalCredits    int32     `json:"total_credits"`
	TotalAdded      int32     `json:"total_added"`
	TotalSpend      int32     `json:"total_spend"`
	TotalRefunded   int32     `json:"total_refunded"`
	CreditExpiredAt time.Time `json:"credit_expired_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreditTransaction is an append-only ledger entry. Rows are never mutated
// or deleted; they are the audit trail that reconciles the wallet counters.
type CreditTransaction struct {
	ID          int32             `json:"id"`
	WalletID    int32             `json:"wallet_id"`
	Amount      int64             `json:"amount"` // monetary amount in the wallet's currency units
	Credits     int32             `json:"credits"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	Reference   string            `json:"reference,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
