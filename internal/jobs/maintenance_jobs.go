package jobs

import (
	"context"
	"fmt"
	"time"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/repository"
)

// ExpireAvailability removes unbooked availability slots whose date has
// passed. Booked slots are kept; they anchor interview history.
func (jr *JobRunner) ExpireAvailability() {
	jr.runWithRecovery("ExpireAvailability", func() {
		ctx := context.Background()

		today := time.Now().UTC().Truncate(24 * time.Hour)
		count, err := jr.store.Availability().DeleteExpired(ctx, today)
		if err != nil {
			logger.Error("Failed to delete expired availability", "error", err)
			return
		}
		logger.Info("Expired availability slots removed", "count", count)
	})
}

// ExpireWalletCredits lapses remaining credits on wallets past their
// expiry date. The lapse is recorded as a usage transaction so the counter
// invariant holds and the audit trail shows where the credits went.
func (jr *JobRunner) ExpireWalletCredits() {
	jr.runWithRecovery("ExpireWalletCredits", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		wallets, err := jr.store.Wallets().ListExpired(ctx, now)
		if err != nil {
			logger.Error("Failed to list expired wallets", "error", err)
			return
		}

		for _, w := range wallets {
			wallet := w
			err := jr.store.WithTx(ctx, func(txStore repository.Store) error {
				locked, err := txStore.Wallets().GetByOrgForUpdate(ctx, wallet.OrganizationID)
				if err != nil {
					return err
				}
				if locked.TotalCredits <= 0 || locked.CreditExpiredAt.After(now) {
					return nil // changed since listing
				}

				expired := locked.TotalCredits
				locked.TotalSpend += expired
				locked.TotalCredits = locked.TotalAdded + locked.TotalRefunded - locked.TotalSpend
				if err := txStore.Wallets().UpdateCounters(ctx, locked); err != nil {
					return err
				}

				return txStore.Wallets().CreateTransaction(ctx, &domain.CreditTransaction{
					WalletID:    locked.ID,
					Credits:     expired,
					Type:        domain.TransactionTypeUsage,
					Status:      domain.TransactionStatusSuccess,
					Description: fmt.Sprintf("Credits expired on %s", locked.CreditExpiredAt.Format("2006-01-02")),
				})
			})
			if err != nil {
				logger.Error("Failed to expire wallet credits", "error", err, "org_id", wallet.OrganizationID)
				continue
			}
			logger.Info("Wallet credits expired", "org_id", wallet.OrganizationID, "credits", wallet.TotalCredits)
		}
	})
}

// MarkOverdueBillingRecords flips pending billing records past their due
// date to overdue.
func (jr *JobRunner) MarkOverdueBillingRecords() {
	jr.runWithRecovery("MarkOverdueBillingRecords", func() {
		ctx := context.Background()

		count, err := jr.store.Billing().MarkOverdue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to mark overdue billing records", "error", err)
			return
		}
		logger.Info("Billing records marked overdue", "count", count)
	})
}
