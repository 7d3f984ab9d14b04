package service

import (
	"context"
	"fmt"

	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/repository"
	"interviewdesk-backend/internal/utils"
)

type creditService struct {
	store   repository.Store
	credits config.CreditsConfig
}

func NewCreditService(store repository.Store, credits config.CreditsConfig) CreditService {
	return &creditService{store: store, credits: credits}
}

// conversionFor resolves the organization's conversion policy, falling back
// to the default country when the org's country is not registered.
func conversionFor(credits config.CreditsConfig, countryCode string) config.ConversionPolicy {
	if policy, ok := credits.Conversion[countryCode]; ok {
		return policy
	}
	return credits.Conversion[credits.DefaultCountry]
}

func (s *creditService) AddCredits(ctx context.Context, orgID int32, credits int32, reference string) (*domain.CreditTransaction, error) {
	if credits <= 0 {
		return nil, domain.NewValidationError("credits must be positive, got %d", credits)
	}

	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	policy := conversionFor(s.credits, org.CountryCode)

	var created *domain.CreditTransaction
	err = s.store.WithTx(ctx, func(txStore repository.Store) error {
		wallet, err := txStore.Wallets().GetByOrgForUpdate(ctx, orgID)
		if err != nil {
			return err
		}

		wallet.TotalAdded += credits
		wallet.TotalCredits = wallet.TotalAdded + wallet.TotalRefunded - wallet.TotalSpend
		if err := txStore.Wallets().UpdateCounters(ctx, wallet); err != nil {
			return err
		}

		tx := &domain.CreditTransaction{
			WalletID:    wallet.ID,
			Amount:      int64(credits) * policy.Rate,
			Credits:     credits,
			Type:        domain.TransactionTypePurchase,
			Status:      domain.TransactionStatusSuccess,
			Description: fmt.Sprintf("Purchased %d credits (%s)", credits, policy.Currency),
			Reference:   reference,
		}
		if err := txStore.Wallets().CreateTransaction(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("credits added", "org_id", orgID, "credits", credits)
	return created, nil
}

func (s *creditService) GetWallet(ctx context.Context, orgID int32) (*WalletSummary, error) {
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.Wallets().GetByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	policy := conversionFor(s.credits, org.CountryCode)
	return &WalletSummary{
		Wallet:   *wallet,
		Currency: policy.Currency,
		Rate:     policy.Rate,
	}, nil
}

func (s *creditService) ListTransactions(ctx context.Context, orgID int32, page, pageSize int32) ([]domain.CreditTransaction, int32, error) {
	wallet, err := s.store.Wallets().GetByOrg(ctx, orgID)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.store.Wallets().ListTransactions(ctx, wallet.ID, page, pageSize)
}

func (s *creditService) RequiredCredits(ctx context.Context, candidateID int32) (int32, error) {
	candidate, err := s.store.Candidates().GetByID(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return utils.RequiredCredits(s.credits.Bands, candidate.ExperienceYears, candidate.ExperienceMonths), nil
}

// deductCredits spends credits from the organization's wallet inside the
// caller's transaction. Balance is checked before the deduction; an
// insufficient balance aborts the whole transaction.
func deductCredits(ctx context.Context, txStore repository.Store, orgID, credits int32, policy config.ConversionPolicy, description string) error {
	wallet, err := txStore.Wallets().GetByOrgForUpdate(ctx, orgID)
	if err != nil {
		return err
	}

	if wallet.TotalCredits < credits {
		return fmt.Errorf("%w: need %d credits, wallet has %d",
			domain.ErrInsufficientCredit, credits, wallet.TotalCredits)
	}

	wallet.TotalSpend += credits
	wallet.TotalCredits = wallet.TotalAdded + wallet.TotalRefunded - wallet.TotalSpend
	if err := txStore.Wallets().UpdateCounters(ctx, wallet); err != nil {
		return err
	}

	return txStore.Wallets().CreateTransaction(ctx, &domain.CreditTransaction{
		WalletID:    wallet.ID,
		Amount:      int64(credits) * policy.Rate,
		Credits:     credits,
		Type:        domain.TransactionTypeUsage,
		Status:      domain.TransactionStatusSuccess,
		Description: description,
	})
}

// refundCredits returns credits to the organization's wallet inside the
// caller's transaction.
func refundCredits(ctx context.Context, txStore repository.Store, orgID, credits int32, policy config.ConversionPolicy, description string) error {
	wallet, err := txStore.Wallets().GetByOrgForUpdate(ctx, orgID)
	if err != nil {
		return err
	}

	wallet.TotalRefunded += credits
	wallet.TotalCredits = wallet.TotalAdded + wallet.TotalRefunded - wallet.TotalSpend
	if err := txStore.Wallets().UpdateCounters(ctx, wallet); err != nil {
		return err
	}

	return txStore.Wallets().CreateTransaction(ctx, &domain.CreditTransaction{
		WalletID:    wallet.ID,
		Amount:      int64(credits) * policy.Rate,
		Credits:     credits,
		Type:        domain.TransactionTypeRefund,
		Status:      domain.TransactionStatusSuccess,
		Description: description,
	})
}
