package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"interviewdesk-backend/internal/domain"
)

func newCreditFixture() (*creditService, *mockStore) {
	store := newMockStore()
	svc := NewCreditService(store, testConfig().Credits).(*creditService)
	return svc, store
}

func TestAddCreditsAppliesConversionRate(t *testing.T) {
	svc, store := newCreditFixture()

	wallet := &domain.Wallet{ID: 1, OrganizationID: 3, TotalCredits: 5, TotalAdded: 10, TotalSpend: 5}
	store.organizations.On("GetByID", mock.Anything, int32(3)).Return(testOrg(), nil)
	store.wallets.On("GetByOrgForUpdate", mock.Anything, int32(3)).Return(wallet, nil)
	store.wallets.On("UpdateCounters", mock.Anything, wallet).Return(nil)
	store.wallets.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*domain.CreditTransaction")).Return(nil)

	tx, err := svc.AddCredits(context.Background(), 3, 20, "order-77")
	require.NoError(t, err)

	assert.Equal(t, int32(30), wallet.TotalAdded)
	assert.Equal(t, int32(25), wallet.TotalCredits)
	assert.Equal(t, int64(500), tx.Amount) // 20 credits at the IN rate of 25
	assert.Equal(t, int32(20), tx.Credits)
	assert.Equal(t, domain.TransactionTypePurchase, tx.Type)
	assert.Equal(t, "order-77", tx.Reference)
}

func TestAddCreditsUnknownCountryFallsBack(t *testing.T) {
	svc, store := newCreditFixture()

	org := testOrg()
	org.CountryCode = "FR" // not in the registry
	wallet := &domain.Wallet{ID: 1, OrganizationID: 3}
	store.organizations.On("GetByID", mock.Anything, int32(3)).Return(org, nil)
	store.wallets.On("GetByOrgForUpdate", mock.Anything, int32(3)).Return(wallet, nil)
	store.wallets.On("UpdateCounters", mock.Anything, wallet).Return(nil)
	store.wallets.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*domain.CreditTransaction")).Return(nil)

	tx, err := svc.AddCredits(context.Background(), 3, 4, "")
	require.NoError(t, err)
	// default country is IN: rate 25
	assert.Equal(t, int64(100), tx.Amount)
}

func TestAddCreditsRejectsNonPositive(t *testing.T) {
	svc, _ := newCreditFixture()

	_, err := svc.AddCredits(context.Background(), 3, 0, "")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDeductCreditsInsufficientBalance(t *testing.T) {
	_, store := newCreditFixture()

	wallet := &domain.Wallet{ID: 1, OrganizationID: 3, TotalCredits: 5, TotalAdded: 5}
	store.wallets.On("GetByOrgForUpdate", mock.Anything, int32(3)).Return(wallet, nil)

	policy := testConfig().Credits.Conversion["IN"]
	err := deductCredits(context.Background(), store, 3, 10, policy, "test")
	assert.ErrorIs(t, err, domain.ErrInsufficientCredit)
	// wallet untouched on rejection
	assert.Equal(t, int32(0), wallet.TotalSpend)
	store.wallets.AssertNotCalled(t, "UpdateCounters", mock.Anything, mock.Anything)
}

func TestDeductAndRefundPreserveInvariant(t *testing.T) {
	_, store := newCreditFixture()

	wallet := &domain.Wallet{ID: 1, OrganizationID: 3, TotalCredits: 25, TotalAdded: 30, TotalSpend: 5}
	store.wallets.On("GetByOrgForUpdate", mock.Anything, int32(3)).Return(wallet, nil)
	store.wallets.On("UpdateCounters", mock.Anything, wallet).Return(nil)
	store.wallets.On("CreateTransaction", mock.Anything, mock.AnythingOfType("*domain.CreditTransaction")).Return(nil)

	policy := testConfig().Credits.Conversion["IN"]
	require.NoError(t, deductCredits(context.Background(), store, 3, 10, policy, "spend"))
	require.NoError(t, refundCredits(context.Background(), store, 3, 10, policy, "refund"))

	assert.Equal(t, int32(15), wallet.TotalSpend)
	assert.Equal(t, int32(10), wallet.TotalRefunded)
	assert.Equal(t, wallet.TotalAdded+wallet.TotalRefunded-wallet.TotalSpend, wallet.TotalCredits)
}

func TestRequiredCreditsByBand(t *testing.T) {
	svc, store := newCreditFixture()

	tests := []struct {
		name   string
		years  int32
		months int32
		want   int32
	}{
		{"mid first band", 3, 11, 8},
		{"exact boundary stays low", 4, 0, 8},
		{"just past boundary", 4, 1, 10},
		{"top band", 12, 0, 15},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := testCandidate(domain.StatusNotScheduled)
			candidate.ID = int32(100 + i)
			candidate.ExperienceYears = tt.years
			candidate.ExperienceMonths = tt.months
			store.candidates.On("GetByID", mock.Anything, candidate.ID).Return(candidate, nil)

			got, err := svc.RequiredCredits(context.Background(), candidate.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
