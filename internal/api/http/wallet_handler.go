package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"interviewdesk-backend/internal/domain"
)

type addCreditsRequest struct {
	Credits   int32  `json:"credits"`
	Reference string `json:"reference"`
}

type walletResponse struct {
	TotalCredits    int32  `json:"total_credits"`
	TotalAdded      int32  `json:"total_added"`
	TotalSpend      int32  `json:"total_spend"`
	TotalRefunded   int32  `json:"total_refunded"`
	CreditExpiredAt string `json:"credit_expired_at"`
	Currency        string `json:"currency"`
	RatePerCredit   int64  `json:"rate_per_credit"`
}

type transactionListResponse struct {
	Transactions []domain.CreditTransaction `json:"transactions"`
	Total        int32                      `json:"total"`
	Page         int32                      `json:"page"`
	PageSize     int32                      `json:"page_size"`
}

func (h *Handlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	summary, err := h.credits.GetWallet(r.Context(), orgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, walletResponse{
		TotalCredits:    summary.Wallet.TotalCredits,
		TotalAdded:      summary.Wallet.TotalAdded,
		TotalSpend:      summary.Wallet.TotalSpend,
		TotalRefunded:   summary.Wallet.TotalRefunded,
		CreditExpiredAt: summary.Wallet.CreditExpiredAt.Format("2006-01-02"),
		Currency:        summary.Currency,
		RatePerCredit:   summary.Rate,
	})
}

func (h *Handlers) AddCredits(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req addCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body"))
		return
	}

	txn, err := h.credits.AddCredits(r.Context(), orgID, req.Credits, req.Reference)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, txn)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	orgID, err := actorID(r, headerOrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	txns, total, err := h.credits.ListTransactions(r.Context(), orgID, page, pageSize)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, transactionListResponse{
		Transactions: txns,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

func queryInt(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
