package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

const walletColumns = `id, organization_id, total_credits, total_added, total_spend,
	total_refunded, credit_expired_at, created_at, updated_at`

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (organization_id, total_credits, total_added, total_spend,
	          total_refunded, credit_expired_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		wallet.OrganizationID, wallet.TotalCredits, wallet.TotalAdded, wallet.TotalSpend,
		wallet.TotalRefunded, wallet.CreditExpiredAt,
	).Scan(&wallet.ID, &wallet.CreatedAt, &wallet.UpdatedAt)
}

func (r *walletRepository) GetByOrg(ctx context.Context, orgID int32) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE organization_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, orgID))
}

func (r *walletRepository) GetByOrgForUpdate(ctx context.Context, orgID int32) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE organization_id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, orgID))
}

func (r *walletRepository) UpdateCounters(ctx context.Context, wallet *domain.Wallet) error {
	query := `UPDATE wallets SET total_credits = $2, total_added = $3, total_spend = $4,
	          total_refunded = $5, credit_expired_at = $6, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		wallet.ID, wallet.TotalCredits, wallet.TotalAdded, wallet.TotalSpend,
		wallet.TotalRefunded, wallet.CreditExpiredAt)
	return err
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *domain.CreditTransaction) error {
	query := `INSERT INTO credit_transactions (wallet_id, amount, credits, type, status, description, reference, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		tx.WalletID, tx.Amount, tx.Credits, tx.Type, tx.Status, tx.Description, tx.Reference,
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.CreditTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, wallet_id, amount, credits, type, status, COALESCE(description, ''), COALESCE(reference, ''), created_at
	          FROM credit_transactions WHERE wallet_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.CreditTransaction
	for rows.Next() {
		var tx domain.CreditTransaction
		err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Amount, &tx.Credits, &tx.Type, &tx.Status,
			&tx.Description, &tx.Reference, &tx.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM credit_transactions WHERE wallet_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, walletID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *walletRepository) ListExpired(ctx context.Context, before time.Time) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
	          WHERE credit_expired_at < $1 AND total_credits > 0 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

func (r *walletRepository) scanOne(row *sql.Row) (*domain.Wallet, error) {
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(
		&w.ID, &w.OrganizationID, &w.TotalCredits, &w.TotalAdded, &w.TotalSpend,
		&w.TotalRefunded, &w.CreditExpiredAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
