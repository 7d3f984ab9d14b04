package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"interviewdesk-backend/internal/repository"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx. Every
// repository runs over it so the same code serves both autocommit calls and
// calls inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db   *sql.DB
	dbtx DBTX

	organizations repository.OrganizationRepository
	candidates    repository.CandidateRepository
	interviewers  repository.InterviewerRepository
	availability  repository.AvailabilityRepository
	interviews    repository.InterviewRepository
	attempts      repository.AttemptRepository
	wallets       repository.WalletRepository
	billing       repository.BillingRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, dbtx DBTX) *Store {
	return &Store{
		db:            db,
		dbtx:          dbtx,
		organizations: NewOrganizationRepository(dbtx),
		candidates:    NewCandidateRepository(dbtx),
		interviewers:  NewInterviewerRepository(dbtx),
		availability:  NewAvailabilityRepository(dbtx),
		interviews:    NewInterviewRepository(dbtx),
		attempts:      NewAttemptRepository(dbtx),
		wallets:       NewWalletRepository(dbtx),
		billing:       NewBillingRepository(dbtx),
	}
}

func (s *Store) Organizations() repository.OrganizationRepository { return s.organizations }
func (s *Store) Candidates() repository.CandidateRepository       { return s.candidates }
func (s *Store) Interviewers() repository.InterviewerRepository   { return s.interviewers }
func (s *Store) Availability() repository.AvailabilityRepository  { return s.availability }
func (s *Store) Interviews() repository.InterviewRepository       { return s.interviews }
func (s *Store) Attempts() repository.AttemptRepository           { return s.attempts }
func (s *Store) Wallets() repository.WalletRepository             { return s.wallets }
func (s *Store) Billing() repository.BillingRepository            { return s.billing }

// WithTx runs fn inside a single transaction. Nested calls reuse the
// enclosing transaction instead of opening a second one.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if _, nested := s.dbtx.(*sql.Tx); nested {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := newStore(s.db, tx)
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
