package postgres

import (
	"context"
	"database/sql"
	"errors"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type attemptRepository struct {
	db DBTX
}

func NewAttemptRepository(db DBTX) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *domain.ScheduleAttempt) error {
	query := `INSERT INTO schedule_attempts (candidate_id, created_at)
	          VALUES ($1, NOW()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, attempt.CandidateID).
		Scan(&attempt.ID, &attempt.CreatedAt)
}

func (r *attemptRepository) GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.ScheduleAttempt, error) {
	query := `SELECT id, candidate_id, created_at FROM schedule_attempts
	          WHERE candidate_id = $1 ORDER BY id DESC LIMIT 1`
	var attempt domain.ScheduleAttempt
	err := r.db.QueryRowContext(ctx, query, candidateID).
		Scan(&attempt.ID, &attempt.CandidateID, &attempt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
