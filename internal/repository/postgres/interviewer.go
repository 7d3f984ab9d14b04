package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type interviewerRepository struct {
	db DBTX
}

func NewInterviewerRepository(db DBTX) repository.InterviewerRepository {
	return &interviewerRepository{db: db}
}

const interviewerColumns = `id, name, email, COALESCE(current_company, ''), specialization_id,
	skills, level, experience_years, experience_months, created_at, updated_at`

func (r *interviewerRepository) Create(ctx context.Context, interviewer *domain.Interviewer) error {
	query := `INSERT INTO interviewers (name, email, current_company, specialization_id, skills,
	          level, experience_years, experience_months, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		interviewer.Name, interviewer.Email, interviewer.CurrentCompany, interviewer.SpecializationID,
		pq.Array(interviewer.Skills), interviewer.Level, interviewer.ExperienceYears, interviewer.ExperienceMonths,
	).Scan(&interviewer.ID, &interviewer.CreatedAt, &interviewer.UpdatedAt)
}

func (r *interviewerRepository) GetByID(ctx context.Context, id int32) (*domain.Interviewer, error) {
	query := `SELECT ` + interviewerColumns + ` FROM interviewers WHERE id = $1`
	i, err := scanInterviewer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *interviewerRepository) ListByIDs(ctx context.Context, ids []int32) ([]domain.Interviewer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + interviewerColumns + ` FROM interviewers WHERE id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviewers []domain.Interviewer
	for rows.Next() {
		i, err := scanInterviewer(rows)
		if err != nil {
			return nil, err
		}
		interviewers = append(interviewers, *i)
	}
	return interviewers, rows.Err()
}

func scanInterviewer(row rowScanner) (*domain.Interviewer, error) {
	var i domain.Interviewer
	err := row.Scan(
		&i.ID, &i.Name, &i.Email, &i.CurrentCompany, &i.SpecializationID,
		pq.Array(&i.Skills), &i.Level, &i.ExperienceYears, &i.ExperienceMonths,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
