package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type candidateRepository struct {
	db DBTX
}

func NewCandidateRepository(db DBTX) repository.CandidateRepository {
	return &candidateRepository{db: db}
}

const candidateColumns = `id, organization_id, name, email, COALESCE(role, ''), specialization_id,
	experience_years, experience_months, COALESCE(company, ''), skills, status,
	scheduled_time, last_scheduled_initiate_time, COALESCE(recruiter_email, ''), created_at, updated_at`

func (r *candidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	query := `INSERT INTO candidates (organization_id, name, email, role, specialization_id,
	          experience_years, experience_months, company, skills, status, recruiter_email, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()) RETURNING id, created_at, updated_at`
	if candidate.Status == "" {
		candidate.Status = domain.StatusNotScheduled
	}
	return r.db.QueryRowContext(ctx, query,
		candidate.OrganizationID, candidate.Name, candidate.Email, candidate.Role,
		candidate.SpecializationID, candidate.ExperienceYears, candidate.ExperienceMonths,
		candidate.Company, pq.Array(candidate.Skills), candidate.Status, candidate.RecruiterEmail,
	).Scan(&candidate.ID, &candidate.CreatedAt, &candidate.UpdatedAt)
}

func (r *candidateRepository) GetByID(ctx context.Context, id int32) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *candidateRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *candidateRepository) Update(ctx context.Context, candidate *domain.Candidate) error {
	query := `UPDATE candidates SET name = $2, email = $3, role = $4, specialization_id = $5,
	          experience_years = $6, experience_months = $7, company = $8, skills = $9, status = $10,
	          scheduled_time = $11, last_scheduled_initiate_time = $12, recruiter_email = $13,
	          updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		candidate.ID, candidate.Name, candidate.Email, candidate.Role, candidate.SpecializationID,
		candidate.ExperienceYears, candidate.ExperienceMonths, candidate.Company,
		pq.Array(candidate.Skills), candidate.Status,
		candidate.ScheduledTime, candidate.LastInitiateTime, candidate.RecruiterEmail)
	return err
}

func (r *candidateRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

func (r *candidateRepository) scanOne(row *sql.Row) (*domain.Candidate, error) {
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*domain.Candidate, error) {
	var c domain.Candidate
	var scheduledTime, lastInitiate sql.NullTime
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Role, &c.SpecializationID,
		&c.ExperienceYears, &c.ExperienceMonths, &c.Company, pq.Array(&c.Skills), &c.Status,
		&scheduledTime, &lastInitiate, &c.RecruiterEmail, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if scheduledTime.Valid {
		c.ScheduledTime = &scheduledTime.Time
	}
	if lastInitiate.Valid {
		c.LastInitiateTime = &lastInitiate.Time
	}
	return &c, nil
}
