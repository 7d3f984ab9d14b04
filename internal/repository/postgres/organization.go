package postgres

import (
	"context"
	"database/sql"
	"errors"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `INSERT INTO organizations (name, brand_name, country_code, level, contact_email, internal_email, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		org.Name, org.BrandName, org.CountryCode, org.Level, org.ContactEmail, org.InternalEmail,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	query := `SELECT id, name, COALESCE(brand_name, ''), country_code, level, contact_email, COALESCE(internal_email, ''), created_at, updated_at
	          FROM organizations WHERE id = $1`
	var org domain.Organization
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.BrandName, &org.CountryCode, &org.Level,
		&org.ContactEmail, &org.InternalEmail, &org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	query := `UPDATE organizations SET name = $2, brand_name = $3, country_code = $4, level = $5,
	          contact_email = $6, internal_email = $7, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		org.ID, org.Name, org.BrandName, org.CountryCode, org.Level, org.ContactEmail, org.InternalEmail)
	return err
}
