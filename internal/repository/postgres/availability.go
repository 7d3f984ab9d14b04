package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type availabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

const availabilityColumns = `id, interviewer_id, date, start_time, end_time, booked_by,
	is_scheduled, COALESCE(calendar_event_id, ''), created_at, updated_at`

func (r *availabilityRepository) Create(ctx context.Context, slot *domain.AvailabilitySlot) error {
	query := `INSERT INTO availability_slots (interviewer_id, date, start_time, end_time, booked_by,
	          is_scheduled, calendar_event_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		slot.InterviewerID, slot.Date, slot.StartTime, slot.EndTime, slot.BookedBy,
		slot.IsScheduled, slot.CalendarEventID,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrSlotConflict
	}
	return err
}

func (r *availabilityRepository) CreateBatch(ctx context.Context, slots []domain.AvailabilitySlot) error {
	for i := range slots {
		if err := r.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id int32) (*domain.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_slots WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *availabilityRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_slots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *availabilityRepository) Update(ctx context.Context, slot *domain.AvailabilitySlot) error {
	query := `UPDATE availability_slots SET date = $2, start_time = $3, end_time = $4, booked_by = $5,
	          is_scheduled = $6, calendar_event_id = $7, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.Date, slot.StartTime, slot.EndTime, slot.BookedBy,
		slot.IsScheduled, slot.CalendarEventID)
	return err
}

// Search returns free slots joined with their interviewers, applying the
// candidate-derived filters. Skill matching uses array containment, so an
// interviewer must hold every requested skill.
func (r *availabilityRepository) Search(ctx context.Context, filters repository.SlotSearchFilters) ([]repository.AvailableSlot, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conditions = append(conditions, "s.booked_by IS NULL")
	conditions = append(conditions, "s.date = "+arg(filters.Date))
	conditions = append(conditions, "i.specialization_id = "+arg(filters.SpecializationID))
	conditions = append(conditions,
		"(i.experience_years * 12 + i.experience_months) >= "+arg(filters.MinExperienceMonths))

	if len(filters.Levels) > 0 {
		conditions = append(conditions, "i.level = ANY("+arg(pq.Array(filters.Levels))+")")
	}
	if len(filters.Skills) > 0 {
		conditions = append(conditions, "i.skills @> "+arg(pq.Array(filters.Skills)))
	}
	if len(filters.ExcludeInterviewerIDs) > 0 {
		conditions = append(conditions, "i.id <> ALL("+arg(pq.Array(filters.ExcludeInterviewerIDs))+")")
	}
	if len(filters.ExcludeCompanies) > 0 {
		lowered := make([]string, len(filters.ExcludeCompanies))
		for i, c := range filters.ExcludeCompanies {
			lowered[i] = strings.ToLower(c)
		}
		// COALESCE keeps interviewers with no recorded company in the result;
		// a plain <> ALL comparison against NULL drops them.
		conditions = append(conditions, "COALESCE(LOWER(i.current_company), '') <> ALL("+arg(pq.Array(lowered))+")")
	}
	if filters.StartTime != nil {
		conditions = append(conditions, "s.start_time >= "+arg(*filters.StartTime))
	}
	if filters.EndTime != nil {
		conditions = append(conditions, "s.end_time <= "+arg(*filters.EndTime))
	}

	query := `SELECT s.id, s.interviewer_id, s.date, s.start_time, s.end_time, s.booked_by,
	       s.is_scheduled, COALESCE(s.calendar_event_id, ''), s.created_at, s.updated_at,
	       i.id, i.name, i.email, COALESCE(i.current_company, ''), i.specialization_id,
	       i.skills, i.level, i.experience_years, i.experience_months, i.created_at, i.updated_at
	FROM availability_slots s
	JOIN interviewers i ON i.id = s.interviewer_id
	WHERE ` + strings.Join(conditions, " AND ") + `
	ORDER BY s.start_time, s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []repository.AvailableSlot
	for rows.Next() {
		var slot domain.AvailabilitySlot
		var interviewer domain.Interviewer
		var bookedBy sql.NullInt32
		err := rows.Scan(
			&slot.ID, &slot.InterviewerID, &slot.Date, &slot.StartTime, &slot.EndTime, &bookedBy,
			&slot.IsScheduled, &slot.CalendarEventID, &slot.CreatedAt, &slot.UpdatedAt,
			&interviewer.ID, &interviewer.Name, &interviewer.Email, &interviewer.CurrentCompany,
			&interviewer.SpecializationID, pq.Array(&interviewer.Skills), &interviewer.Level,
			&interviewer.ExperienceYears, &interviewer.ExperienceMonths,
			&interviewer.CreatedAt, &interviewer.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if bookedBy.Valid {
			slot.BookedBy = &bookedBy.Int32
		}
		results = append(results, repository.AvailableSlot{Slot: slot, Interviewer: interviewer})
	}
	return results, rows.Err()
}

func (r *availabilityRepository) ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.AvailabilitySlot, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability_slots
	          WHERE interviewer_id = $1 AND date >= $2 ORDER BY date, start_time`
	rows, err := r.db.QueryContext(ctx, query, interviewerID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.AvailabilitySlot
	for rows.Next() {
		s, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *availabilityRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM availability_slots WHERE booked_by IS NULL AND date < $1`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *availabilityRepository) scanOne(row *sql.Row) (*domain.AvailabilitySlot, error) {
	s, err := scanAvailability(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanAvailability(row rowScanner) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	var bookedBy sql.NullInt32
	err := row.Scan(
		&s.ID, &s.InterviewerID, &s.Date, &s.StartTime, &s.EndTime, &bookedBy,
		&s.IsScheduled, &s.CalendarEventID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bookedBy.Valid {
		s.BookedBy = &bookedBy.Int32
	}
	return &s, nil
}
