package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/repository"
)

type interviewRepository struct {
	db DBTX
}

func NewInterviewRepository(db DBTX) repository.InterviewRepository {
	return &interviewRepository{db: db}
}

const interviewColumns = `id, candidate_id, interviewer_id, status, scheduled_time,
	previous_interview_id, availability_id, COALESCE(meeting_link, ''),
	COALESCE(calendar_event_id, ''), total_score, feedback_submitted, created_at, updated_at`

func (r *interviewRepository) Create(ctx context.Context, interview *domain.Interview) error {
	query := `INSERT INTO interviews (candidate_id, interviewer_id, status, scheduled_time,
	          previous_interview_id, availability_id, meeting_link, calendar_event_id,
	          total_score, feedback_submitted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		interview.CandidateID, interview.InterviewerID, interview.Status, interview.ScheduledTime,
		interview.PreviousInterviewID, interview.AvailabilityID, interview.MeetingLink,
		interview.CalendarEventID, interview.TotalScore, interview.FeedbackSubmitted,
	).Scan(&interview.ID, &interview.CreatedAt, &interview.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrSlotConflict
	}
	return err
}

func (r *interviewRepository) GetByID(ctx context.Context, id int32) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *interviewRepository) Update(ctx context.Context, interview *domain.Interview) error {
	query := `UPDATE interviews SET status = $2, scheduled_time = $3, previous_interview_id = $4,
	          availability_id = $5, meeting_link = $6, calendar_event_id = $7, total_score = $8,
	          feedback_submitted = $9, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		interview.ID, interview.Status, interview.ScheduledTime, interview.PreviousInterviewID,
		interview.AvailabilityID, interview.MeetingLink, interview.CalendarEventID,
		interview.TotalScore, interview.FeedbackSubmitted)
	return err
}

func (r *interviewRepository) GetLatestByCandidate(ctx context.Context, candidateID int32) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE candidate_id = $1
	          ORDER BY id DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, candidateID))
}

func (r *interviewRepository) GetLatestByCandidateForUpdate(ctx context.Context, candidateID int32) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE candidate_id = $1
	          ORDER BY id DESC LIMIT 1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, candidateID))
}

func (r *interviewRepository) HasConflictingBooking(ctx context.Context, interviewerID int32, t time.Time, buffer time.Duration) (bool, error) {
	// Inclusive window on both edges: a booking exactly buffer away still
	// conflicts.
	query := `SELECT EXISTS (
	            SELECT 1 FROM interviews
	            WHERE interviewer_id = $1 AND status = $2
	              AND scheduled_time >= $3 AND scheduled_time <= $4
	          )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query,
		interviewerID, domain.StatusConfirmed, t.Add(-buffer), t.Add(buffer)).Scan(&exists)
	return exists, err
}

func (r *interviewRepository) ListTerminalInterviewerIDs(ctx context.Context, candidateID int32) ([]int32, error) {
	query := `SELECT DISTINCT interviewer_id FROM interviews
	          WHERE candidate_id = $1 AND status = ANY($2)`
	statuses := make([]string, len(domain.TerminalStatuses))
	for i, s := range domain.TerminalStatuses {
		statuses[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, query, candidateID, pq.Array(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *interviewRepository) ListByInterviewer(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews
	          WHERE interviewer_id = $1 AND scheduled_time >= $2 ORDER BY scheduled_time`
	rows, err := r.db.QueryContext(ctx, query, interviewerID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

func (r *interviewRepository) scanOne(row *sql.Row) (*domain.Interview, error) {
	iv, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func scanInterview(row rowScanner) (*domain.Interview, error) {
	var iv domain.Interview
	var previousID, availabilityID sql.NullInt32
	err := row.Scan(
		&iv.ID, &iv.CandidateID, &iv.InterviewerID, &iv.Status, &iv.ScheduledTime,
		&previousID, &availabilityID, &iv.MeetingLink, &iv.CalendarEventID,
		&iv.TotalScore, &iv.FeedbackSubmitted, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if previousID.Valid {
		iv.PreviousInterviewID = &previousID.Int32
	}
	if availabilityID.Valid {
		iv.AvailabilityID = &availabilityID.Int32
	}
	return &iv, nil
}
