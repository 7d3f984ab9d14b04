package service

import (
	"context"
	"sort"
	"time"

	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/repository"
)

type availabilityService struct {
	store      repository.Store
	scheduling config.SchedulingConfig
}

func NewAvailabilityService(store repository.Store, scheduling config.SchedulingConfig) AvailabilityService {
	return &availabilityService{store: store, scheduling: scheduling}
}

func (s *availabilityService) PublishAvailability(ctx context.Context, interviewerID int32, date time.Time, windows []TimeWindow) ([]domain.AvailabilitySlot, error) {
	if len(windows) == 0 {
		return nil, domain.NewValidationError("at least one time window is required")
	}

	if _, err := s.store.Interviewers().GetByID(ctx, interviewerID); err != nil {
		return nil, err
	}

	minDuration := time.Duration(s.scheduling.MinSlotMinutes) * time.Minute
	sorted := append([]TimeWindow(nil), windows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	slots := make([]domain.AvailabilitySlot, 0, len(sorted))
	for i, w := range sorted {
		if !w.End.After(w.Start) {
			return nil, domain.NewValidationError("window end must be after start")
		}
		if w.End.Sub(w.Start) < minDuration {
			return nil, domain.NewValidationError("window shorter than %d minutes", s.scheduling.MinSlotMinutes)
		}
		if i > 0 && w.Start.Before(sorted[i-1].End) {
			return nil, domain.NewValidationError("windows must not overlap")
		}
		slots = append(slots, domain.AvailabilitySlot{
			InterviewerID: interviewerID,
			Date:          date,
			StartTime:     w.Start,
			EndTime:       w.End,
		})
	}

	err := s.store.WithTx(ctx, func(txStore repository.Store) error {
		return txStore.Availability().CreateBatch(ctx, slots)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("availability published", "interviewer_id", interviewerID, "date", date.Format("2006-01-02"), "slots", len(slots))
	return slots, nil
}

// SearchSlots derives the filters from the candidate and organization
// profiles: matching specialization, interviewers at least the experience
// margin ahead of the candidate, the level band implied by the client's
// tier, minus interviewers who already concluded a round with the candidate
// and anyone employed at the candidate's company or the client's brand.
func (s *availabilityService) SearchSlots(ctx context.Context, orgID, candidateID int32, date time.Time) ([]repository.AvailableSlot, error) {
	candidate, err := s.store.Candidates().GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.OrganizationID != orgID {
		return nil, domain.ErrNotFound
	}
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	excluded, err := s.store.Interviews().ListTerminalInterviewerIDs(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	filters := repository.SlotSearchFilters{
		Date:                  time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		SpecializationID:      candidate.SpecializationID,
		MinExperienceMonths:   candidate.TotalExperienceMonths() + int32(s.scheduling.ExperienceMarginMths),
		Levels:                levelBand(org.Level),
		ExcludeInterviewerIDs: excluded,
		Skills:                candidate.Skills,
	}
	for _, company := range []string{candidate.Company, org.BrandName} {
		if company != "" {
			filters.ExcludeCompanies = append(filters.ExcludeCompanies, company)
		}
	}

	return s.store.Availability().Search(ctx, filters)
}

func (s *availabilityService) ListForInterviewer(ctx context.Context, interviewerID int32) ([]domain.AvailabilitySlot, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.store.Availability().ListByInterviewer(ctx, interviewerID, today)
}

// levelBand maps the client's tier to the interviewer levels it may book.
// Mid tiers see their own level and the one below; the edges see only their
// own level.
func levelBand(orgLevel int32) []int32 {
	if orgLevel == 2 || orgLevel == 3 {
		return []int32{orgLevel - 1, orgLevel}
	}
	return []int32{orgLevel}
}
