package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/meeting"
	"interviewdesk-backend/internal/repository"
	"interviewdesk-backend/internal/security"
	"interviewdesk-backend/internal/utils"
)

// deductStatuses are the candidate states in which starting a scheduling
// cycle costs credits. A re-broadcast while already in SCH does not deduct
// again.
var deductStatuses = map[domain.InterviewStatus]bool{
	domain.StatusNotScheduled:         true,
	domain.StatusNoShow:               true,
	domain.StatusRecommended:          true,
	domain.StatusNotRecommended:       true,
	domain.StatusHighlyRecommended:    true,
	domain.StatusStronglyNotRecommend: true,
}

type schedulingService struct {
	store    repository.Store
	meetings meeting.Provider
	emails   EmailService
	tokens   security.TokenManager
	cfg      *config.Config
	now      func() time.Time
}

func NewSchedulingService(store repository.Store, meetings meeting.Provider, emails EmailService, tokens security.TokenManager, cfg *config.Config) SchedulingService {
	return &schedulingService{
		store:    store,
		meetings: meetings,
		emails:   emails,
		tokens:   tokens,
		cfg:      cfg,
		now:      time.Now,
	}
}

// offerNotice and cancelNotice are side effects collected inside the
// transaction and executed only after commit, so a rollback never leaves
// interviewers holding links to bookings that do not exist.
type offerNotice struct {
	interviewerEmail string
	interviewerName  string
	candidateName    string
	scheduleTime     time.Time
	acceptURL        string
	rejectURL        string
}

type cancelNotice struct {
	eventID          string
	interviewerEmail string
	interviewerName  string
	candidateName    string
	scheduleTime     time.Time
	ccEmails         []string
}

func (s *schedulingService) InitiateScheduling(ctx context.Context, orgID, candidateID int32, slotIDs []int32) error {
	if len(slotIDs) == 0 {
		return domain.NewValidationError("at least one slot must be selected")
	}

	now := s.now()
	var offers []offerNotice
	var cancellation *cancelNotice

	err := s.store.WithTx(ctx, func(txStore repository.Store) error {
		candidate, err := txStore.Candidates().GetByIDForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		if candidate.OrganizationID != orgID {
			return domain.ErrNotFound
		}
		org, err := txStore.Organizations().GetByID(ctx, orgID)
		if err != nil {
			return err
		}
		policy := conversionFor(s.cfg.Credits, org.CountryCode)

		if candidate.Status == domain.StatusConfirmed {
			cancellation, err = s.cancelConfirmedLocked(ctx, txStore, candidate, org, now)
			if err != nil {
				return err
			}
			candidate.Status = domain.StatusNotScheduled
			candidate.ScheduledTime = nil
		}

		if deductStatuses[candidate.Status] {
			credits := utils.RequiredCredits(s.cfg.Credits.Bands, candidate.ExperienceYears, candidate.ExperienceMonths)
			description := fmt.Sprintf("Interview scheduling for %s", candidate.Name)
			if candidate.Status == domain.StatusNoShow {
				description = fmt.Sprintf("Reschedule(No Show) for %s", candidate.Name)
			}
			if err := deductCredits(ctx, txStore, orgID, credits, policy, description); err != nil {
				return err
			}
		} else if candidate.Status != domain.StatusScheduling {
			return fmt.Errorf("%w: candidate status %s", domain.ErrInvalidState, candidate.Status)
		}

		attempt := &domain.ScheduleAttempt{CandidateID: candidateID}
		if err := txStore.Attempts().Create(ctx, attempt); err != nil {
			return err
		}

		expiry := now.Add(time.Duration(s.cfg.Scheduling.OfferExpiryMinutes) * time.Minute)
		for _, slotID := range slotIDs {
			slot, err := txStore.Availability().GetByID(ctx, slotID)
			if err != nil {
				return err
			}
			if slot.BookedBy != nil {
				return fmt.Errorf("%w: slot %d is already booked", domain.ErrSlotConflict, slotID)
			}
			interviewer, err := txStore.Interviewers().GetByID(ctx, slot.InterviewerID)
			if err != nil {
				return err
			}

			scheduleTime := slot.StartDateTime()
			notice := offerNotice{
				interviewerEmail: interviewer.Email,
				interviewerName:  interviewer.Name,
				candidateName:    candidate.Name,
				scheduleTime:     scheduleTime,
			}
			for _, action := range []security.OfferAction{security.OfferActionAccept, security.OfferActionReject} {
				token := security.EncodeOfferToken(security.OfferToken{
					AvailabilityID: slot.ID,
					CandidateID:    candidateID,
					ScheduleTime:   scheduleTime,
					BookedBy:       orgID,
					ExpiredTime:    expiry,
					SchedulingID:   attempt.ID,
					Action:         action,
				})
				url := fmt.Sprintf("%s/confirmation/%s", s.cfg.Server.SiteDomain, token)
				if action == security.OfferActionAccept {
					notice.acceptURL = url
				} else {
					notice.rejectURL = url
				}
			}
			offers = append(offers, notice)
		}

		candidate.Status = domain.StatusScheduling
		candidate.LastInitiateTime = &now
		return txStore.Candidates().Update(ctx, candidate)
	})
	if err != nil {
		return err
	}

	s.runCancellationEffects(ctx, cancellation)
	for _, offer := range offers {
		if err := s.emails.SendOfferNotification(ctx, offer.interviewerEmail, offer.interviewerName,
			offer.candidateName, offer.scheduleTime, offer.acceptURL, offer.rejectURL); err != nil {
			logger.Error("failed to send offer notification", "error", err, "to", offer.interviewerEmail)
		}
	}

	logger.Info("scheduling initiated", "candidate_id", candidateID, "offers", len(offers))
	return nil
}

func (s *schedulingService) RespondToOffer(ctx context.Context, tokenStr string) (*OfferOutcome, error) {
	token, err := security.DecodeOfferToken(tokenStr)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if token.Expired(now) {
		return nil, fmt.Errorf("%w: offer expired at %s", domain.ErrExpiredRequest, token.ExpiredTime.Format(time.RFC3339))
	}

	var outcome *OfferOutcome
	var confirmation *struct {
		candidateEmail  string
		candidateName   string
		interviewerName string
		meetingLink     string
		scheduleTime    time.Time
		ccEmails        []string
	}

	err = s.store.WithTx(ctx, func(txStore repository.Store) error {
		// Lock order is slot then candidate, everywhere. Racing
		// redemptions serialize on the slot row.
		slot, err := txStore.Availability().GetByIDForUpdate(ctx, token.AvailabilityID)
		if err != nil {
			return err
		}
		candidate, err := txStore.Candidates().GetByIDForUpdate(ctx, token.CandidateID)
		if err != nil {
			return err
		}

		if candidate.Status == domain.StatusScheduling {
			attempt, err := txStore.Attempts().GetLatestByCandidate(ctx, token.CandidateID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if attempt != nil && attempt.ID != token.SchedulingID {
				return fmt.Errorf("%w: a newer scheduling round superseded this offer", domain.ErrStaleRequest)
			}
		}
		if candidate.Status == domain.StatusConfirmed {
			return fmt.Errorf("%w: candidate already has a confirmed interview", domain.ErrAlreadyResolved)
		}
		if candidate.Status != domain.StatusScheduling && candidate.Status != domain.StatusNotScheduled {
			return fmt.Errorf("%w: candidate status %s", domain.ErrInvalidState, candidate.Status)
		}

		if token.Action == security.OfferActionReject {
			outcome = &OfferOutcome{Accepted: false, ScheduledTime: token.ScheduleTime}
			logger.Info("offer rejected", "candidate_id", candidate.ID, "availability_id", slot.ID)
			return nil
		}

		if slot.BookedBy != nil {
			return fmt.Errorf("%w: slot already booked", domain.ErrSlotConflict)
		}
		buffer := time.Duration(s.cfg.Scheduling.SlotBufferMinutes) * time.Minute
		conflict, err := txStore.Interviews().HasConflictingBooking(ctx, slot.InterviewerID, token.ScheduleTime, buffer)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: interviewer has an adjacent booking", domain.ErrSlotConflict)
		}

		interviewer, err := txStore.Interviewers().GetByID(ctx, slot.InterviewerID)
		if err != nil {
			return err
		}
		org, err := txStore.Organizations().GetByID(ctx, candidate.OrganizationID)
		if err != nil {
			return err
		}

		interviewEnd := token.ScheduleTime.Add(time.Duration(s.cfg.Scheduling.InterviewMinutes) * time.Minute)
		created, err := s.meetings.Create(ctx, meeting.Details{
			Summary:        fmt.Sprintf("Interview: %s / %s", candidate.Name, interviewer.Name),
			Description:    fmt.Sprintf("Technical interview arranged by %s.", org.BrandName),
			OrganizerEmail: interviewer.Email,
			AttendeeEmails: []string{candidate.Email},
			StartTime:      token.ScheduleTime,
			EndTime:        interviewEnd,
		})
		if err != nil {
			return err
		}

		var previousID *int32
		if prev, err := txStore.Interviews().GetLatestByCandidate(ctx, candidate.ID); err == nil {
			previousID = &prev.ID
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		interview := &domain.Interview{
			CandidateID:         candidate.ID,
			InterviewerID:       slot.InterviewerID,
			Status:              domain.StatusConfirmed,
			ScheduledTime:       token.ScheduleTime,
			PreviousInterviewID: previousID,
			AvailabilityID:      &slot.ID,
			MeetingLink:         created.JoinLink,
			CalendarEventID:     created.EventID,
		}
		if err := txStore.Interviews().Create(ctx, interview); err != nil {
			return err
		}

		if err := s.consumeSlotLocked(ctx, txStore, slot, token.ScheduleTime, interviewEnd, candidate.ID); err != nil {
			return err
		}

		scheduleTime := token.ScheduleTime
		candidate.Status = domain.StatusConfirmed
		candidate.ScheduledTime = &scheduleTime
		if err := txStore.Candidates().Update(ctx, candidate); err != nil {
			return err
		}

		outcome = &OfferOutcome{
			Accepted:      true,
			Interview:     interview,
			MeetingLink:   created.JoinLink,
			ScheduledTime: scheduleTime,
		}
		confirmation = &struct {
			candidateEmail  string
			candidateName   string
			interviewerName string
			meetingLink     string
			scheduleTime    time.Time
			ccEmails        []string
		}{
			candidateEmail:  candidate.Email,
			candidateName:   candidate.Name,
			interviewerName: interviewer.Name,
			meetingLink:     created.JoinLink,
			scheduleTime:    scheduleTime,
			ccEmails:        []string{candidate.RecruiterEmail, org.InternalEmail, interviewer.Email},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmation != nil {
		if err := s.emails.SendBookingConfirmation(ctx, confirmation.candidateEmail, confirmation.candidateName,
			confirmation.interviewerName, confirmation.meetingLink, confirmation.scheduleTime, confirmation.ccEmails); err != nil {
			logger.Error("failed to send booking confirmation", "error", err, "to", confirmation.candidateEmail)
		}
		logger.Info("offer accepted", "interview_id", outcome.Interview.ID, "candidate_id", outcome.Interview.CandidateID)
	}
	return outcome, nil
}

// consumeSlotLocked narrows the locked slot to the booked hour and
// re-publishes the leftovers on each side as fresh slots. Residuals shorter
// than the minimum are dropped; survivors inherit the calendar event
// reference.
func (s *schedulingService) consumeSlotLocked(ctx context.Context, txStore repository.Store, slot *domain.AvailabilitySlot, start, end time.Time, candidateID int32) error {
	original := utils.SlotWindow{Start: slot.StartDateTime(), End: slot.EndDateTime()}
	consumed := utils.SlotWindow{Start: start, End: end}
	gap := time.Duration(s.cfg.Scheduling.SlotBufferMinutes) * time.Minute
	minDuration := time.Duration(s.cfg.Scheduling.MinSlotMinutes) * time.Minute
	residuals := utils.SplitSlot(original, consumed, gap, minDuration)

	slot.StartTime = start
	slot.EndTime = end
	slot.BookedBy = &candidateID
	slot.IsScheduled = true
	if err := txStore.Availability().Update(ctx, slot); err != nil {
		return err
	}

	for _, w := range residuals {
		residual := domain.AvailabilitySlot{
			InterviewerID:   slot.InterviewerID,
			Date:            slot.Date,
			StartTime:       w.Start,
			EndTime:         w.End,
			CalendarEventID: slot.CalendarEventID,
		}
		if err := txStore.Availability().Create(ctx, &residual); err != nil {
			return err
		}
	}
	return nil
}

func (s *schedulingService) CancelInterview(ctx context.Context, orgID, candidateID int32) error {
	now := s.now()
	var cancellation *cancelNotice

	err := s.store.WithTx(ctx, func(txStore repository.Store) error {
		candidate, err := txStore.Candidates().GetByIDForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}
		if candidate.OrganizationID != orgID {
			return domain.ErrNotFound
		}
		if candidate.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: candidate status %s", domain.ErrInvalidState, candidate.Status)
		}
		org, err := txStore.Organizations().GetByID(ctx, orgID)
		if err != nil {
			return err
		}

		cancellation, err = s.cancelConfirmedLocked(ctx, txStore, candidate, org, now)
		if err != nil {
			return err
		}

		candidate.Status = domain.StatusNotScheduled
		candidate.ScheduledTime = nil
		return txStore.Candidates().Update(ctx, candidate)
	})
	if err != nil {
		return err
	}

	s.runCancellationEffects(ctx, cancellation)
	logger.Info("interview cancelled", "candidate_id", candidateID)
	return nil
}

// cancelConfirmedLocked unwinds the candidate's confirmed interview inside
// the caller's transaction: the booked slot is released, and a cancellation
// inside the late window books the penalty for the client and the
// compensation for the interviewer, plus a second credit deduction for the
// wasted round. Credits spent on the original booking are never returned.
// The caller still owns the candidate row update.
func (s *schedulingService) cancelConfirmedLocked(ctx context.Context, txStore repository.Store, candidate *domain.Candidate, org *domain.Organization, now time.Time) (*cancelNotice, error) {
	interview, err := txStore.Interviews().GetLatestByCandidateForUpdate(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if interview.Status != domain.StatusConfirmed {
		return nil, fmt.Errorf("%w: interview status %s", domain.ErrInvalidState, interview.Status)
	}

	lateWindow := time.Duration(s.cfg.Scheduling.LateCancelWindowHrs) * time.Hour
	if !now.Before(interview.ScheduledTime.Add(-lateWindow)) {
		err := recordBillingEvent(ctx, txStore, s.cfg.Billing, interview, org.ID,
			domain.BillingReasonLateRescheduled,
			s.cfg.Billing.ClientLateRescheduleAmount,
			s.cfg.Billing.InterviewerLateRescheduleAmount,
			now)
		if err != nil {
			return nil, err
		}

		policy := conversionFor(s.cfg.Credits, org.CountryCode)
		credits := utils.RequiredCredits(s.cfg.Credits.Bands, candidate.ExperienceYears, candidate.ExperienceMonths)
		description := fmt.Sprintf("Late Rescheduling for %s", candidate.Name)
		if err := deductCredits(ctx, txStore, org.ID, credits, policy, description); err != nil {
			return nil, err
		}
	}

	interview.Status = domain.StatusRescheduled
	if err := txStore.Interviews().Update(ctx, interview); err != nil {
		return nil, err
	}

	if interview.AvailabilityID != nil {
		slot, err := txStore.Availability().GetByIDForUpdate(ctx, *interview.AvailabilityID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if slot != nil {
			slot.BookedBy = nil
			slot.IsScheduled = false
			if err := txStore.Availability().Update(ctx, slot); err != nil {
				return nil, err
			}
		}
	}

	notice := &cancelNotice{
		eventID:       interview.CalendarEventID,
		candidateName: candidate.Name,
		scheduleTime:  interview.ScheduledTime,
		ccEmails:      []string{candidate.RecruiterEmail, org.InternalEmail},
	}
	if interviewer, err := txStore.Interviewers().GetByID(ctx, interview.InterviewerID); err == nil {
		notice.interviewerEmail = interviewer.Email
		notice.interviewerName = interviewer.Name
	}
	return notice, nil
}

// runCancellationEffects performs the post-commit side of a cancellation.
// Both are best-effort; the booking state is already consistent.
func (s *schedulingService) runCancellationEffects(ctx context.Context, notice *cancelNotice) {
	if notice == nil {
		return
	}
	if notice.eventID != "" {
		if err := s.meetings.Cancel(ctx, notice.eventID); err != nil {
			logger.Error("failed to cancel meeting", "error", err, "event_id", notice.eventID)
		}
	}
	if notice.interviewerEmail != "" {
		if err := s.emails.SendBookingCancellation(ctx, notice.interviewerEmail, notice.interviewerName,
			notice.candidateName, notice.scheduleTime, notice.ccEmails); err != nil {
			logger.Error("failed to send cancellation notice", "error", err, "to", notice.interviewerEmail)
		}
	}
}

func (s *schedulingService) GenerateCandidateLink(ctx context.Context, orgID, candidateID int32) (string, error) {
	candidate, err := s.store.Candidates().GetByID(ctx, candidateID)
	if err != nil {
		return "", err
	}
	if candidate.OrganizationID != orgID {
		return "", domain.ErrNotFound
	}

	validity := time.Duration(s.cfg.Scheduling.CandidateLinkDays) * 24 * time.Hour
	token, err := s.tokens.GenerateSchedulingToken(candidateID, validity)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/schedule/%s", s.cfg.Server.SiteDomain, token)
	if err := s.emails.SendCandidateSchedulingLink(ctx, candidate.Email, candidate.Name, url); err != nil {
		logger.Error("failed to send candidate scheduling link", "error", err, "to", candidate.Email)
	}
	return url, nil
}

func (s *schedulingService) ResolveCandidateLink(ctx context.Context, token string) (*domain.Candidate, error) {
	claims, err := s.tokens.ValidateSchedulingToken(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrExpiredToken):
			return nil, fmt.Errorf("%w: scheduling link expired", domain.ErrExpiredRequest)
		default:
			return nil, fmt.Errorf("%w: invalid scheduling link", domain.ErrMalformedToken)
		}
	}
	return s.store.Candidates().GetByID(ctx, claims.CandidateID)
}

func (s *schedulingService) ListInterviewerSchedule(ctx context.Context, interviewerID int32, from time.Time) ([]domain.Interview, error) {
	if _, err := s.store.Interviewers().GetByID(ctx, interviewerID); err != nil {
		return nil, err
	}
	return s.store.Interviews().ListByInterviewer(ctx, interviewerID, from)
}
