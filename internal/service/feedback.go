package service

import (
	"context"
	"fmt"
	"time"

	"interviewdesk-backend/internal/config"
	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
	"interviewdesk-backend/internal/repository"
	"interviewdesk-backend/internal/utils"
)

type feedbackService struct {
	store  repository.Store
	emails EmailService
	cfg    *config.Config
	now    func() time.Time
}

func NewFeedbackService(store repository.Store, emails EmailService, cfg *config.Config) FeedbackService {
	return &feedbackService{store: store, emails: emails, cfg: cfg, now: time.Now}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, interviewerID, interviewID int32, outcome domain.InterviewStatus, totalScore int32) error {
	if !outcome.IsTerminal() && outcome != domain.StatusNoShow {
		return domain.NewValidationError("outcome %s is not a valid feedback result", outcome)
	}

	now := s.now()
	var recruiterEmail, candidateName string

	err := s.store.WithTx(ctx, func(txStore repository.Store) error {
		interview, err := txStore.Interviews().GetByID(ctx, interviewID)
		if err != nil {
			return err
		}
		if interview.InterviewerID != interviewerID {
			return domain.ErrNotFound
		}
		if interview.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: interview status %s", domain.ErrInvalidState, interview.Status)
		}
		if interview.FeedbackSubmitted {
			return fmt.Errorf("%w: feedback already submitted", domain.ErrAlreadyResolved)
		}

		candidate, err := txStore.Candidates().GetByIDForUpdate(ctx, interview.CandidateID)
		if err != nil {
			return err
		}

		interview.Status = outcome
		interview.TotalScore = totalScore
		interview.FeedbackSubmitted = true
		if err := txStore.Interviews().Update(ctx, interview); err != nil {
			return err
		}

		candidate.Status = outcome
		candidate.ScheduledTime = nil
		if err := txStore.Candidates().Update(ctx, candidate); err != nil {
			return err
		}

		// A no-show is not billable; the round gets rescheduled with a
		// fresh deduction instead.
		if outcome.IsTerminal() {
			payout := utils.InterviewerRate(s.cfg.Billing.InterviewerRates,
				candidate.ExperienceYears, candidate.ExperienceMonths)
			err := recordBillingEvent(ctx, txStore, s.cfg.Billing, interview, candidate.OrganizationID,
				domain.BillingReasonFeedbackSubmitted,
				s.cfg.Billing.ClientFeedbackAmount,
				payout,
				now)
			if err != nil {
				return err
			}
		}

		recruiterEmail = candidate.RecruiterEmail
		candidateName = candidate.Name
		return nil
	})
	if err != nil {
		return err
	}

	if recruiterEmail != "" {
		if err := s.emails.SendFeedbackReceived(ctx, recruiterEmail, candidateName, string(outcome)); err != nil {
			logger.Error("failed to send feedback notice", "error", err, "to", recruiterEmail)
		}
	}

	logger.Info("feedback submitted", "interview_id", interviewID, "outcome", outcome)
	return nil
}
