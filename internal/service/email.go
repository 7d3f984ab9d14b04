package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"interviewdesk-backend/internal/domain"
	"interviewdesk-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey             string
	fromEmail          string
	fromName           string
	offerExpiryMinutes int
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string, offerExpiryMinutes int) EmailService {
	return &sendGridEmailService{
		apiKey:             apiKey,
		fromEmail:          fromEmail,
		fromName:           fromName,
		offerExpiryMinutes: offerExpiryMinutes,
	}
}

// expiryPhrase renders the offer lifetime for notification copy, preferring
// whole hours.
func expiryPhrase(minutes int) string {
	if minutes >= 60 && minutes%60 == 0 {
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

func (s *sendGridEmailService) send(toEmail, toName, subject, plainText, htmlContent string, ccEmails []string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject
	message.AddContent(mail.NewContent("text/plain", plainText))
	if htmlContent != "" {
		message.AddContent(mail.NewContent("text/html", htmlContent))
	}

	personalization := mail.NewPersonalization()
	personalization.AddTos(recipient)
	for _, cc := range ccEmails {
		if cc != "" && cc != toEmail {
			personalization.AddCCs(mail.NewEmail("", cc))
		}
	}
	message.AddPersonalizations(personalization)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return &domain.ExternalError{Capability: "email", Err: err}
	}
	if response.StatusCode >= 400 {
		return &domain.ExternalError{
			Capability: "email",
			Err:        fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body),
		}
	}
	return nil
}

func (s *sendGridEmailService) SendOfferNotification(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, acceptURL, rejectURL string) error {
	subject := fmt.Sprintf("Interview request for %s", scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"))
	expiry := expiryPhrase(s.offerExpiryMinutes)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYou have a new interview request with candidate %s at %s.\n\nAccept: %s\nDecline: %s\n\nThe links expire in %s.",
		interviewerName, candidateName, scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"), acceptURL, rejectURL, expiry)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<p>Hello %s,</p>
			<p>You have a new interview request with candidate <strong>%s</strong> at <strong>%s</strong>.</p>
			<p><a href="%s">Accept</a> | <a href="%s">Decline</a></p>
			<p>The links expire in %s.</p>
		</body></html>`,
		interviewerName, candidateName, scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"), acceptURL, rejectURL, expiry)
	return s.send(interviewerEmail, interviewerName, subject, plainText, htmlContent, nil)
}

func (s *sendGridEmailService) SendBookingConfirmation(ctx context.Context, candidateEmail, candidateName, interviewerName, meetingLink string, scheduleTime time.Time, ccEmails []string) error {
	subject := "Your interview is confirmed"
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYour interview is confirmed for %s.\n\nJoin link: %s",
		candidateName, scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"), meetingLink)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<p>Hello %s,</p>
			<p>Your interview is confirmed for <strong>%s</strong>.</p>
			<p><a href="%s">Join the meeting</a></p>
		</body></html>`,
		candidateName, scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"), meetingLink)
	return s.send(candidateEmail, candidateName, subject, plainText, htmlContent, ccEmails)
}

func (s *sendGridEmailService) SendBookingCancellation(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, ccEmails []string) error {
	subject := "Interview cancelled"
	plainText := fmt.Sprintf(
		"Hello %s,\n\nThe interview with %s scheduled for %s has been cancelled. The slot is available again.",
		interviewerName, candidateName, scheduleTime.Format("Mon, 02 Jan 2006 15:04 MST"))
	return s.send(interviewerEmail, interviewerName, subject, plainText, "", ccEmails)
}

func (s *sendGridEmailService) SendCandidateSchedulingLink(ctx context.Context, candidateEmail, candidateName, schedulingURL string) error {
	subject := "Schedule your interview"
	plainText := fmt.Sprintf(
		"Hello %s,\n\nPlease pick a time for your interview using the link below.\n\n%s",
		candidateName, schedulingURL)
	htmlContent := fmt.Sprintf(`
		<html><body>
			<p>Hello %s,</p>
			<p>Please pick a time for your interview:</p>
			<p><a href="%s">Schedule my interview</a></p>
		</body></html>`,
		candidateName, schedulingURL)
	return s.send(candidateEmail, candidateName, subject, plainText, htmlContent, nil)
}

func (s *sendGridEmailService) SendFeedbackReceived(ctx context.Context, recruiterEmail, candidateName string, outcome string) error {
	subject := fmt.Sprintf("Feedback submitted for %s", candidateName)
	plainText := fmt.Sprintf("Feedback for candidate %s has been submitted. Outcome: %s.", candidateName, outcome)
	return s.send(recruiterEmail, "", subject, plainText, "", nil)
}

// noopEmailService logs instead of sending; used when no API key is
// configured.
type noopEmailService struct{}

func NewNoopEmailService() EmailService {
	return &noopEmailService{}
}

func (s *noopEmailService) SendOfferNotification(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, acceptURL, rejectURL string) error {
	logger.Info("email skipped: offer notification", "to", interviewerEmail, "accept_url", acceptURL)
	return nil
}

func (s *noopEmailService) SendBookingConfirmation(ctx context.Context, candidateEmail, candidateName, interviewerName, meetingLink string, scheduleTime time.Time, ccEmails []string) error {
	logger.Info("email skipped: booking confirmation", "to", candidateEmail)
	return nil
}

func (s *noopEmailService) SendBookingCancellation(ctx context.Context, interviewerEmail, interviewerName, candidateName string, scheduleTime time.Time, ccEmails []string) error {
	logger.Info("email skipped: booking cancellation", "to", interviewerEmail)
	return nil
}

func (s *noopEmailService) SendCandidateSchedulingLink(ctx context.Context, candidateEmail, candidateName, schedulingURL string) error {
	logger.Info("email skipped: candidate scheduling link", "to", candidateEmail, "url", schedulingURL)
	return nil
}

func (s *noopEmailService) SendFeedbackReceived(ctx context.Context, recruiterEmail, candidateName string, outcome string) error {
	logger.Info("email skipped: feedback received", "to", recruiterEmail)
	return nil
}
