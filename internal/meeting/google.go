package meeting

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"interviewdesk-backend/internal/domain"
)

// GoogleCalendarProvider creates Google Meet meetings by inserting calendar
// events with a conference request, using a service account.
type GoogleCalendarProvider struct {
	service    *calendar.Service
	calendarID string
}

func NewGoogleCalendarProvider(ctx context.Context, credentialsFile, calendarID string) (*GoogleCalendarProvider, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials: %w", err)
	}

	creds, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(creds.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendarProvider{service: service, calendarID: calendarID}, nil
}

func (p *GoogleCalendarProvider) Create(ctx context.Context, details Details) (*Meeting, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(details.AttendeeEmails)+1)
	attendees = append(attendees, &calendar.EventAttendee{Email: details.OrganizerEmail, Organizer: true})
	for _, email := range details.AttendeeEmails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	event := &calendar.Event{
		Summary:     details.Summary,
		Description: details.Description,
		Start:       &calendar.EventDateTime{DateTime: details.StartTime.Format("2006-01-02T15:04:05Z07:00")},
		End:         &calendar.EventDateTime{DateTime: details.EndTime.Format("2006-01-02T15:04:05Z07:00")},
		Attendees:   attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.New().String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := p.service.Events.Insert(p.calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &domain.ExternalError{Capability: "meeting", Err: err}
	}

	link := created.HangoutLink
	if link == "" && created.ConferenceData != nil {
		for _, ep := range created.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				link = ep.Uri
				break
			}
		}
	}
	return &Meeting{JoinLink: link, EventID: created.Id}, nil
}

// Cancel deletes the calendar event. A 404 or 410 means the event is
// already gone and is treated as success.
func (p *GoogleCalendarProvider) Cancel(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	err := p.service.Events.Delete(p.calendarID, eventID).
		SendUpdates("all").
		Context(ctx).
		Do()
	if gErr, ok := err.(*googleapi.Error); ok && (gErr.Code == 404 || gErr.Code == 410) {
		return nil
	}
	if err != nil {
		return &domain.ExternalError{Capability: "meeting", Err: err}
	}
	return nil
}
