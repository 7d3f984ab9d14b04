package meeting

import (
	"context"
	"time"
)

// Details describe the interview a meeting is created for.
type Details struct {
	Summary        string
	Description    string
	OrganizerEmail string
	AttendeeEmails []string
	StartTime      time.Time
	EndTime        time.Time
}

// Meeting is the provider's handle on a created event.
type Meeting struct {
	JoinLink string
	EventID  string
}

// Provider creates and cancels video meetings. Creation happens inside the
// booking transaction so the link is persisted atomically with the
// interview; cancellation is best-effort after commit and must be
// idempotent.
type Provider interface {
	Create(ctx context.Context, details Details) (*Meeting, error)
	Cancel(ctx context.Context, eventID string) error
}
