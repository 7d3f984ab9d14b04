package domain

import "time"

// InterviewStatus is shared by candidates and interviews. A candidate's
// status tracks the latest round in their lifecycle.
type InterviewStatus string

const (
	StatusNotScheduled InterviewStatus = "NSCH" // no active scheduling cycle
	StatusScheduling   InterviewStatus = "SCH"  // offers broadcast, awaiting response
	StatusConfirmed    InterviewStatus = "CSCH" // an interviewer accepted
	StatusRescheduled  InterviewStatus = "RESCH"
	StatusNoShow       InterviewStatus = "NJ"

	// Terminal recommendation statuses, set on feedback submission.
	StatusHighlyRecommended    InterviewStatus = "HREC"
	StatusRecommended          InterviewStatus = "REC"
	StatusNotRecommended       InterviewStatus = "NREC"
	StatusStronglyNotRecommend InterviewStatus = "SNREC"
)

// TerminalStatuses are the recommendation outcomes that close a round.
// Interviewers who produced one of these for a candidate are excluded from
// that candidate's future availability searches.
var TerminalStatuses = []InterviewStatus{
	StatusRecommended,
	StatusStronglyNotRecommend,
	StatusNotRecommended,
	StatusHighlyRecommended,
}

func (s InterviewStatus) IsTerminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// Interview is the authoritative booking record pairing a candidate with an
// interviewer and the availability slot the booking consumed.
// PreviousInterviewID forms a linked list recording reschedule history.
type Interview struct {
	ID                  int32           `json:"id"`
	CandidateID         int32           `json:"candidate_id"`
	InterviewerID       int32           `json:"interviewer_id"`
	Status              InterviewStatus `json:"status"`
	ScheduledTime       time.Time       `json:"scheduled_time"`
	PreviousInterviewID *int32          `json:"previous_interview_id,omitempty"`
	AvailabilityID      *int32          `json:"availability_id,omitempty"`
	MeetingLink         string          `json:"meeting_link,omitempty"`
	CalendarEventID     string          `json:"calendar_event_id,omitempty"`
	TotalScore          int32           `json:"total_score"`
	FeedbackSubmitted   bool            `json:"feedback_submitted"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ScheduleAttempt versions one broadcast of offers for a candidate. Tokens
// minted for an older attempt are recognized as stale at redemption time by
// comparing ids; attempts themselves are never mutated.
type ScheduleAttempt struct {
	ID          int32     `json:"id"`
	CandidateID int32     `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}
