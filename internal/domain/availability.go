package domain

import "time"

// AvailabilitySlot is one contiguous block of interviewer-declared
// availability on a given date. A slot with BookedBy set is exclusively
// reserved; when a booking consumes part of a slot the slot is narrowed to
// the consumed hour and the remainders are re-published as new slots.
type AvailabilitySlot struct {
	ID            int32     `json:"id"`
	InterviewerID int32     `json:"interviewer_id"`
	Date          time.Time `json:"date"`       // calendar date, midnight
	StartTime     time.Time `json:"start_time"` // time of day on Date
	EndTime       time.Time `json:"end_time"`   // time of day; <= StartTime means past midnight
	BookedBy      *int32    `json:"booked_by,omitempty"`
	IsScheduled   bool      `json:"is_scheduled"`
	// CalendarEventID references the interviewer's own synced calendar
	// event, if any. Residual slots created by a split inherit it.
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StartDateTime combines Date and StartTime.
func (s *AvailabilitySlot) StartDateTime() time.Time {
	return combineDateTime(s.Date, s.StartTime)
}

// EndDateTime combines Date and EndTime, rolling over to the next day when
// the slot crosses midnight.
func (s *AvailabilitySlot) EndDateTime() time.Time {
	end := combineDateTime(s.Date, s.EndTime)
	if !end.After(s.StartDateTime()) {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

func combineDateTime(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, date.Location())
}
