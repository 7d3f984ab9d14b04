package domain

import "time"

// Candidate is the person being interviewed. At most one active (CSCH)
// booking may exist per candidate; Status reflects the current cycle.
type Candidate struct {
	ID               int32           `json:"id"`
	OrganizationID   int32           `json:"organization_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Role             string          `json:"role"`
	SpecializationID int32           `json:"specialization_id"`
	ExperienceYears  int32           `json:"experience_years"`
	ExperienceMonths int32           `json:"experience_months"`
	Company          string          `json:"company"` // current/previous employer, for conflict checks
	Skills           []string        `json:"skills,omitempty"`
	Status           InterviewStatus `json:"status"`
	ScheduledTime    *time.Time      `json:"scheduled_time,omitempty"`
	LastInitiateTime *time.Time      `json:"last_scheduled_initiate_time,omitempty"`
	RecruiterEmail   string          `json:"recruiter_email,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TotalExperienceMonths is the candidate's experience in months.
func (c *Candidate) TotalExperienceMonths() int32 {
	return c.ExperienceYears*12 + c.ExperienceMonths
}
