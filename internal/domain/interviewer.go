package domain

import "time"

// Interviewer is a member of the interviewer pool.
type Interviewer struct {
	ID               int32     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	CurrentCompany   string    `json:"current_company"`
	SpecializationID int32     `json:"specialization_id"`
	Skills           []string  `json:"skills"`
	Level            int32     `json:"level"`
	ExperienceYears  int32     `json:"experience_years"`
	ExperienceMonths int32     `json:"experience_months"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
