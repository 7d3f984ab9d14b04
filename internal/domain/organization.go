package domain

import "time"

// Organization is a client company that schedules interviews for its
// candidates. CountryCode selects the wallet's credit conversion policy;
// Level drives the interviewer seniority band in availability searches.
type Organization struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	BrandName     string    `json:"brand_name"`
	CountryCode   string    `json:"country_code"`
	Level         int32     `json:"level"`
	ContactEmail  string    `json:"contact_email"`
	InternalEmail string    `json:"internal_email"` // assigned internal-ops contact
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
