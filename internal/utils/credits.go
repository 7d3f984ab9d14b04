package utils

import "interviewdesk-backend/internal/config"

// ExperienceBand returns the label of the band a candidate's experience
// falls in. Bands are inclusive on the lower edge: an exact year mark with
// zero months belongs to the lower band (4y 0m is still "0-4").
func ExperienceBand(bands []config.CreditBand, years, months int32) string {
	for _, b := range bands {
		if b.MaxYears == 0 {
			return b.Label // open-ended top band
		}
		if years < int32(b.MaxYears) || (years == int32(b.MaxYears) && months == 0) {
			return b.Label
		}
	}
	if len(bands) > 0 {
		return bands[len(bands)-1].Label
	}
	return ""
}

// RequiredCredits returns the credit cost of scheduling an interview for a
// candidate with the given experience, from the configured band table.
func RequiredCredits(bands []config.CreditBand, years, months int32) int32 {
	for _, b := range bands {
		if b.MaxYears == 0 {
			return b.Credits
		}
		if years < int32(b.MaxYears) || (years == int32(b.MaxYears) && months == 0) {
			return b.Credits
		}
	}
	if len(bands) > 0 {
		return bands[len(bands)-1].Credits
	}
	return 0
}

// InterviewerRate returns the payout owed to an interviewer for a completed
// round, banded by the candidate's experience.
func InterviewerRate(rates []config.CreditRate, years, months int32) int64 {
	for _, r := range rates {
		if r.MaxYears == 0 {
			return r.Amount
		}
		if years < int32(r.MaxYears) || (years == int32(r.MaxYears) && months == 0) {
			return r.Amount
		}
	}
	if len(rates) > 0 {
		return rates[len(rates)-1].Amount
	}
	return 0
}
