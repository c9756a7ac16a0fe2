package domain

import "time"

// InscriptionPlan is a named pricing tier applied to an Enrollment.
type InscriptionPlan struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	DurationMonths    int     `json:"duration_months"`     // 0: expiration tracked manually
	NumberOfTimeslots int     `json:"number_of_timeslots"` // 0: not session-counted
}

// ExpirationFrom returns from + DurationMonths months. Month overflow
// normalises the way time.AddDate does (Jan 31 + 1 month is Mar 2 or 3).
func (p InscriptionPlan) ExpirationFrom(from time.Time) (time.Time, bool) {
	if p.DurationMonths <= 0 {
		return time.Time{}, false
	}
	return from.AddDate(0, p.DurationMonths, 0), true
}
