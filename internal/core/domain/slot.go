package domain

import "time"

// WorkshopSlot is a recurring weekly time and place, not a single event.
type WorkshopSlot struct {
	ID              string       `json:"id"`
	Code            string       `json:"code,omitempty"`
	Name            string       `json:"name"`
	VenueID         string       `json:"venue_id"`
	DayOfWeek       time.Weekday `json:"day_of_week"`
	StartTime       string       `json:"start_time"`
	EndTime         string       `json:"end_time"`
	MaxParticipants int          `json:"max_participants"`
}

// Label prefers the short code operators use on the planner.
func (s WorkshopSlot) Label() string {
	switch {
	case s.Code != "":
		return s.Code
	case s.Name != "":
		return s.Name
	default:
		return "ID: " + s.ID
	}
}
