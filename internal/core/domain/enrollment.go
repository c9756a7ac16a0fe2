package domain

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentConfirmed EnrollmentStatus = "confirmed"
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment links one Dependent to one WorkshopSlot under one plan.
// PlanName is the key billing resolves prices by; PriceAtEnrollment keeps
// the price the plan had when the enrollment was created.
type Enrollment struct {
	ID                string           `json:"id"`
	DependentID       string           `json:"dependent_id"`
	SlotID            string           `json:"slot_id"`
	PlanID            string           `json:"plan_id,omitempty"`
	PlanName          string           `json:"plan_name"`
	PriceAtEnrollment float64          `json:"price_at_enrollment"`
	RegistrationDate  time.Time        `json:"registration_date"`
	ExpirationDate    *time.Time       `json:"expiration_date,omitempty"`
	Status            EnrollmentStatus `json:"status"`
}

// Active reports whether the enrollment still counts for duplicates and dues.
func (e Enrollment) Active() bool {
	return e.Status != EnrollmentCancelled
}

func (e Enrollment) Confirmed() bool {
	return e.Status == EnrollmentConfirmed
}
