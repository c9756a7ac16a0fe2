package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// EnrollmentManager applies the enrollment rules to a snapshot. It never
// writes: results are returned for the caller to persist.
type EnrollmentManager struct {
	now   func() time.Time
	newID func() string
}

// NewEnrollmentManager uses time.Now when now is nil.
func NewEnrollmentManager(now func() time.Time) *EnrollmentManager {
	if now == nil {
		now = time.Now
	}
	return &EnrollmentManager{now: now, newID: uuid.NewString}
}

type enrollmentRefs struct {
	dependent domain.Dependent
	slot      domain.WorkshopSlot
	plan      domain.InscriptionPlan
}

// Evaluate runs every rule and reports all failures, for full UI feedback.
func (m *EnrollmentManager) Evaluate(in ports.ProposeEnrollmentInput, snap *domain.Snapshot) ports.EnrollmentCheck {
	_, check, _ := m.validate(in, snap)
	return check
}

// Propose builds a new enrollment or returns a *domain.ValidationFailure
// whose first failure follows rule order: references, duplicates, capacity.
func (m *EnrollmentManager) Propose(in ports.ProposeEnrollmentInput, snap *domain.Snapshot) (domain.Enrollment, error) {
	refs, _, vf := m.validate(in, snap)
	if vf != nil {
		return domain.Enrollment{}, vf
	}

	registered := m.now()
	e := domain.Enrollment{
		ID:                m.newID(),
		DependentID:       refs.dependent.ID,
		SlotID:            refs.slot.ID,
		PlanID:            refs.plan.ID,
		PlanName:          refs.plan.Name,
		PriceAtEnrollment: refs.plan.Price,
		RegistrationDate:  registered,
		Status:            domain.EnrollmentConfirmed,
	}
	if in.Pending {
		e.Status = domain.EnrollmentPending
	}
	if exp, ok := refs.plan.ExpirationFrom(registered); ok {
		e.ExpirationDate = &exp
	}
	return e, nil
}

// Cancel always succeeds for a known id. Payments are left alone.
func (m *EnrollmentManager) Cancel(enrollmentID string, snap *domain.Snapshot) (domain.Enrollment, error) {
	e, ok := snap.Enrollment(enrollmentID)
	if !ok {
		return domain.Enrollment{}, domain.ErrEnrollmentNotFound
	}
	e.Status = domain.EnrollmentCancelled
	return e, nil
}

func (m *EnrollmentManager) validate(in ports.ProposeEnrollmentInput, snap *domain.Snapshot) (enrollmentRefs, ports.EnrollmentCheck, *domain.ValidationFailure) {
	var (
		refs   enrollmentRefs
		vf     domain.ValidationFailure
		found  bool
		slotOK bool
	)
	check := ports.EnrollmentCheck{Capacity: -1}

	// 1. References.
	if refs.dependent, found = snap.Dependent(in.DependentID); !found {
		vf.Add("dependent_id", domain.ErrDependentNotFound)
	}
	if refs.slot, slotOK = snap.Slot(in.SlotID); !slotOK {
		vf.Add("slot_id", domain.ErrSlotNotFound)
	}
	if refs.plan, found = snap.Plan(in.PlanID); !found {
		vf.Add("plan_id", domain.ErrPlanNotFound)
	}

	// 2. At most one non-cancelled enrollment per (dependent, slot).
	for _, e := range snap.EnrollmentsOf(in.DependentID) {
		if e.SlotID == in.SlotID && e.Active() {
			vf.Add("slot_id", domain.ErrDuplicateEnrollment)
			break
		}
	}

	// 3. Confirmed count strictly below the effective capacity.
	if slotOK {
		check.Capacity = EffectiveCapacity(refs.slot, snap)
		check.Confirmed = snap.ConfirmedCount(refs.slot.ID)
		if check.Capacity >= 0 && check.Confirmed >= check.Capacity {
			vf.Add("slot_id", domain.ErrCapacityExceeded)
		}
	}

	check.Failures = vf.Failures()
	check.Allowed = vf.Empty()
	if vf.Empty() {
		return refs, check, nil
	}
	return refs, check, &vf
}

// EffectiveCapacity is min(slot.MaxParticipants, venue.Capacity), ignoring
// non-positive bounds and a missing venue. -1 means unbounded.
func EffectiveCapacity(slot domain.WorkshopSlot, snap *domain.Snapshot) int {
	limit := -1
	if slot.MaxParticipants > 0 {
		limit = slot.MaxParticipants
	}
	if venue, ok := snap.Venue(slot.VenueID); ok && venue.Capacity > 0 {
		if limit < 0 || venue.Capacity < limit {
			limit = venue.Capacity
		}
	}
	return limit
}
