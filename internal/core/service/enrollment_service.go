package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// EnrollmentServiceDeps groups the collaborators of the enrollment service.
// Locker and Serializer are optional.
type EnrollmentServiceDeps struct {
	Snapshots   ports.SnapshotProvider
	Enrollments ports.EnrollmentRepository
	Payments    ports.PaymentRepository
	Locker      ports.SlotLocker
	Serializer  ports.Serializer
	Manager     *EnrollmentManager
	Now         func() time.Time
}

type enrollmentService struct {
	snapshots   ports.SnapshotProvider
	enrollments ports.EnrollmentRepository
	payments    ports.PaymentRepository
	locker      ports.SlotLocker
	serializer  ports.Serializer
	manager     *EnrollmentManager
	now         func() time.Time
	newID       func() string
	log         zerolog.Logger
}

// NewEnrollmentService returns an EnrollmentService implementation.
func NewEnrollmentService(deps EnrollmentServiceDeps, log zerolog.Logger) ports.EnrollmentService {
	s := &enrollmentService{
		snapshots:   deps.Snapshots,
		enrollments: deps.Enrollments,
		payments:    deps.Payments,
		locker:      deps.Locker,
		serializer:  deps.Serializer,
		manager:     deps.Manager,
		now:         deps.Now,
		newID:       uuid.NewString,
		log:         log,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.manager == nil {
		s.manager = NewEnrollmentManager(s.now)
	}
	if s.locker == nil {
		s.locker = noopLocker{}
	}
	if s.serializer == nil {
		s.serializer = inlineSerializer{}
	}
	return s
}

// Check reports every rule outcome without persisting anything.
func (s *enrollmentService) Check(_ context.Context, in ports.ProposeEnrollmentInput) (*ports.EnrollmentCheck, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	check := s.manager.Evaluate(in, snap)
	return &check, nil
}

// Enroll validates and persists a new enrollment, then the optional payment.
// Work for the same slot is serialized by the serializer.
func (s *enrollmentService) Enroll(ctx context.Context, in ports.EnrollInput) (*ports.EnrollResult, error) {
	if in.Payment != nil && in.Payment.Amount <= 0 {
		return nil, fmt.Errorf("enroll: payment: %w", domain.ErrInvalidAmount)
	}

	// Do may return before fn finishes, so the result is only read on success.
	var result *ports.EnrollResult
	err := s.serializer.Do(ctx, in.SlotID, func(ctx context.Context) error {
		var err error
		result, err = s.enroll(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *enrollmentService) enroll(ctx context.Context, in ports.EnrollInput) (*ports.EnrollResult, error) {
	// 1. Cross-process guard. A broken lock store must not stop the desk.
	release, err := s.locker.Acquire(ctx, in.SlotID)
	switch {
	case errors.Is(err, domain.ErrSlotBusy):
		return nil, fmt.Errorf("enroll: %w", err)
	case err != nil:
		s.log.Warn().Err(err).Str("slot_id", in.SlotID).Msg("slot lock unavailable, enrolling without it")
	default:
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				s.log.Warn().Err(rerr).Str("slot_id", in.SlotID).Msg("failed to release slot lock")
			}
		}()
	}

	// 2. Validate against the latest snapshot.
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}
	e, err := s.manager.Propose(in.ProposeEnrollmentInput, snap)
	if err != nil {
		s.log.Info().
			Str("dependent_id", in.DependentID).
			Str("slot_id", in.SlotID).
			Err(err).
			Msg("enrollment rejected")
		return nil, fmt.Errorf("enroll: %w", err)
	}

	// 3. Persist, then publish locally until the store notification lands.
	if err := s.enrollments.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("enroll: insert: %w", err)
	}
	s.snapshots.Apply(func(cur *domain.Snapshot) *domain.Snapshot { return cur.WithEnrollment(e) })
	result := &ports.EnrollResult{Enrollment: e}

	// 4. Optional payment taken at the desk together with the enrollment.
	// The enrollment is already stored, so a failed payment is reported on
	// the result and recorded again separately.
	if in.Payment != nil {
		p := s.buildPayment(e, *in.Payment, snap)
		if err := s.payments.Insert(ctx, p); err != nil {
			s.log.Warn().
				Err(err).
				Str("enrollment_id", e.ID).
				Str("client_id", p.ClientID).
				Float64("amount", p.Amount).
				Msg("enrollment stored but payment not recorded")
			result.PaymentErr = fmt.Errorf("record payment: %w", err)
		} else {
			s.snapshots.Apply(func(cur *domain.Snapshot) *domain.Snapshot { return cur.WithPayment(p) })
			result.Payment = &p
		}
	}

	s.log.Info().
		Str("enrollment_id", e.ID).
		Str("dependent_id", e.DependentID).
		Str("slot_id", e.SlotID).
		Str("status", string(e.Status)).
		Bool("with_payment", result.Payment != nil).
		Msg("enrollment created")

	return result, nil
}

func (s *enrollmentService) buildPayment(e domain.Enrollment, in ports.PaymentInput, snap *domain.Snapshot) domain.Payment {
	dep, _ := snap.Dependent(e.DependentID)
	p := domain.Payment{
		ID:          s.newID(),
		ClientID:    dep.ParentID,
		Amount:      in.Amount,
		Method:      in.Method,
		Description: in.Description,
		PaymentDate: in.Date,
		SlotID:      e.SlotID,
	}
	if p.Description == "" {
		p.Description = "Iscrizione " + e.PlanName
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = e.RegistrationDate
	}
	return p
}

// Cancel marks an enrollment cancelled. Linked payments are untouched.
func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("cancel enrollment: %w", err)
	}
	existing, ok := snap.Enrollment(enrollmentID)
	if !ok {
		return nil, fmt.Errorf("cancel enrollment: %w", domain.ErrEnrollmentNotFound)
	}

	var cancelled domain.Enrollment
	err = s.serializer.Do(ctx, existing.SlotID, func(ctx context.Context) error {
		latest, err := s.snapshots.Current()
		if err != nil {
			return err
		}
		cancelled, err = s.manager.Cancel(enrollmentID, latest)
		if err != nil {
			return err
		}
		if err := s.enrollments.UpdateStatus(ctx, enrollmentID, cancelled.Status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		s.snapshots.Apply(func(cur *domain.Snapshot) *domain.Snapshot { return cur.WithEnrollment(cancelled) })
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel enrollment: %w", err)
	}

	s.log.Info().Str("enrollment_id", enrollmentID).Str("slot_id", cancelled.SlotID).Msg("enrollment cancelled")
	return &cancelled, nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type inlineSerializer struct{}

func (inlineSerializer) Do(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}
