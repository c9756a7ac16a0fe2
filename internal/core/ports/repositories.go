package ports

import (
	"context"

	"github.com/officina/workshop-system/internal/core/domain"
)

// EnrollmentRepository persists enrollments produced by the core.
type EnrollmentRepository interface {
	Insert(ctx context.Context, e domain.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error
}

// PaymentRepository persists payments.
type PaymentRepository interface {
	Insert(ctx context.Context, p domain.Payment) error
}

// CostRepository persists operational costs.
type CostRepository interface {
	Insert(ctx context.Context, c domain.OperationalCost) error
}

// CascadeRepository applies a cascade plan, atomically when the store allows.
type CascadeRepository interface {
	Apply(ctx context.Context, plan domain.CascadePlan) error
}
