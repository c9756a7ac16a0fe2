package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

type cascadeService struct {
	snapshots ports.SnapshotProvider
	repo      ports.CascadeRepository
	log       zerolog.Logger
}

// NewCascadeService plans deletions with the core and applies them through repo.
func NewCascadeService(snapshots ports.SnapshotProvider, repo ports.CascadeRepository, log zerolog.Logger) ports.CascadeService {
	return &cascadeService{snapshots: snapshots, repo: repo, log: log}
}

func (s *cascadeService) Plan(_ context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("plan %s deletion: %w", kind, err)
	}
	plan, err := PlanCascade(kind, id, snap)
	if err != nil {
		return nil, fmt.Errorf("plan %s deletion: %w", kind, err)
	}
	return &plan, nil
}

func (s *cascadeService) Delete(ctx context.Context, kind domain.CascadeKind, id string) (*domain.CascadePlan, error) {
	plan, err := s.Plan(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Apply(ctx, *plan); err != nil {
		return nil, fmt.Errorf("delete %s: %w", kind, err)
	}
	s.snapshots.Apply(func(cur *domain.Snapshot) *domain.Snapshot { return cur.Without(*plan) })

	s.log.Info().
		Str("kind", string(kind)).
		Str("id", id).
		Int("deleted", plan.Deletes()).
		Int("retained_payments", len(plan.RetainedPaymentIDs)).
		Msg("cascade applied")
	return plan, nil
}
