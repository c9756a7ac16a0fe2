package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

type dashboardService struct {
	snapshots ports.SnapshotProvider
	dashboard *Dashboard
	now       func() time.Time
}

func NewDashboardService(snapshots ports.SnapshotProvider, dashboard *Dashboard, now func() time.Time) ports.DashboardService {
	if dashboard == nil {
		dashboard = NewDashboard(nil)
	}
	if now == nil {
		now = time.Now
	}
	return &dashboardService{snapshots: snapshots, dashboard: dashboard, now: now}
}

func (s *dashboardService) KPIs(_ context.Context) (*domain.DashboardKPIs, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	kpis := s.dashboard.Compute(snap, s.now())
	return &kpis, nil
}

// ---------------------------------------------------------------------------
// Quotes
// ---------------------------------------------------------------------------

type quoteService struct {
	snapshots ports.SnapshotProvider
}

func NewQuoteService(snapshots ports.SnapshotProvider) ports.QuoteService {
	return &quoteService{snapshots: snapshots}
}

func (s *quoteService) Document(_ context.Context, quoteID string) (*domain.QuoteDocument, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("quote document: %w", err)
	}
	doc, err := ResolveQuote(quoteID, snap)
	if err != nil {
		return nil, fmt.Errorf("quote document: %w", err)
	}
	return &doc, nil
}

// ---------------------------------------------------------------------------
// Costs
// ---------------------------------------------------------------------------

type costService struct {
	snapshots ports.SnapshotProvider
	repo      ports.CostRepository
	newID     func() string
	now       func() time.Time
	log       zerolog.Logger
}

func NewCostService(snapshots ports.SnapshotProvider, repo ports.CostRepository, log zerolog.Logger) ports.CostService {
	return &costService{snapshots: snapshots, repo: repo, newID: uuid.NewString, now: time.Now, log: log}
}

// RecordFuelCost prices a round trip to a venue and stores it.
func (s *costService) RecordFuelCost(ctx context.Context, in ports.FuelCostInput) (*domain.OperationalCost, error) {
	if in.DistanceKm <= 0 || in.CostPerKm <= 0 {
		return nil, fmt.Errorf("record fuel cost: %w", domain.ErrInvalidAmount)
	}
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("record fuel cost: %w", err)
	}
	venue, ok := snap.Venue(in.VenueID)
	if !ok {
		return nil, fmt.Errorf("record fuel cost: %w", domain.ErrVenueNotFound)
	}
	if in.SlotID != "" {
		if _, ok := snap.Slot(in.SlotID); !ok {
			return nil, fmt.Errorf("record fuel cost: %w", domain.ErrSlotNotFound)
		}
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	cost := domain.NewFuelCost(venue, in.DistanceKm, in.CostPerKm, date)
	cost.ID = s.newID()
	cost.SlotID = in.SlotID
	cost.Method = in.Method

	if err := s.repo.Insert(ctx, cost); err != nil {
		return nil, fmt.Errorf("record fuel cost: insert: %w", err)
	}
	s.snapshots.Apply(func(cur *domain.Snapshot) *domain.Snapshot { return cur.WithCost(cost) })

	s.log.Info().Str("cost_id", cost.ID).Str("venue_id", venue.ID).Float64("amount", cost.Amount).Msg("fuel cost recorded")
	return &cost, nil
}
