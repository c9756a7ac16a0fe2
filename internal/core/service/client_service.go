package service

import (
	"context"
	"fmt"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
)

type clientService struct {
	snapshots ports.SnapshotProvider
	billing   *BillingReconciler
	directory *ClientDirectory
}

// NewClientService returns a ClientService over the current snapshot.
func NewClientService(snapshots ports.SnapshotProvider, billing *BillingReconciler) ports.ClientService {
	if billing == nil {
		billing = NewBillingReconciler(PriceCurrent)
	}
	return &clientService{
		snapshots: snapshots,
		billing:   billing,
		directory: NewClientDirectory(billing),
	}
}

func (s *clientService) List(_ context.Context, filter domain.ClientFilter) ([]domain.ClientSummary, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return s.directory.List(filter, snap), nil
}

func (s *clientService) Balance(_ context.Context, clientID string) (*domain.Balance, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("client balance: %w", err)
	}
	b, err := s.billing.ComputeClientBalance(clientID, snap)
	if err != nil {
		return nil, fmt.Errorf("client balance: %w", err)
	}
	return &b, nil
}
