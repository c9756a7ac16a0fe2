package ports

import (
	"context"

	"github.com/officina/workshop-system/internal/core/domain"
)

// SnapshotProvider hands out the latest immutable snapshot of the store.
type SnapshotProvider interface {
	// Current returns domain.ErrSnapshotUnavailable until the first load.
	Current() (*domain.Snapshot, error)
	// Apply publishes a locally derived snapshot after a successful write so
	// the next request sees it before the store notification arrives.
	Apply(fn func(*domain.Snapshot) *domain.Snapshot)
	// Refresh reloads every collection from the store.
	Refresh(ctx context.Context) error
}
