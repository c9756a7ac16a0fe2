// Package snapshot keeps the process-wide view of the store and refreshes
// it when the store changes.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
)

// Loader reads every collection the core needs.
type Loader interface {
	Load(ctx context.Context) (domain.Collections, error)
}

// RefreshObserver is told how long a refresh took and whether it failed.
type RefreshObserver func(elapsed time.Duration, err error)

// Holder publishes immutable snapshots. Readers never block and every
// publication gets a new version.
type Holder struct {
	loader  Loader
	current atomic.Pointer[domain.Snapshot]
	version atomic.Uint64
	mu      sync.Mutex // serializes publication
	loading int        // loads in flight, guarded by mu
	journal []localWrite
	now     func() time.Time
	observe RefreshObserver
	log     zerolog.Logger
}

// localWrite is an Apply recorded while a load was in flight.
type localWrite struct {
	version uint64
	fn      func(*domain.Snapshot) *domain.Snapshot
}

func NewHolder(loader Loader, log zerolog.Logger) *Holder {
	return &Holder{
		loader:  loader,
		now:     time.Now,
		observe: func(time.Duration, error) {},
		log:     log,
	}
}

// OnRefresh installs a refresh observer.
func (h *Holder) OnRefresh(fn RefreshObserver) {
	if fn != nil {
		h.observe = fn
	}
}

// Current returns domain.ErrSnapshotUnavailable until the first Refresh.
func (h *Holder) Current() (*domain.Snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	return snap, nil
}

// Apply derives a snapshot from the current one and publishes it. It is a
// no-op before the first load.
func (h *Holder) Apply(fn func(*domain.Snapshot) *domain.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.current.Load()
	if cur == nil {
		return
	}
	next := fn(cur)
	if next == nil {
		return
	}
	version := h.version.Add(1)
	h.current.Store(next.Reversion(version))
	if h.loading > 0 {
		h.journal = append(h.journal, localWrite{version: version, fn: fn})
	}
}

// Refresh reloads the store. Local writes applied while the load is in
// flight may be missing from the loaded data, so they are replayed on top
// of it before publication. Apply functions must therefore be idempotent.
func (h *Holder) Refresh(ctx context.Context) error {
	start := h.now()
	err := h.refresh(ctx)
	h.observe(h.now().Sub(start), err)
	return err
}

func (h *Holder) refresh(ctx context.Context) error {
	h.mu.Lock()
	h.loading++
	seen := h.version.Load()
	h.mu.Unlock()

	cols, err := h.loader.Load(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading--
	replay := h.journal
	if h.loading == 0 {
		h.journal = nil
	}
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	snap := domain.NewSnapshot(cols, 0, h.now())
	replayed := 0
	for _, w := range replay {
		if w.version <= seen {
			continue
		}
		if next := w.fn(snap); next != nil {
			snap = next
			replayed++
		}
	}
	snap = snap.Reversion(h.version.Add(1))
	h.current.Store(snap)

	h.log.Debug().
		Uint64("version", snap.Version()).
		Int("replayed", replayed).
		Int("clients", len(cols.Clients)).
		Int("enrollments", len(cols.Enrollments)).
		Int("payments", len(cols.Payments)).
		Msg("snapshot refreshed")
	return nil
}
