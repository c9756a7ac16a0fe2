package service

import (
	"context"
	"sync"
	"time"

	"github.com/officina/workshop-system/internal/core/domain"
)

type stubSnapshots struct {
	mu   sync.Mutex
	snap *domain.Snapshot
	err  error
}

func newStubSnapshots(c domain.Collections) *stubSnapshots {
	return &stubSnapshots{snap: snapshotOf(c)}
}

func (s *stubSnapshots) Current() (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *stubSnapshots) Apply(fn func(*domain.Snapshot) *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.snap)
	s.snap = next.Reversion(s.snap.Version() + 1)
}

func (s *stubSnapshots) Refresh(context.Context) error { return nil }

type stubEnrollmentRepo struct {
	mu       sync.Mutex
	inserted []domain.Enrollment
	statuses map[string]domain.EnrollmentStatus
	err      error
}

func (r *stubEnrollmentRepo) Insert(_ context.Context, e domain.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *stubEnrollmentRepo) UpdateStatus(_ context.Context, id string, status domain.EnrollmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.statuses == nil {
		r.statuses = make(map[string]domain.EnrollmentStatus)
	}
	r.statuses[id] = status
	return nil
}

type stubPaymentRepo struct {
	inserted []domain.Payment
	err      error
}

func (r *stubPaymentRepo) Insert(_ context.Context, p domain.Payment) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, p)
	return nil
}

type stubCostRepo struct {
	inserted []domain.OperationalCost
}

func (r *stubCostRepo) Insert(_ context.Context, c domain.OperationalCost) error {
	r.inserted = append(r.inserted, c)
	return nil
}

type stubCascadeRepo struct {
	applied []domain.CascadePlan
	err     error
}

func (r *stubCascadeRepo) Apply(_ context.Context, plan domain.CascadePlan) error {
	if r.err != nil {
		return r.err
	}
	r.applied = append(r.applied, plan)
	return nil
}

type stubLocker struct {
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(context.Context, string) (func(context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func(context.Context) error { l.released++; return nil }, nil
}

type stubCache struct {
	entries map[string][]byte
	getErr  error
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	body, ok := c.entries[key]
	return body, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, body []byte, _ time.Duration) error {
	c.entries[key] = body
	c.sets++
	return nil
}
