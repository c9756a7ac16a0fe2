package ports

import (
	"context"
	"time"
)

// SlotLocker guards one slot across processes for the duration of a write.
// Acquire returns domain.ErrSlotBusy when another holder owns the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, slotID string) (release func(context.Context) error, err error)
}

// Serializer runs fn on the single worker owning key, so work sharing a key
// never overlaps inside this process.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

// ReportCache stores rendered report bodies.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}
