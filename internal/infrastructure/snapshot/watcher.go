package snapshot

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultDebounce     = 250 * time.Millisecond
)

// ChangeNotifier signals that the store changed. Watch fails when the store
// cannot stream changes; the returned channel closes when the stream ends.
type ChangeNotifier interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Refresher is the part of Holder the watcher drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher refreshes on change notifications, debounced, and on a fixed
// interval. The interval alone keeps the snapshot fresh when the store has
// no change stream.
type Watcher struct {
	target   Refresher
	notifier ChangeNotifier
	interval time.Duration
	debounce time.Duration
	log      zerolog.Logger
}

// NewWatcher creates a Watcher. notifier may be nil for polling only.
func NewWatcher(target Refresher, notifier ChangeNotifier, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{
		target:   target,
		notifier: notifier,
		interval: interval,
		debounce: defaultDebounce,
		log:      log,
	}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	changes := w.subscribe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx, "poll")
		case _, ok := <-changes:
			if !ok {
				w.log.Warn().Dur("interval", w.interval).Msg("change stream closed, polling only")
				changes = nil
				continue
			}
			if !w.settle(ctx, changes) {
				return
			}
			w.refresh(ctx, "change")
			ticker.Reset(w.interval)
		}
	}
}

func (w *Watcher) subscribe(ctx context.Context) <-chan struct{} {
	if w.notifier == nil {
		return nil
	}
	changes, err := w.notifier.Watch(ctx)
	if err != nil {
		w.log.Warn().Err(err).Dur("interval", w.interval).Msg("change stream unavailable, polling")
		return nil
	}
	w.log.Info().Msg("watching store changes")
	return changes
}

// settle swallows the burst of notifications a multi-document write
// produces. It reports false when ctx ended.
func (w *Watcher) settle(ctx context.Context, changes <-chan struct{}) bool {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		case _, ok := <-changes:
			if !ok {
				return true
			}
		}
	}
}

func (w *Watcher) refresh(ctx context.Context, trigger string) {
	if err := w.target.Refresh(ctx); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Str("trigger", trigger).Msg("snapshot refresh failed")
	}
}
