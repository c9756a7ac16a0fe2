package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

// ErrStopped is returned by Do once the dispatcher's context is done.
var ErrStopped = errors.New("dispatcher stopped")

// DepthObserver receives the queue depth of a worker after every change.
type DepthObserver func(worker int, depth int)

type job struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Dispatcher routes work to a fixed set of workers using consistent hashing
// on a key, so jobs sharing a key run one at a time in submission order.
// Enrollment writes are keyed by slot id.
type Dispatcher struct {
	workers []chan job
	stopped chan struct{}
	observe DepthObserver
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		stopped: make(chan struct{}),
		observe: func(int, int) {},
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// OnDepth installs a queue depth observer. Call before Start.
func (d *Dispatcher) OnDepth(fn DepthObserver) {
	if fn != nil {
		d.observe = fn
	}
}

// Workers reports the number of shards.
func (d *Dispatcher) Workers() int { return len(d.workers) }

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. It blocks
// while the worker's queue is full.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	idx := d.shardIndex(key)
	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case d.workers[idx] <- j:
		d.observe(idx, len(d.workers[idx]))
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		// The job still runs; its result is dropped.
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			d.observe(id, len(ch))
			j.done <- d.run(id, j)
		}
	}
}

func (d *Dispatcher) run(id int, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d: panic: %v", id, r)
			d.log.Error().Int("worker_id", id).Interface("panic", r).Msg("job panicked")
		}
	}()
	if cerr := j.ctx.Err(); cerr != nil {
		return cerr
	}
	return j.fn(j.ctx)
}
