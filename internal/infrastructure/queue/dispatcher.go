package queue

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the dispatcher has been shut down.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	key  string
	fn   func()
	done chan struct{}
}

// Dispatcher routes work to a fixed set of workers using consistent hashing
// on the session id. All work for one session runs on the same worker, one
// job at a time, in submission order.
type Dispatcher struct {
	workers []chan job
	stopped <-chan struct{}
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
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.stopped = ctx.Done()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Do runs fn on the worker owning key and waits for it to finish. It
// returns early if ctx is done or the dispatcher stops; fn may then still
// run later.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func()) error {
	j := job{key: key, fn: fn, done: make(chan struct{})}

	select {
	case d.workers[d.shardIndex(key)] <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopped:
		return ErrStopped
	}
}

// Pending returns the number of jobs waiting across all workers.
func (d *Dispatcher) Pending() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
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
		case j, ok := <-ch:
			if !ok {
				return
			}
			d.run(id, j)
		}
	}
}

func (d *Dispatcher) run(id int, j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("session_id", j.key).
				Int("worker_id", id).
				Msg("job panicked")
		}
	}()
	j.fn()
}
