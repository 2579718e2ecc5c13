// Package worker persists queued visit events.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/jelajah/internal/adapters/mq/queue"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Event is what workers read off the queue.
type Event = queue.Event

// Recorder persists a visit.
type Recorder interface {
	RecordVisit(ctx context.Context, v Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// InMemoryWorker drains the queue into a Recorder.
type InMemoryWorker struct {
	queue    Queue
	recorder Recorder
	name     string
	logger   logger.Logger

	done chan struct{}
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, r Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		recorder: r,
		name:     "worker",
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes events until the queue is closed and drained or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "visit not persisted", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, e Event) error {
	if err := w.recorder.RecordVisit(ctx, e); err != nil {
		metrics.RecordUpstreamError("visits")
		return fmt.Errorf("record visit %s for user %s: %w", e.VisitID, e.UserID, err)
	}
	metrics.RecordVisitPersisted()
	return nil
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
	once    sync.Once
}

// NewPool creates workerCount workers. A non-positive count uses NumCPU.
func NewPool(workerCount int, q Queue, r Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for i := range p.workers {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		p.workers[i] = NewInMemoryWorker(q, r, wopts...)
	}
	p.logger = p.workers[0].logger
	metrics.UpdateVisitWorkers(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.once.Do(func() {
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(err))
			}
		}
	})

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	metrics.UpdateVisitWorkers(0)
	return nil
}
