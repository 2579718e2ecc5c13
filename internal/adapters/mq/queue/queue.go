// Package queue buffers visit events between the HTTP handler and the
// persistence workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Event is the payload flowing through the queue.
type Event = model.Visit

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an event. It returns false when the queue is full, closed,
	// or ctx is done.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns a channel of events. It is closed once the queue is
	// closed and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan Event

	Len(ctx context.Context) int
	Cap() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateVisitQueueCapacity(q.capacity)
	metrics.UpdateVisitQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordVisitEnqueueError("closed")
		return false
	}
	select {
	case <-ctx.Done():
		metrics.RecordVisitEnqueueError("context_cancelled")
		return false
	default:
	}

	select {
	case q.events <- e:
		metrics.UpdateVisitQueueSize(len(q.events))
		return true
	default:
		metrics.RecordVisitEnqueueError("queue_full")
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for e := range q.events {
			select {
			case out <- e:
				metrics.UpdateVisitQueueSize(len(q.events))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.events)
	metrics.UpdateVisitQueueSize(n)
	return n
}

// Cap implements Queue.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops accepting events. Buffered events are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
