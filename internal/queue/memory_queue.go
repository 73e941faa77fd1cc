// Package queue runs background cleanup work that must not hold up a request.
package queue

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CleanupJob asks for every task of a deleted team to be purged.
type CleanupJob struct {
	TeamID     primitive.ObjectID
	RetryCount int
}

// MemoryQueue is a bounded in-memory job queue.
type MemoryQueue struct {
	jobs     chan CleanupJob
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryQueue creates a new in-memory queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		jobs:     make(chan CleanupJob, capacity),
		capacity: capacity,
	}
}

// Enqueue adds a job without blocking. It returns ErrQueueFull when the
// buffer is at capacity and ErrQueueClosed after Close.
func (q *MemoryQueue) Enqueue(job CleanupJob) error {
	// Held for the whole send so Close cannot close the channel under us.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue returns the next job, blocking until one is available, ctx is
// done, or the queue is closed and drained.
func (q *MemoryQueue) Dequeue(ctx context.Context) (CleanupJob, error) {
	select {
	case <-ctx.Done():
		return CleanupJob{}, ctx.Err()
	case job, ok := <-q.jobs:
		if !ok {
			return CleanupJob{}, ErrQueueClosed
		}
		return job, nil
	}
}

// Close closes the queue. Jobs already buffered can still be dequeued.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Len returns the current number of jobs in the queue.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity returns the queue capacity.
func (q *MemoryQueue) Capacity() int {
	return q.capacity
}
