package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxRetries is the maximum number of attempts for a cleanup job.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 5 * time.Second
	// JobTimeout bounds a single purge attempt.
	JobTimeout = 30 * time.Second
)

// TaskPurger deletes every task belonging to a team.
type TaskPurger interface {
	DeleteByTeamID(ctx context.Context, teamID primitive.ObjectID) (int64, error)
}

// Processor drains cleanup jobs with a fixed pool of workers.
type Processor struct {
	queue        *MemoryQueue
	purger       TaskPurger
	workerCount  int
	retryDelay   time.Duration
	log          logrus.FieldLogger
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRetryDelay overrides the base backoff delay.
func WithRetryDelay(d time.Duration) ProcessorOption {
	return func(p *Processor) { p.retryDelay = d }
}

// WithLogger sets the logger used by workers.
func WithLogger(log logrus.FieldLogger) ProcessorOption {
	return func(p *Processor) { p.log = log }
}

// NewProcessor creates a new cleanup job processor.
func NewProcessor(queue *MemoryQueue, purger TaskPurger, workerCount int, opts ...ProcessorOption) *Processor {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Processor{
		queue:       queue,
		purger:      purger,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		log:         logrus.StandardLogger(),
		shutdownCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithField("component", "cleanup")
	return p
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.log.WithField("workers", p.workerCount).Info("cleanup processor started")
}

// Stop closes the queue and waits for workers to drain it.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	p.log.Info("cleanup processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker", id)
	log.Debug("worker started")

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || errors.Is(err, context.Canceled) {
				log.Debug("worker shutting down")
				return
			}
			continue
		}
		p.Process(ctx, job)
	}
}

// Process runs one purge attempt for job and schedules a retry on failure.
func (p *Processor) Process(ctx context.Context, job CleanupJob) {
	log := p.log.WithFields(logrus.Fields{
		"team_id": job.TeamID.Hex(),
		"attempt": job.RetryCount + 1,
	})

	jobCtx, cancel := context.WithTimeout(ctx, JobTimeout)
	defer cancel()

	deleted, err := p.purger.DeleteByTeamID(jobCtx, job.TeamID)
	if err != nil {
		log.WithError(err).Warn("task purge failed")
		p.handleFailure(job)
		return
	}

	log.WithField("deleted", deleted).Info("team tasks purged")
}

func (p *Processor) handleFailure(job CleanupJob) {
	job.RetryCount++
	log := p.log.WithField("team_id", job.TeamID.Hex())

	if job.RetryCount >= MaxRetries {
		log.Error("max retries reached, team tasks left in place")
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))
	log.WithField("delay", delay).Info("retrying task purge")

	// Retries wait on shutdownCh, not the worker context, so a pending retry
	// is dropped as soon as shutdown starts.
	go func() {
		select {
		case <-p.shutdownCh:
			log.Warn("shutdown during retry delay, purge abandoned")
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				log.WithError(err).Error("failed to re-enqueue cleanup job")
			}
		}
	}()
}
